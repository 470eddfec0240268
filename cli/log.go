package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/kdn/log"
)

// logFormat configures the logger format as a side effect of parsing, so
// errors reported during parsing already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                     help:"Set timestamp layout (a time constant name, a Go layout, or none)."`
	Caller     bool      `default:"false"                                       help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                        help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// logValueFlags take a value, either attached with '=' or as the next
// argument.
var logValueFlags = map[string]func(*logConfig, string){
	"level":  func(f *logConfig, v string) { _ = f.Level.UnmarshalText([]byte(v)) },
	"format": func(f *logConfig, v string) { _ = f.Format.UnmarshalText([]byte(v)) },
	"time-layout": func(f *logConfig, v string) {
		f.TimeLayout = v
		log.Config(log.WithTimeLayout(v))
	},
}

// logSwitchFlags are booleans that also accept a "--no-log-" form.
var logSwitchFlags = map[string]func(*logConfig, bool){
	"caller": func(f *logConfig, on bool) {
		f.Caller = on
		log.Config(log.WithCaller(on))
	},
	"pretty": func(f *logConfig, on bool) {
		f.Pretty = on
		log.Config(log.WithPretty(on))
	},
}

// scan applies logger flags found in args before kong parses them. Boolean
// flags never pass through a TextUnmarshaler, and kong reports some errors
// before it reaches the value flags, so everything is applied here first.
// Scanning stops at "--".
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		name, negated := strings.CutPrefix(arg, "--no-log-")
		if !negated {
			var ok bool
			if name, ok = strings.CutPrefix(arg, "--log-"); !ok {
				continue
			}
		}

		name, value, assigned := strings.Cut(name, "=")

		if set, ok := logSwitchFlags[name]; ok {
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			set(f, on != negated)

			continue
		}

		apply, ok := logValueFlags[name]
		if !ok || negated {
			continue
		}

		if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			value = args[i+1]
			i++
		}

		apply(f, value)
	}
}
