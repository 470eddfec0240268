package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/kdn/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelInfo),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("not shown")
	logger.Info("script finished", slog.String("file", "loop.kdn"), slog.Int("lines", 3))

	// Output:
	// level=INFO msg="script finished" file=loop.kdn lines=3
}

func Example_json() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithLevel(log.LevelTrace),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Trace("cache lookup", slog.Bool("cache_hit", true))

	// Output:
	// {"level":"TRACE","msg":"cache lookup","cache_hit":true}
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false)).
		With(slog.String("command", "check"))

	logger.Warn("empty source")

	// Output:
	// level=WARN msg="empty source" command=check
}
