package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/kdn/lang"
	"github.com/ardnew/kdn/log"
	"github.com/ardnew/kdn/pkg"
)

// Globals are the flags shared by every command.
type Globals struct {
	Path        []string `help:"Directory searched for scripts before $KDN_PATH (repeatable)." placeholder:"DIR" short:"I" type:"path"`
	MaxDepth    int      `default:"256" help:"Maximum nesting of parentheses and loop bodies (0 for no limit)."`
	Verbose     bool     `help:"Report each script as it runs." short:"v"`
	FancyErrors bool     `default:"true" help:"Render diagnostics with color and code frames." negatable:""`
}

// options returns the lang options selected by g.
func (g *Globals) options(logger log.Logger, out io.Writer) []lang.Option {
	return []lang.Option{
		lang.WithMaxDepth(g.MaxDepth),
		lang.WithLogger(logger),
		lang.WithOutput(out),
	}
}

// SearchPath returns the directories searched for relative script names:
// each --path directory, then each entry of $KDN_PATH. Empty entries are
// dropped.
func (g *Globals) SearchPath() []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(pkg.EnvVar("path"))),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(g.Path...),
		mung.WithFilter(func(dir string) bool { return dir != "" }),
	).String()

	var dirs []string

	for _, dir := range filepath.SplitList(list) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context whose commands use s. Nil fields
// fall back to the process's standard streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// Source is the name and text of one script.
type Source struct {
	Name string
	Text string
}

const (
	// stdinSource is the file name that selects standard input.
	stdinSource = "-"
	// stdinName labels standard input in diagnostics.
	stdinName = "<stdin>"
	// codeName labels --code source in diagnostics.
	codeName = "<code>"
)

// fileKey uniquely identifies a file by its device and inode numbers, so the
// same script named through symlinks or different relative paths is loaded
// once.
type fileKey struct {
	dev uint64
	ino uint64
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// loadSources reads the named scripts in order. Inline code, when given,
// comes first. Standard input is read at most once, and files already
// loaded under another name are skipped.
func (g *Globals) loadSources(ctx context.Context, code string, names []string) ([]Source, error) {
	streams := streamsFrom(ctx)

	var srcs []Source

	if code != "" {
		srcs = append(srcs, Source{Name: codeName, Text: code})
	}

	var (
		seen  = make(map[fileKey]struct{})
		stdin bool
		dirs  = g.SearchPath()
	)

	for _, name := range names {
		if name == stdinSource {
			if stdin {
				continue
			}

			stdin = true

			text, err := io.ReadAll(streams.In)
			if err != nil {
				return nil, ErrReadSource.
					With(slog.String("file", stdinName)).
					Wrap(err)
			}

			srcs = append(srcs, Source{Name: stdinName, Text: string(text)})

			continue
		}

		path, err := resolve(name, dirs)
		if err != nil {
			return nil, err
		}

		if info, err := os.Stat(path); err == nil {
			if key, ok := makeFileKey(info); ok {
				if _, dup := seen[key]; dup {
					log.DebugContext(ctx, "skip duplicate source",
						slog.String("file", name))

					continue
				}

				seen[key] = struct{}{}
			}
		}

		text, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrReadSource.
				With(slog.String("file", path)).
				Wrap(err)
		}

		srcs = append(srcs, Source{Name: name, Text: string(text)})
	}

	return srcs, nil
}

// resolve finds name in the working directory or, when name is relative, in
// the first of dirs containing it. A name without an extension also matches
// the file with the kdn extension added.
func resolve(name string, dirs []string) (string, error) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+pkg.Extension)
	}

	exists := func(path string) bool {
		info, err := os.Stat(path)

		return err == nil && !info.IsDir()
	}

	for _, c := range candidates {
		if exists(c) {
			return c, nil
		}
	}

	if !filepath.IsAbs(name) {
		for _, dir := range dirs {
			for _, c := range candidates {
				if path := filepath.Join(dir, c); exists(path) {
					return path, nil
				}
			}
		}
	}

	return "", ErrSourceNotFound.With(
		slog.String("file", name),
		slog.Any("search_path", dirs),
	)
}
