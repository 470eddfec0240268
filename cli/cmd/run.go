package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/kdn/lang"
	"github.com/ardnew/kdn/log"
)

// Run executes scripts.
type Run struct {
	Code  string   `help:"Execute SOURCE before any files." placeholder:"SOURCE" short:"c"`
	Files []string `arg:"" help:"Script files to run in order, or '-' for stdin." name:"file" optional:""`
}

// Run executes every source in order with one interpreter, so later scripts
// see the bindings of earlier ones. Without files or inline code it reads
// standard input.
func (r *Run) Run(ctx context.Context, g *Globals) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names := r.Files
	if len(names) == 0 && r.Code == "" {
		names = []string{stdinSource}
	}

	srcs, err := g.loadSources(ctx, r.Code, names)
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)
	logger := log.With(slog.String("command", "run"))
	opts := g.options(logger, streams.Out)
	in := lang.NewInterpreter(opts...)

	for _, src := range srcs {
		if g.Verbose {
			fmt.Fprintf(streams.Err, "running %s\n", src.Name)
		}

		prog, err := lang.ParseString(ctx, src.Text, opts...)
		if err != nil {
			return g.fail(ctx, src, err)
		}

		if err := in.Execute(ctx, prog); err != nil {
			return g.fail(ctx, src, err)
		}

		logger.DebugContext(ctx, "script finished",
			slog.String("file", src.Name),
			slog.Int("binding_count", len(in.Bindings())))
	}

	return nil
}

// fail reports a script error on the error stream and returns it as
// [ErrScript].
func (g *Globals) fail(ctx context.Context, src Source, err error) error {
	Diagnose(streamsFrom(ctx).Err, src, err, g.FancyErrors)

	return ErrScript.With(slog.String("file", src.Name)).Wrap(err)
}
