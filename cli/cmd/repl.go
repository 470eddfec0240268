package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/kdn/cli/cmd/repl"
	"github.com/ardnew/kdn/lang"
	"github.com/ardnew/kdn/log"
)

// Repl starts an interactive session.
type Repl struct {
	History string   `default:"${history}" help:"History file." type:"path"`
	Files   []string `arg:"" help:"Scripts to run before the prompt appears." name:"file" optional:""`
}

// Run executes the preloaded scripts, then hands their scope to the REPL so
// their bindings stay visible.
func (r *Repl) Run(ctx context.Context, g *Globals) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := g.loadSources(ctx, "", r.Files)
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)
	logger := log.With(slog.String("command", "repl"))
	scope := lang.NewScope()
	opts := append(g.options(logger, streams.Out), lang.WithScope(scope))
	in := lang.NewInterpreter(opts...)

	for _, src := range srcs {
		prog, err := lang.ParseString(ctx, src.Text, opts...)
		if err != nil {
			return g.fail(ctx, src, err)
		}

		if err := in.Execute(ctx, prog); err != nil {
			return g.fail(ctx, src, err)
		}
	}

	return repl.Run(ctx, repl.Config{
		Scope:    scope,
		History:  r.History,
		Logger:   logger,
		MaxDepth: g.MaxDepth,
		Input:    streams.In,
		Output:   streams.Out,
	})
}
