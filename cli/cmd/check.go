package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/kdn/lang"
	"github.com/ardnew/kdn/log"
)

// Check parses scripts without running them.
type Check struct {
	Code  string   `help:"Check SOURCE before any files." placeholder:"SOURCE" short:"c"`
	Files []string `arg:"" help:"Script files to check, or '-' for stdin." name:"file" optional:""`
}

// Run reports "<name>: syntax check passed" for each source that parses and
// stops at the first that does not.
func (c *Check) Run(ctx context.Context, g *Globals) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names := c.Files
	if len(names) == 0 && c.Code == "" {
		names = []string{stdinSource}
	}

	srcs, err := g.loadSources(ctx, c.Code, names)
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)
	logger := log.With(slog.String("command", "check"))

	for _, src := range srcs {
		prog, err := lang.ParseString(ctx, src.Text, g.options(logger, nil)...)
		if err != nil {
			return g.fail(ctx, src, err)
		}

		if g.Verbose {
			fmt.Fprintf(streams.Err, "%s: %d directives\n", src.Name, len(prog.Directives))
		}

		fmt.Fprintf(streams.Out, "%s: syntax check passed\n", src.Name)
	}

	return nil
}
