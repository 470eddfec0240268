package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/kdn/lang"
	"github.com/ardnew/kdn/log"
)

// Fmt parses a script and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical kdn source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Print the indented syntax tree."`
}

// FormatInput selects the script a fmt subcommand reads.
type FormatInput struct {
	File string `arg:"" default:"-" help:"Script file, or '-' for stdin." name:"file"`
}

// IndentWidth is the indent flag of the text formats.
type IndentWidth struct {
	Indent int `default:"2" help:"Indent width (0 for a single line)." short:"i"`
}

// format parses the selected script and hands it to write.
func (f *FormatInput) format(
	ctx context.Context,
	g *Globals,
	name string,
	write func(context.Context, *lang.Program, Streams) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := g.loadSources(ctx, "", []string{f.File})
	if err != nil {
		return err
	}

	logger := log.With(slog.String("command", "fmt"), slog.String("format", name))
	streams := streamsFrom(ctx)

	for _, src := range srcs {
		prog, err := lang.ParseString(ctx, src.Text, g.options(logger, nil)...)
		if err != nil {
			return g.fail(ctx, src, err)
		}

		if err := write(ctx, prog, streams); err != nil {
			return ErrFormat.With(slog.String("format", name)).Wrap(err)
		}
	}

	return nil
}

// Native formats a script as canonical kdn source.
type Native struct {
	FormatInput
	IndentWidth
}

// Run executes the fmt native command.
func (n *Native) Run(ctx context.Context, g *Globals) error {
	return n.format(ctx, g, "native",
		func(ctx context.Context, p *lang.Program, s Streams) error {
			return p.Format(ctx, s.Out, n.Indent)
		})
}

// JSON formats a script's syntax tree as JSON.
type JSON struct {
	FormatInput
	IndentWidth
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context, g *Globals) error {
	return j.format(ctx, g, "json",
		func(ctx context.Context, p *lang.Program, s Streams) error {
			return p.FormatJSON(ctx, s.Out, j.Indent)
		})
}

// YAML formats a script's syntax tree as YAML.
type YAML struct {
	FormatInput
	IndentWidth
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context, g *Globals) error {
	return y.format(ctx, g, "yaml",
		func(ctx context.Context, p *lang.Program, s Streams) error {
			return p.FormatYAML(ctx, s.Out, y.Indent)
		})
}

// AST prints a script's syntax tree, one node per line.
type AST struct{ FormatInput }

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context, g *Globals) error {
	return a.format(ctx, g, "ast",
		func(ctx context.Context, p *lang.Program, s Streams) error {
			p.Print(ctx, s.Out, 0)

			return nil
		})
}
