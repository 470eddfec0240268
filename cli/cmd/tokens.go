package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/kdn/lang"
)

// Tokens prints the token stream of a script.
type Tokens struct {
	Code string `help:"Tokenize SOURCE instead of a file." placeholder:"SOURCE" short:"c"`
	File string `arg:"" default:"-" help:"Script file, or '-' for stdin." name:"file"`
}

// Run prints one line per token: its position, kind, and lexeme. The
// end-of-input token is included.
func (t *Tokens) Run(ctx context.Context, g *Globals) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var names []string
	if t.Code == "" {
		names = []string{t.File}
	}

	srcs, err := g.loadSources(ctx, t.Code, names)
	if err != nil {
		return err
	}

	out := streamsFrom(ctx).Out

	for _, src := range srcs {
		toks, err := lang.Tokenize(src.Text)
		if err != nil {
			return g.fail(ctx, src, err)
		}

		for _, tok := range toks {
			_, err := fmt.Fprintf(out, "%-7s %-11s %s\n", tok.Pos, tok.Kind, tok.Lexeme)
			if err != nil {
				return ErrFormat.Wrap(err)
			}
		}
	}

	return nil
}
