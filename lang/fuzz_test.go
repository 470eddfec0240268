package lang

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzTokenize checks that the lexer never panics and that every token it
// produces covers its own lexeme.
func FuzzTokenize(f *testing.F) {
	f.Add("let x = 5;")
	f.Add("for i in 0..3 { print(i); }")
	f.Add("print(-1 - -2);")
	f.Add("# comment\n// another\n")
	f.Add("0.5..1.5")
	f.Add("let é = 1;")
	f.Add("@")
	f.Add("1.")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		toks, err := Tokenize(input)
		if err != nil {
			if !errors.Is(err, ErrLex) {
				t.Fatalf("error %v is not a lex error", err)
			}

			return
		}

		if len(toks) == 0 || toks[len(toks)-1].Kind != KindEOF {
			t.Fatalf("token stream does not end in EOF: %v", toks)
		}

		for i, tok := range toks {
			if tok.Pos.End > len(input) || tok.Pos.Start > tok.Pos.End {
				t.Fatalf("token %d span %+v out of range", i, tok.Pos)
			}

			if input[tok.Pos.Start:tok.Pos.End] != tok.Lexeme {
				t.Fatalf("token %d lexeme %q does not match source", i, tok.Lexeme)
			}
		}
	})
}

// FuzzParse checks that parsing never panics and that formatting a parsed
// program yields source that parses to the same program.
func FuzzParse(f *testing.F) {
	f.Add("let x = 5;")
	f.Add("let x: float = 1.5 * (2 - y);")
	f.Add("for i in 0..3 { for j in i..3 { print(i * j); } }")
	f.Add("x = x / 2;")
	f.Add("print((((1))));")
	f.Add("for i in 0..3 {")
	f.Add("let = ;")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		toks, err := Tokenize(input)
		if err != nil {
			return
		}

		prog, err := Parse(context.Background(), toks)
		if err != nil {
			if !errors.Is(err, ErrParse) && !errors.Is(err, ErrMaxDepthExceeded) {
				t.Fatalf("error %v is not a parse error", err)
			}

			return
		}

		formatted := prog.String()

		toks, err = Tokenize(formatted)
		if err != nil {
			t.Fatalf("formatted program %q does not lex: %v", formatted, err)
		}

		again, err := Parse(context.Background(), toks)
		if err != nil {
			t.Fatalf("formatted program %q does not parse: %v", formatted, err)
		}

		if again.String() != formatted {
			t.Fatalf("format is not stable:\n%s\n%s", formatted, again.String())
		}
	})
}
