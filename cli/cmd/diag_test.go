package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ardnew/kdn/lang"
)

func scriptError(t *testing.T, text string) error {
	t.Helper()

	_, err := lang.Run(context.Background(), text, lang.WithOutput(nil))
	if err == nil {
		t.Fatalf("%q ran without error", text)
	}

	return err
}

func TestDiagnose_Plain(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "lex",
			text: "let a = 1 @",
			want: "t.kdn:1:11: lex error: unexpected character '@'\n",
		},
		{
			name: "undefined",
			text: "let y = x;",
			want: "t.kdn:1:9: runtime error: undefined variable: 'x'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			Diagnose(&buf, Source{Name: "t.kdn", Text: tt.text}, scriptError(t, tt.text), false)

			if buf.String() != tt.want {
				t.Errorf("Diagnose =\n%q\nwant\n%q", buf.String(), tt.want)
			}
		})
	}
}

// A bytes.Buffer is not a terminal, so the fancy report carries no styling.
func TestDiagnose_Fancy(t *testing.T) {
	text := "let y = x;"

	var buf bytes.Buffer

	Diagnose(&buf, Source{Name: "t.kdn", Text: text}, scriptError(t, text), true)

	want := "runtime error: undefined variable: 'x'\n" +
		"  --> t.kdn:1:9\n" +
		"  |\n" +
		"1 | let y = x;\n" +
		"  |         ^\n" +
		"  = help: declare the variable with 'let' before using it\n"

	if buf.String() != want {
		t.Errorf("Diagnose =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestDiagnose_Unspanned(t *testing.T) {
	var buf bytes.Buffer

	Diagnose(&buf, Source{Name: "t.kdn"}, lang.ErrCancelled.Wrap(context.Canceled), true)

	if got, want := buf.String(), "runtime error: execution cancelled: context canceled\n"; got != want {
		t.Errorf("Diagnose = %q, want %q", got, want)
	}

	buf.Reset()
	Diagnose(&buf, Source{Name: "t.kdn"}, errors.New("boom"), true)

	if got, want := buf.String(), "t.kdn: boom\n"; got != want {
		t.Errorf("Diagnose = %q, want %q", got, want)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err   error
		class string
	}{
		{lang.ErrLex, classLex},
		{lang.ErrParse, classParse},
		{lang.ErrMaxDepthExceeded, classParse},
		{lang.ErrType, classRuntime},
		{lang.ErrDivisionByZero, classRuntime},
		{lang.ErrWriteOutput, classRuntime},
	}

	for _, tt := range tests {
		if class, _ := classify(tt.err); class != tt.class {
			t.Errorf("classify(%v) = %q, want %q", tt.err, class, tt.class)
		}
	}
}
