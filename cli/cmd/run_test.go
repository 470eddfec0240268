package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/kdn/lang"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	first := writeScript(t, dir, "first.kdn", "let x = 2;\n")
	second := writeScript(t, dir, "second.kdn", "for i in 0..x { print(i * 3); }\n")
	writeScript(t, dir, "lib.kdn", "let greeting = 7;\n")

	tests := []struct {
		name  string
		cmd   Run
		path  []string
		stdin string
		want  string
	}{
		{
			name: "shared bindings",
			cmd:  Run{Files: []string{first, second}},
			want: "0\n3\n",
		},
		{
			name: "code first",
			cmd:  Run{Code: "let x = 1;", Files: []string{second}},
			want: "0\n",
		},
		{
			name:  "stdin default",
			stdin: "print(2.5 * 2);",
			want:  "5.0\n",
		},
		{
			name:  "stdin once",
			cmd:   Run{Files: []string{"-", "-"}},
			stdin: "print(1);",
			want:  "1\n",
		},
		{
			name:  "search path",
			cmd:   Run{Files: []string{"lib", "-"}},
			path:  []string{dir},
			stdin: "print(greeting);",
			want:  "7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, errOut := testContext(t, tt.stdin)

			g := testGlobals()
			g.Path = tt.path

			if err := tt.cmd.Run(ctx, g); err != nil {
				t.Fatalf("Run: %v\n%s", err, errOut)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_Failure(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.kdn", "print(1);\n")
	bad := writeScript(t, dir, "bad.kdn", "print(1 / 0);\nprint(2);\n")

	ctx, out, errOut := testContext(t, "")

	g := testGlobals()
	g.Verbose = true

	err := (&Run{Files: []string{good, bad}}).Run(ctx, g)
	if !errors.Is(err, ErrScript) || !errors.Is(err, lang.ErrDivisionByZero) {
		t.Fatalf("error = %v, want script failure caused by division by zero", err)
	}

	if out.String() != "1\n" {
		t.Errorf("output = %q, want %q", out.String(), "1\n")
	}

	report := errOut.String()
	for _, want := range []string{
		"running " + good + "\n",
		"running " + bad + "\n",
		bad + ":1:7: runtime error: division by zero\n",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("stderr %q missing %q", report, want)
		}
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.kdn", "let x = 1; print(y);\n")
	bad := writeScript(t, dir, "bad.kdn", "let x = ;\n")

	ctx, out, errOut := testContext(t, "")

	if err := (&Check{Files: []string{good}}).Run(ctx, testGlobals()); err != nil {
		t.Fatalf("Check: %v\n%s", err, errOut)
	}

	if want := good + ": syntax check passed\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	out.Reset()

	err := (&Check{Files: []string{bad, good}}).Run(ctx, testGlobals())
	if !errors.Is(err, ErrScript) || !errors.Is(err, lang.ErrParse) {
		t.Fatalf("error = %v, want script failure caused by a parse error", err)
	}

	if out.Len() != 0 {
		t.Errorf("output after failure = %q", out.String())
	}

	if !strings.HasPrefix(errOut.String(), bad+":1:9: parse error: ") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestCheck_MaxDepth(t *testing.T) {
	ctx, _, _ := testContext(t, "")

	g := testGlobals()
	g.MaxDepth = 2

	err := (&Check{Code: "print(((1)));"}).Run(ctx, g)
	if !errors.Is(err, lang.ErrMaxDepthExceeded) {
		t.Fatalf("error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestTokens(t *testing.T) {
	ctx, out, _ := testContext(t, "")

	if err := (&Tokens{Code: "let x = 1;"}).Run(ctx, testGlobals()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}

	first := strings.Fields(lines[0])
	if len(first) != 3 || first[0] != "1:1" || first[2] != "let" {
		t.Errorf("first line = %q", lines[0])
	}

	if fields := strings.Fields(lines[3]); fields[0] != "1:9" || fields[len(fields)-1] != "1" {
		t.Errorf("number line = %q", lines[3])
	}
}

func TestTokens_LexError(t *testing.T) {
	ctx, out, errOut := testContext(t, "let a = $;")

	err := (&Tokens{File: "-"}).Run(ctx, testGlobals())
	if !errors.Is(err, lang.ErrLex) {
		t.Fatalf("error = %v, want ErrLex", err)
	}

	if out.Len() != 0 {
		t.Errorf("partial output = %q", out.String())
	}

	if want := "<stdin>:1:9: lex error: unexpected character '$'\n"; errOut.String() != want {
		t.Errorf("stderr = %q, want %q", errOut.String(), want)
	}
}
