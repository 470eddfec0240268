package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

const formatSource = "let x:int=5;\n# comment\nfor i in 0..3{print((x+i)*2.5);}\nx=x-1;"

func TestProgram_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			name:   "indented",
			indent: 2,
			want: "let x: int = 5;\n" +
				"for i in 0..3 {\n" +
				"  print((x + i) * 2.5);\n" +
				"}\n" +
				"x = x - 1;\n",
		},
		{
			name:   "wide indent",
			indent: 4,
			want: "let x: int = 5;\n" +
				"for i in 0..3 {\n" +
				"    print((x + i) * 2.5);\n" +
				"}\n" +
				"x = x - 1;\n",
		},
		{
			name:   "single line",
			indent: 0,
			want:   "let x: int = 5; for i in 0..3 { print((x + i) * 2.5); } x = x - 1;\n",
		},
	}

	prog := mustParse(t, formatSource)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			if err := prog.Format(context.Background(), &buf, tt.indent); err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Errorf("Format =\n%s\nwant\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestProgram_FormatRoundTrip(t *testing.T) {
	t.Parallel()

	sources := []string{
		formatSource,
		"for a in -2..-1 { for b in 0..a { } }",
		"print(1 - -1); print(-1 - 1);",
		"let f: float = 0.125 / (2 - 4);",
	}

	for _, src := range sources {
		prog := mustParse(t, src)

		var buf bytes.Buffer
		if err := prog.Format(context.Background(), &buf, 2); err != nil {
			t.Fatal(err)
		}

		again := mustParse(t, buf.String())
		if prog.String() != again.String() {
			t.Errorf("round trip changed %q:\n%s\n%s", src, prog.String(), again.String())
		}
	}
}

func TestProgram_FormatJSON(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, "let x: float = 1 + 2.5; for i in 0..2 { print(i); }")

	var buf bytes.Buffer
	if err := prog.FormatJSON(context.Background(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Program []map[string]any `json:"program"`
	}

	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if len(doc.Program) != 2 {
		t.Fatalf("got %d directives, want 2", len(doc.Program))
	}

	let := doc.Program[0]
	if let["node"] != "let" || let["name"] != "x" || let["type"] != "float" || let["span"] != "1:1" {
		t.Errorf("let = %v", let)
	}

	value, _ := let["value"].(map[string]any)
	if value["node"] != "binary" || value["op"] != "+" {
		t.Errorf("let value = %v", value)
	}

	loop := doc.Program[1]
	if loop["node"] != "for" || loop["binding"] != "i" {
		t.Errorf("loop = %v", loop)
	}

	if body, _ := loop["body"].([]any); len(body) != 1 {
		t.Errorf("loop body = %v, want one directive", loop["body"])
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, "print(2 * 3);")

	var buf bytes.Buffer
	if err := prog.FormatYAML(context.Background(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	for _, want := range []string{"program:", "node: print", "op:", "node: number"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()

	if err := prog.FormatYAML(context.Background(), &buf, 0); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("flow YAML = %q, want a flow mapping", buf.String())
	}
}

func TestFormatExpr(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"1+2*3":       "1 + 2 * 3",
		"(1+2)*3":     "(1 + 2) * 3",
		"a/(b-c)":     "a / (b - c)",
		"((x))":       "((x))",
		"2.50 - -1.0": "2.50 - -1.0",
	}

	for src, want := range tests {
		e, err := ParseExpr(context.Background(), src)
		if err != nil {
			t.Fatalf("ParseExpr(%q): %v", src, err)
		}

		if got := FormatExpr(e); got != want {
			t.Errorf("FormatExpr(%q) = %q, want %q", src, got, want)
		}
	}
}
