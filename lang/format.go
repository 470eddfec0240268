package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical source syntax.
//
// With a positive indent each directive gets its own line and loop bodies
// are indented by that many spaces per level. With indent 0 the whole
// program is written on one line. Parentheses and number spellings are
// kept as written.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	var b strings.Builder

	formatBlock(&b, p.Directives, indent, 0)

	if indent == 0 {
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// FormatJSON writes the program's syntax tree as JSON.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program's syntax tree as YAML.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}

// String returns the program in single-line canonical syntax.
func (p *Program) String() string {
	var b strings.Builder

	formatBlock(&b, p.Directives, 0, 0)

	return b.String()
}

func formatBlock(b *strings.Builder, body []Directive, indent, depth int) {
	for i, d := range body {
		if indent > 0 {
			b.WriteString(strings.Repeat(" ", depth*indent))
		} else if i > 0 {
			b.WriteString(" ")
		}

		formatDirective(b, d, indent, depth)

		if indent > 0 {
			b.WriteString("\n")
		}
	}
}

func formatDirective(b *strings.Builder, d Directive, indent, depth int) {
	switch d := d.(type) {
	case *LetStmt:
		b.WriteString(KeywordLet + " " + d.Name)

		if d.Type != nil {
			b.WriteString(": " + d.Type.Name)
		}

		b.WriteString(" = " + FormatExpr(d.Value) + ";")

	case *AssignStmt:
		b.WriteString(d.Name + " = " + FormatExpr(d.Value) + ";")

	case *PrintStmt:
		b.WriteString(KeywordPrint + "(" + FormatExpr(d.Value) + ");")

	case *ForLoop:
		b.WriteString(KeywordFor + " " + d.Binding + " " + KeywordIn + " ")
		b.WriteString(FormatExpr(d.Start) + ".." + FormatExpr(d.End) + " {")

		switch {
		case len(d.Body) == 0:
		case indent > 0:
			b.WriteString("\n")
			formatBlock(b, d.Body, indent, depth+1)
			b.WriteString(strings.Repeat(" ", depth*indent))
		default:
			b.WriteString(" ")
			formatBlock(b, d.Body, 0, depth+1)
			b.WriteString(" ")
		}

		b.WriteString("}")
	}
}

// FormatExpr returns the canonical source text of e.
func FormatExpr(e Expr) string {
	switch e := e.(type) {
	case *NumberLit:
		return e.Lexeme

	case *VarRef:
		return e.Name

	case *GroupExpr:
		return "(" + FormatExpr(e.Inner) + ")"

	case *BinaryExpr:
		return FormatExpr(e.Left) + " " + e.Op.String() + " " + FormatExpr(e.Right)
	}

	return "<invalid>"
}
