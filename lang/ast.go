package lang

import (
	"context"
	"io"
	"strings"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Span() Span
}

// Directive is a statement executed for its effect.
// The set of implementations is closed: [*LetStmt], [*AssignStmt],
// [*PrintStmt], and [*ForLoop].
type Directive interface {
	Node
	directive()
}

// Expr is an expression producing a [Value].
// The set of implementations is closed: [*NumberLit], [*VarRef],
// [*BinaryExpr], and [*GroupExpr].
type Expr interface {
	Node
	expr()
}

// Program is the root of a parsed source text.
// A Program is never modified after parsing, so it may be shared.
type Program struct {
	Directives []Directive
}

// Type names accepted in a let annotation.
const (
	TypeNameInt    = "int"
	TypeNameFloat  = "float"
	TypeNameString = "string"
)

// TypeNames returns the names accepted in a let annotation.
func TypeNames() []string {
	return []string{TypeNameInt, TypeNameFloat, TypeNameString}
}

// TypeAnnotation is the optional ": type" of a let statement.
// It is recorded but never checked.
type TypeAnnotation struct {
	Name string
	Pos  Span
}

// LetStmt declares a variable in the current scope frame.
type LetStmt struct {
	Value    Expr
	Type     *TypeAnnotation
	Name     string
	NameSpan Span
	Pos      Span
}

// AssignStmt rebinds the nearest existing declaration of a variable.
type AssignStmt struct {
	Value    Expr
	Name     string
	NameSpan Span
	Pos      Span
}

// PrintStmt writes the value of an expression as one output line.
type PrintStmt struct {
	Value Expr
	Pos   Span
}

// ForLoop iterates Binding over the half-open range [Start, End).
type ForLoop struct {
	Start       Expr
	End         Expr
	Binding     string
	Body        []Directive
	BindingSpan Span
	Pos         Span
}

// NumberLit is an integer or floating-point literal.
type NumberLit struct {
	Lexeme string
	Value  Value
	Pos    Span
}

// VarRef reads a variable.
type VarRef struct {
	Name string
	Pos  Span
}

// Op is an arithmetic operator.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
)

func (op Op) String() string { return string(rune(op)) }

// BinaryExpr applies Op to two operands.
type BinaryExpr struct {
	Left  Expr
	Right Expr
	Op    Op
	Pos   Span
}

// GroupExpr is a parenthesized expression.
type GroupExpr struct {
	Inner Expr
	Pos   Span
}

func (n *LetStmt) Span() Span    { return n.Pos }
func (n *AssignStmt) Span() Span { return n.Pos }
func (n *PrintStmt) Span() Span  { return n.Pos }
func (n *ForLoop) Span() Span    { return n.Pos }
func (n *NumberLit) Span() Span  { return n.Pos }
func (n *VarRef) Span() Span     { return n.Pos }
func (n *BinaryExpr) Span() Span { return n.Pos }
func (n *GroupExpr) Span() Span  { return n.Pos }

func (*LetStmt) directive()    {}
func (*AssignStmt) directive() {}
func (*PrintStmt) directive()  {}
func (*ForLoop) directive()    {}

func (*NumberLit) expr()  {}
func (*VarRef) expr()     {}
func (*BinaryExpr) expr() {}
func (*GroupExpr) expr()  {}

func writer(w io.Writer) func(eol string, item ...string) {
	return func(eol string, item ...string) {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)
		if err != nil {
			panic(err)
		}
	}
}

// Print writes an indented dump of the syntax tree, one node per line.
// Output is a pure function of the tree, so identical sources print
// identically.
func (p *Program) Print(ctx context.Context, w io.Writer, indent int) {
	put := writer(w)
	put("\n", strings.Repeat("  ", indent)+"Program")

	for _, d := range p.Directives {
		printNode(ctx, w, d, indent+1)
	}
}

func printNode(ctx context.Context, w io.Writer, n Node, indent int) {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)
	at := "@" + n.Span().String()

	switch n := n.(type) {
	case *LetStmt:
		label := n.Name
		if n.Type != nil {
			label += " " + n.Type.Name
		}

		put("\n", prefix+"Let "+at, label)
		printNode(ctx, w, n.Value, indent+1)

	case *AssignStmt:
		put("\n", prefix+"Assign "+at, n.Name)
		printNode(ctx, w, n.Value, indent+1)

	case *PrintStmt:
		put("\n", prefix+"Print "+at)
		printNode(ctx, w, n.Value, indent+1)

	case *ForLoop:
		put("\n", prefix+"For "+at, n.Binding)
		put("\n", prefix+"  Start")
		printNode(ctx, w, n.Start, indent+2)
		put("\n", prefix+"  End")
		printNode(ctx, w, n.End, indent+2)
		put("\n", prefix+"  Body")

		if len(n.Body) == 0 {
			put("\n", prefix+"    (empty)")
		}

		for _, d := range n.Body {
			printNode(ctx, w, d, indent+2)
		}

	case *NumberLit:
		put("\n", prefix+"Number "+at, n.Value.Type.String(), n.Lexeme)

	case *VarRef:
		put("\n", prefix+"Var "+at, n.Name)

	case *BinaryExpr:
		put("\n", prefix+"Binary "+at, n.Op.String())
		printNode(ctx, w, n.Left, indent+1)
		printNode(ctx, w, n.Right, indent+1)

	case *GroupExpr:
		put("\n", prefix+"Group "+at)
		printNode(ctx, w, n.Inner, indent+1)

	default:
		put("\n", prefix+"(invalid)")
	}
}
