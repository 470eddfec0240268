package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to native Go maps and slices suitable for
// generic encoders. Every node becomes a map with a "node" kind and a "span"
// of the form "line:column".
func (p *Program) ToMap() map[string]any {
	return map[string]any{
		"program": directivesToNative(p.Directives),
	}
}

func directivesToNative(body []Directive) []any {
	list := make([]any, len(body))
	for i, d := range body {
		list[i] = ToNative(d)
	}

	return list
}

// ToNative converts a single syntax tree node to a native Go map.
func ToNative(n Node) map[string]any {
	m := map[string]any{"span": n.Span().String()}

	switch n := n.(type) {
	case *LetStmt:
		m["node"] = "let"
		m["name"] = n.Name
		m["value"] = ToNative(n.Value)

		if n.Type != nil {
			m["type"] = n.Type.Name
		}

	case *AssignStmt:
		m["node"] = "assign"
		m["name"] = n.Name
		m["value"] = ToNative(n.Value)

	case *PrintStmt:
		m["node"] = "print"
		m["value"] = ToNative(n.Value)

	case *ForLoop:
		m["node"] = "for"
		m["binding"] = n.Binding
		m["start"] = ToNative(n.Start)
		m["end"] = ToNative(n.End)
		m["body"] = directivesToNative(n.Body)

	case *NumberLit:
		m["node"] = "number"
		m["type"] = n.Value.Type.String()
		m["value"] = n.Value.Native()

	case *VarRef:
		m["node"] = "var"
		m["name"] = n.Name

	case *BinaryExpr:
		m["node"] = "binary"
		m["op"] = n.Op.String()
		m["left"] = ToNative(n.Left)
		m["right"] = ToNative(n.Right)

	case *GroupExpr:
		m["node"] = "group"
		m["inner"] = ToNative(n.Inner)

	default:
		m["node"] = "invalid"
	}

	return m
}
