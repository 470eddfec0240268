package lang

import (
	"log/slog"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	KindEOF Kind = iota
	KindIdent
	KindNumber
	KindKeyword
	KindOperator
	KindPunct
)

var kindName = [...]string{
	KindEOF:      "end of input",
	KindIdent:    "identifier",
	KindNumber:   "number",
	KindKeyword:  "keyword",
	KindOperator: "operator",
	KindPunct:    "punctuation",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// Reserved words.
const (
	KeywordLet   = "let"
	KeywordPrint = "print"
	KeywordFor   = "for"
	KeywordIn    = "in"
)

// Keywords returns every reserved word in declaration order.
func Keywords() []string {
	return []string{KeywordLet, KeywordPrint, KeywordFor, KeywordIn}
}

func isKeyword(s string) bool {
	switch s {
	case KeywordLet, KeywordPrint, KeywordFor, KeywordIn:
		return true
	}

	return false
}

// Span locates a token or node in source text.
// Line and Column are 1-based, Column counts runes.
// Start and End are byte offsets; End is exclusive.
type Span struct {
	Line   int
	Column int
	Start  int
	End    int
}

// Join returns the smallest span covering both s and t.
func (s Span) Join(t Span) Span {
	if t.Start < s.Start {
		s, t = t, s
	}

	s.End = max(s.End, t.End)

	return s
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

func (s Span) String() string {
	return strconv.Itoa(s.Line) + ":" + strconv.Itoa(s.Column)
}

// LogValue implements slog.LogValuer.
func (s Span) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", s.Line),
		slog.Int("column", s.Column),
		slog.Int("offset", s.Start),
	)
}

// Token is a single lexeme of source text.
type Token struct {
	Lexeme string
	Pos    Span
	Kind   Kind
	// Float is set for number literals containing a decimal point.
	Float bool
}

// Is reports whether t has the given kind and lexeme.
func (t Token) Is(kind Kind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

// Operand reports whether t can end an operand.
func (t Token) Operand() bool {
	return t.Kind == KindIdent || t.Kind == KindNumber || t.Is(KindPunct, ")")
}

// String describes t the way it appears in diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case KindEOF:
		return t.Kind.String()
	case KindIdent, KindNumber:
		return t.Kind.String() + " " + quote(t.Lexeme)
	default:
		return quote(t.Lexeme)
	}
}

func quote(s string) string { return "'" + s + "'" }
