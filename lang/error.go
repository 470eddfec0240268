package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from one of these, so
// errors.Is matches the sentinel regardless of any span, detail, or
// attributes attached afterward.
var (
	ErrLex               = NewError("lex error")
	ErrParse             = NewError("parse error")
	ErrUndefinedVariable = NewError("undefined variable")
	ErrType              = NewError("type error")
	ErrDivisionByZero    = NewError("division by zero")
	ErrMaxDepthExceeded  = NewError("maximum nesting depth exceeded")
	ErrCancelled         = NewError("execution cancelled")
	ErrReadInput         = NewError("failed to read input")
	ErrWriteOutput       = NewError("failed to write output")
	ErrInvalidNode       = NewError("invalid syntax tree node")
)

// Error represents an error with an optional source location and structured
// logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	base     *Error // sentinel this error derives from
	err      error  // wrapped error (for errors.Unwrap)
	found    *Token
	msg      string
	detail   string
	expected []string
	attrs    []slog.Attr
	span     Span
	spanned  bool
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg>[ at <line>:<col>][: <detail>][: <err>]".
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.msg)

	if e.spanned {
		if b.Len() > 0 {
			b.WriteString(" at ")
		}

		b.WriteString(e.span.String())
	}

	for _, part := range []string{e.detail, e.cause()} {
		if part == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(part)
	}

	return b.String()
}

// Summary is the message of e without its location, as shown beneath a
// diagnostic header.
func (e *Error) Summary() string {
	parts := make([]string, 0, 3)

	for _, part := range []string{e.msg, e.detail, e.cause()} {
		if part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, ": ")
}

func (e *Error) cause() string {
	if e.err == nil {
		return ""
	}

	return e.err.Error()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.root() == e.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.spanned {
		attrs = append(attrs, slog.Any("span", e.span))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if len(e.expected) > 0 {
		attrs = append(attrs, slog.Any("expected", e.expected))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// derive returns a copy of e that remembers e's sentinel.
func (e *Error) derive() *Error {
	d := *e
	d.base = e.root()

	return &d
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(d.attrs, e.attrs)
	copy(d.attrs[len(e.attrs):], attrs)

	return d
}

// WithSpan returns a copy of e located at span.
func (e *Error) WithSpan(span Span) *Error {
	d := e.derive()
	d.span = span
	d.spanned = true

	return d
}

// WithDetail returns a copy of e with a human-readable explanation.
func (e *Error) WithDetail(detail string) *Error {
	d := e.derive()
	d.detail = detail

	return d
}

// Expecting returns a copy of e located at found, recording the set of
// tokens that would have been accepted in its place.
func (e *Error) Expecting(found Token, expected ...string) *Error {
	d := e.WithSpan(found.Pos)
	d.found = &found
	d.expected = expected
	d.detail = describeExpected(expected) + ", found " + found.String()

	return d
}

// Span returns the source location of e, if it has one.
func (e *Error) Span() (Span, bool) { return e.span, e.spanned }

// Detail returns the human-readable explanation attached to e.
func (e *Error) Detail() string { return e.detail }

// Expected returns the set of tokens a parse error would have accepted.
func (e *Error) Expected() []string { return e.expected }

// Found returns the token a parse error stopped at.
func (e *Error) Found() (Token, bool) {
	if e.found == nil {
		return Token{}, false
	}

	return *e.found, true
}

// Attr returns the value of the attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for i := len(e.attrs) - 1; i >= 0; i-- {
		if e.attrs[i].Key == key {
			return e.attrs[i].Value, true
		}
	}

	return slog.Value{}, false
}

// Frame renders the source line containing e with a caret marker beneath the
// offending columns. It returns an empty string if e has no location or the
// location is outside source.
func (e *Error) Frame(source string) string {
	if !e.spanned {
		return ""
	}

	line, ok := Excerpt(source, e.span)
	if !ok {
		return ""
	}

	num := strconv.Itoa(e.span.Line)

	var b strings.Builder

	b.WriteString("  " + num + " | " + line + "\n")
	// 2 leading spaces + " | "
	b.WriteString(strings.Repeat(" ", len(num)+5+e.span.Column-1))
	b.WriteString(Marker(line, e.span) + "\n")

	return b.String()
}

// Excerpt returns the full line of source containing span.
func Excerpt(source string, span Span) (string, bool) {
	if span.Line < 1 {
		return "", false
	}

	lines := strings.Split(source, "\n")
	if span.Line > len(lines) {
		return "", false
	}

	return strings.TrimRight(lines[span.Line-1], "\r"), true
}

// Marker returns the caret string that underlines span within line.
func Marker(line string, span Span) string {
	width := utf8.RuneCountInString(line) - (span.Column - 1)

	// A span ending past this line is clipped to it.
	if n := span.Len(); n > 0 {
		width = min(width, n)
	}

	return strings.Repeat("^", max(width, 1))
}

func describeExpected(expected []string) string {
	parts := make([]string, len(expected))
	for i, s := range expected {
		parts[i] = describeTerm(s)
	}

	switch len(parts) {
	case 0:
		return "unexpected token"
	case 1:
		return "expected " + parts[0]
	default:
		return "expected one of " + strings.Join(parts, ", ")
	}
}

// describeTerm quotes literal terminals but leaves token classes bare.
func describeTerm(s string) string {
	switch s {
	case termIdent, termNumber, termEOF:
		return s
	}

	return quote(s)
}
