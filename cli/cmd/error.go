package cmd

import (
	"log/slog"
	"strings"
)

// Error is a command failure with structured logging attributes.
//
// Errors derived from a sentinel with [Error.Wrap] or [Error.With] still
// match it with errors.Is.
type Error struct {
	base  *Error
	err   error
	msg   string
	attrs []slog.Attr
}

// NewError returns a sentinel Error.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e derives from.
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

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
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

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	d := *e
	d.base = e.root()
	d.err = err

	return &d
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := *e
	d.base = e.root()
	d.attrs = append(append(make([]slog.Attr, 0, len(e.attrs)+len(attrs)), e.attrs...), attrs...)

	return &d
}

var (
	// ErrScript reports a script that failed to lex, parse, or execute. Its
	// diagnostic has already been written by the time it is returned.
	ErrScript         = NewError("script failed")
	ErrReadSource     = NewError("read source")
	ErrSourceNotFound = NewError("source not found")
	ErrFormat         = NewError("format output")
	ErrWriteConfig    = NewError("write configuration file")
	ErrFileExists     = NewError("file exists (use --force to overwrite)")
)
