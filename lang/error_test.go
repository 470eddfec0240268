package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"sentinel", ErrType, "type error"},
		{"span", ErrType.WithSpan(Span{Line: 3, Column: 7}), "type error at 3:7"},
		{"detail", ErrType.WithDetail("bad bound"), "type error: bad bound"},
		{"wrapped", ErrReadInput.Wrap(cause), "failed to read input: boom"},
		{
			"everything",
			ErrType.WithSpan(Span{Line: 1, Column: 2}).WithDetail("bad").Wrap(cause),
			"type error at 1:2: bad: boom",
		},
		{"wrapped plain error", WrapError(cause), "boom"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestError_IsSentinel(t *testing.T) {
	t.Parallel()

	derived := ErrParse.
		WithSpan(Span{Line: 1, Column: 1}).
		WithDetail("x").
		With(slog.String("k", "v"))

	if !errors.Is(derived, ErrParse) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(derived, ErrLex) {
		t.Error("derived error matches an unrelated sentinel")
	}

	wrapped := fmt.Errorf("context: %w", derived)
	if !errors.Is(wrapped, ErrParse) {
		t.Error("wrapped error does not match its sentinel")
	}

	// Deriving never mutates the sentinel.
	if _, ok := ErrParse.Span(); ok || ErrParse.Detail() != "" {
		t.Error("sentinel was modified")
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	original := ErrType.WithDetail("d")

	if got := WrapError(fmt.Errorf("outer: %w", original)); got != original {
		t.Errorf("WrapError did not recover the *Error: %v", got)
	}

	plain := errors.New("plain")

	if got := WrapError(plain); !errors.Is(got, plain) {
		t.Errorf("WrapError(plain) = %v, does not unwrap to plain", got)
	}
}

func TestError_With(t *testing.T) {
	t.Parallel()

	base := ErrUndefinedVariable.With(slog.String("name", "a"))
	next := base.With(slog.String("name", "b"), slog.Int("n", 1))

	if v, _ := base.Attr("name"); v.String() != "a" {
		t.Errorf("base name = %v, want a", v)
	}

	if v, _ := next.Attr("name"); v.String() != "b" {
		t.Errorf("next name = %v, want b", v)
	}

	if _, ok := base.Attr("n"); ok {
		t.Error("With modified the receiver")
	}
}

func TestError_LogValue(t *testing.T) {
	t.Parallel()

	err := ErrParse.
		Expecting(Token{Kind: KindPunct, Lexeme: ";", Pos: Span{Line: 2, Column: 4}}, "=")

	var buf strings.Builder

	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("failed", slog.Any("err", err))

	out := buf.String()

	for _, want := range []string{
		"err.error=\"parse error\"",
		"err.span.line=2",
		"err.span.column=4",
		"err.detail=\"expected '=', found ';'\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestError_Frame(t *testing.T) {
	t.Parallel()

	src := "let a = 1;\nlet b = a $ 2;"

	_, err := Tokenize(src)

	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want *Error", err)
	}

	want := "  2 | let b = a $ 2;\n" +
		strings.Repeat(" ", 16) + "^\n"

	if got := le.Frame(src); got != want {
		t.Errorf("Frame =\n%q\nwant\n%q", got, want)
	}

	if got := ErrType.Frame(src); got != "" {
		t.Errorf("Frame without span = %q, want empty", got)
	}

	if got := ErrType.WithSpan(Span{Line: 9, Column: 1}).Frame(src); got != "" {
		t.Errorf("Frame past end = %q, want empty", got)
	}
}

func TestMarker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		span Span
		want string
	}{
		{"print(abc);", Span{Column: 7, Start: 6, End: 9}, "^^^"},
		{"print(abc);", Span{Column: 12, Start: 11, End: 11}, "^"},
		{"x", Span{Column: 1, Start: 0, End: 40}, "^"},
	}

	for _, tt := range tests {
		if got := Marker(tt.line, tt.span); got != tt.want {
			t.Errorf("Marker(%q, %+v) = %q, want %q", tt.line, tt.span, got, tt.want)
		}
	}
}

func TestError_Summary(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{ErrDivisionByZero.WithSpan(Span{Line: 2, Column: 7}), "division by zero"},
		{ErrUndefinedVariable.WithSpan(Span{Line: 1, Column: 7}).WithDetail("'y'"), "undefined variable: 'y'"},
		{ErrReadInput.Wrap(errors.New("disk gone")), "failed to read input: disk gone"},
		{WrapError(errors.New("plain")), "plain"},
	}

	for _, tt := range tests {
		if got := tt.err.Summary(); got != tt.want {
			t.Errorf("Summary() = %q, want %q", got, tt.want)
		}
	}
}
