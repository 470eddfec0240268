package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Type identifies the representation of a [Value].
type Type int

const (
	TypeInt Type = iota
	TypeFloat
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return TypeNameInt
	case TypeFloat:
		return TypeNameFloat
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Value is the result of evaluating an expression: a 64-bit signed integer
// or a 64-bit float. The zero Value is the integer 0.
type Value struct {
	Type  Type
	Int   int64
	Float float64
}

// Int returns an integer Value.
func Int(i int64) Value { return Value{Type: TypeInt, Int: i} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{Type: TypeFloat, Float: f} }

// IsFloat reports whether v is a floating-point Value.
func (v Value) IsFloat() bool { return v.Type == TypeFloat }

// AsFloat returns v converted to float64.
func (v Value) AsFloat() float64 {
	if v.IsFloat() {
		return v.Float
	}

	return float64(v.Int)
}

// IsZero reports whether v is numerically zero.
func (v Value) IsZero() bool {
	if v.IsFloat() {
		return v.Float == 0
	}

	return v.Int == 0
}

// Native returns v as an int64 or float64.
func (v Value) Native() any {
	if v.IsFloat() {
		return v.Float
	}

	return v.Int
}

// String renders v the way print writes it.
//
// Integers are plain decimal. Floats use the shortest representation that
// reads back to the same value and always contain a decimal point, so 4.0
// prints as "4.0" and 3.5 as "3.5".
func (v Value) String() string {
	if !v.IsFloat() {
		return strconv.FormatInt(v.Int, 10)
	}

	switch f := v.Float; {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}

	s := strconv.FormatFloat(v.Float, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", v.Type.String()),
		slog.String("value", v.String()),
	)
}

// Arith applies op to l and r.
//
// If either operand is a float, both are promoted and the result is a float.
// Integer arithmetic wraps on overflow and integer division truncates toward
// zero. A zero divisor of either type fails with [ErrDivisionByZero].
func Arith(op Op, l, r Value) (Value, error) {
	if op == OpDiv && r.IsZero() {
		return Value{}, ErrDivisionByZero
	}

	if l.IsFloat() || r.IsFloat() {
		a, b := l.AsFloat(), r.AsFloat()

		switch op {
		case OpAdd:
			return Float(a + b), nil
		case OpSub:
			return Float(a - b), nil
		case OpMul:
			return Float(a * b), nil
		case OpDiv:
			return Float(a / b), nil
		}
	} else {
		a, b := l.Int, r.Int

		switch op {
		case OpAdd:
			return Int(a + b), nil
		case OpSub:
			return Int(a - b), nil
		case OpMul:
			return Int(a * b), nil
		case OpDiv:
			return Int(a / b), nil
		}
	}

	return Value{}, ErrInvalidNode.With(slog.String("op", op.String()))
}

// Less reports whether v is numerically less than w, promoting as needed.
func (v Value) Less(w Value) bool {
	if v.IsFloat() || w.IsFloat() {
		return v.AsFloat() < w.AsFloat()
	}

	return v.Int < w.Int
}

// parseNumber converts a number token to its Value.
func parseNumber(tok Token) (Value, error) {
	if tok.Float {
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return Value{}, err
		}

		return Float(f), nil
	}

	i, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return Value{}, err
	}

	return Int(i), nil
}
