package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/ardnew/kdn/log"
)

// maxExactFloat is the largest magnitude at which adding 1 to a float64
// always changes its value.
const maxExactFloat = 1 << 53

// Interpreter executes programs against a [Scope], writing print output to a
// host-provided sink.
//
// An Interpreter is single-threaded; each goroutine needs its own.
type Interpreter struct {
	scope  *Scope
	output io.Writer
	logger log.Logger
}

// NewInterpreter returns an Interpreter configured by opts.
// Without [WithScope] it starts from an empty global scope.
func NewInterpreter(opts ...Option) *Interpreter {
	o := makeOptions(opts...)

	if o.scope == nil {
		o.scope = NewScope()
	}

	return &Interpreter{
		scope:  o.scope,
		output: o.output,
		logger: o.logger,
	}
}

// Scope returns the scope the interpreter executes in.
func (in *Interpreter) Scope() *Scope { return in.scope }

// Bindings returns a copy of the global variable bindings.
func (in *Interpreter) Bindings() map[string]Value { return in.scope.Bindings() }

// Execute runs every directive of prog in order.
//
// The first error aborts execution; bindings made before it remain in the
// scope. Cancellation of ctx is observed before each directive, including
// each directive of every loop iteration.
func (in *Interpreter) Execute(ctx context.Context, prog *Program) error {
	in.logger.TraceContext(ctx, "execute start",
		slog.Int("directive_count", len(prog.Directives)))

	err := in.block(ctx, prog.Directives)

	in.logger.TraceContext(ctx, "execute finish",
		slog.Int("scope_depth", in.scope.Depth()),
		slog.Bool("ok", err == nil))

	return err
}

// Evaluate computes the value of a single expression in the current scope.
func (in *Interpreter) Evaluate(ctx context.Context, e Expr) (Value, error) {
	if err := checkpoint(ctx); err != nil {
		return Value{}, err
	}

	return in.eval(e)
}

// Run parses src (through the parse cache) and executes it in a new
// interpreter, returning the final global bindings.
func Run(ctx context.Context, src string, opts ...Option) (map[string]Value, error) {
	prog, err := ParseString(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	in := NewInterpreter(opts...)

	if err := in.Execute(ctx, prog); err != nil {
		return in.Bindings(), err
	}

	return in.Bindings(), nil
}

func checkpoint(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrCancelled.Wrap(context.Cause(ctx))
	}

	return nil
}

func (in *Interpreter) block(ctx context.Context, body []Directive) error {
	for _, d := range body {
		if ctx.Err() != nil {
			return ErrCancelled.WithSpan(d.Span()).Wrap(context.Cause(ctx))
		}

		if err := in.exec(ctx, d); err != nil {
			return err
		}
	}

	return nil
}

func (in *Interpreter) exec(ctx context.Context, d Directive) error {
	switch d := d.(type) {
	case *LetStmt:
		v, err := in.eval(d.Value)
		if err != nil {
			return err
		}

		in.scope.Declare(d.Name, v)

		return nil

	case *AssignStmt:
		v, err := in.eval(d.Value)
		if err != nil {
			return err
		}

		if err := in.scope.Assign(d.Name, v); err != nil {
			return WrapError(err).WithSpan(d.NameSpan)
		}

		return nil

	case *PrintStmt:
		v, err := in.eval(d.Value)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(in.output, v.String()); err != nil {
			return ErrWriteOutput.WithSpan(d.Pos).Wrap(err)
		}

		return nil

	case *ForLoop:
		return in.loop(ctx, d)
	}

	return ErrInvalidNode.With(slog.String("node", fmt.Sprintf("%T", d)))
}

// loop runs a for loop in its own frame. The binding is declared once in
// that frame and reassigned from an internal counter on each pass, so
// assignments to it inside the body do not change the iteration.
func (in *Interpreter) loop(ctx context.Context, d *ForLoop) error {
	start, err := in.eval(d.Start)
	if err != nil {
		return err
	}

	end, err := in.eval(d.End)
	if err != nil {
		return err
	}

	if start.IsFloat() || end.IsFloat() {
		if err := checkBound(d.Start, start); err != nil {
			return err
		}

		if err := checkBound(d.End, end); err != nil {
			return err
		}

		start = Float(start.AsFloat())
	}

	in.scope.Push()
	defer in.scope.Pop()

	in.logger.TraceContext(ctx, "loop enter",
		slog.String("binding", d.Binding),
		slog.Any("start", start),
		slog.Any("end", end))

	iterations := 0

	for cur := start; cur.Less(end); cur = increment(cur) {
		in.scope.Declare(d.Binding, cur)

		if err := in.block(ctx, d.Body); err != nil {
			return err
		}

		iterations++
	}

	in.logger.TraceContext(ctx, "loop exit",
		slog.String("binding", d.Binding),
		slog.Int("iterations", iterations))

	return nil
}

func increment(v Value) Value {
	if v.IsFloat() {
		return Float(v.Float + 1)
	}

	return Int(v.Int + 1)
}

// checkBound rejects float loop bounds at which stepping by one would never
// terminate.
func checkBound(e Expr, v Value) error {
	f := v.AsFloat()

	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return ErrType.
			WithSpan(e.Span()).
			WithDetail("loop bound " + v.String() + " is not finite")

	case math.Abs(f) > maxExactFloat:
		return ErrType.
			WithSpan(e.Span()).
			WithDetail("loop bound " + v.String() + " exceeds float precision")
	}

	return nil
}

func (in *Interpreter) eval(e Expr) (Value, error) {
	switch e := e.(type) {
	case *NumberLit:
		return e.Value, nil

	case *VarRef:
		v, err := in.scope.Lookup(e.Name)
		if err != nil {
			return Value{}, WrapError(err).WithSpan(e.Pos)
		}

		return v, nil

	case *GroupExpr:
		return in.eval(e.Inner)

	case *BinaryExpr:
		l, err := in.eval(e.Left)
		if err != nil {
			return Value{}, err
		}

		r, err := in.eval(e.Right)
		if err != nil {
			return Value{}, err
		}

		v, err := Arith(e.Op, l, r)
		if err != nil {
			var le *Error
			if errors.As(err, &le) {
				return Value{}, le.WithSpan(e.Pos)
			}

			return Value{}, err
		}

		return v, nil
	}

	return Value{}, ErrInvalidNode.With(slog.String("node", fmt.Sprintf("%T", e)))
}
