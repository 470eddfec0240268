package lang

import (
	"io"
	"os"

	"github.com/ardnew/kdn/log"
)

// DefaultMaxDepth is the default limit on nested parentheses and loop
// bodies. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 256

// optionsKey holds the options that affect the parse result.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	MaxDepth int
}

// options holds configuration shared by the parser and the interpreter.
type options struct {
	output io.Writer
	scope  *Scope
	logger log.Logger // outside optionsKey, doesn't affect cache
	key    optionsKey
}

// Option configures parsing or execution behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth of parentheses and loop bodies.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.key.MaxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets the sink that print statements write to.
// If not provided, output goes to [os.Stdout].
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithScope makes an interpreter execute in an existing scope, so bindings
// persist across programs.
func WithScope(scope *Scope) Option {
	return func(o *options) {
		o.scope = scope
	}
}

func makeOptions(opts ...Option) options {
	o := options{
		output: os.Stdout,
		key:    optionsKey{MaxDepth: DefaultMaxDepth},
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.output == nil {
		o.output = io.Discard
	}

	return o
}
