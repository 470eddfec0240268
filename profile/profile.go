package profile

import "slices"

// Session is a running profiler. Stop flushes and closes its output.
type Session interface{ Stop() }

// Config selects a profiling mode and where its output is written.
// The zero Config disables profiling.
type Config struct {
	mode  string
	dir   string
	quiet bool
}

// Option changes a single [Config] field.
type Option func(Config) Config

// WithMode selects one of [Modes]. An empty or unknown mode disables
// profiling.
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.mode = mode

		return c
	}
}

// WithDir sets the output directory. An empty dir leaves the choice to
// pkg/profile, which uses a temporary directory.
func WithDir(dir string) Option {
	return func(c Config) Config {
		c.dir = dir

		return c
	}
}

// WithQuiet suppresses the profiler's own start and stop messages.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.quiet = quiet

		return c
	}
}

// Make returns a Config with opts applied in order. Nil options are skipped.
func Make(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// Mode returns the selected mode.
func (c Config) Mode() string { return c.mode }

// Dir returns the output directory.
func (c Config) Dir() string { return c.dir }

// Quiet reports whether profiler messages are suppressed.
func (c Config) Quiet() bool { return c.quiet }

// Enabled reports whether starting c would run a profiler.
func (c Config) Enabled() bool {
	return c.mode != "" && Supported(c.mode)
}

// Start begins profiling as configured. It is always safe to call Stop on
// the result, even when profiling is disabled.
func (c Config) Start() Session {
	if !c.Enabled() {
		return nop{}
	}

	return start(c)
}

// Start is shorthand for Make(opts...).Start().
func Start(opts ...Option) Session {
	return Make(opts...).Start()
}

// Supported reports whether mode is one of [Modes].
func Supported(mode string) bool {
	return slices.Contains(Modes(), mode)
}

type nop struct{}

func (nop) Stop() {}
