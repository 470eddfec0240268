package log

// Option modifies a logger configuration. Options never mutate their
// argument; they return an updated copy.
type Option func(config) config

func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}
