//go:build !pprof

package profile

// Tag is the subdirectory name used for profile output.
const Tag = "pprof"

// Modes returns nil: profiling was not compiled in.
func Modes() []string { return nil }

func start(Config) Session { return nop{} }
