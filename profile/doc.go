// Package profile starts optional runtime profiling using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof -o kdn .
//
// Without the tag, [Modes] is empty and [Start] always returns a session
// whose Stop does nothing, so callers never need to check the build
// configuration:
//
//	session := profile.Start(
//		profile.WithMode("cpu"),
//		profile.WithDir(dir),
//		profile.WithQuiet(true))
//	defer session.Stop()
//
// Profiles are written into the configured directory using the file names
// chosen by pkg/profile (cpu.pprof, mem.pprof, trace.out, and so on).
package profile
