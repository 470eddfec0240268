// Package cli contains the command line interface for kdn.
//
// # Usage
//
//	kdn [flags] [file ...]             run scripts (the default command)
//	kdn check [file ...]               parse without running
//	kdn tokens [file]                  print the token stream
//	kdn fmt [native|json|yaml|ast] [file]
//	kdn repl [file ...]                interactive session
//	kdn init [--force]                 write the configuration file
//
// A file named '-' is standard input. Relative names are also looked up in
// each --path directory and then in $KDN_PATH.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory. Grouped flags nest under their group key:
//
//	log:
//	  level: debug
//	  format: json
//	max-depth: 128
//
// kdn init writes the file from the current flag values.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: text or json
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize terminal output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o kdn .
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread, or trace
//   - --pprof-dir: profile output directory (default: the pprof directory in
//     the user cache directory)
package cli
