// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured once, at creation, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options changed, and
// [Logger.With] one that adds attributes to every message. The zero Logger
// discards everything, so packages can accept one optionally and log without
// checking.
//
// # Levels
//
// Besides the four slog levels there is [LevelTrace], below [LevelDebug],
// used for step-by-step interpreter events. Levels print by name, so trace
// records show "TRACE" rather than "DEBUG-4".
//
// # Output
//
// Records are written as key=value text ([FormatText], the default) or JSON
// ([FormatJSON]). With [WithPretty], both layouts are styled with
// lipgloss when the output is a terminal; JSON is also indented.
//
// # Package-level logging
//
// Functions such as [Info] and [DebugContext] log through a package-level
// logger that writes to standard error. [Config] reconfigures it. Calls that
// take no context use [DefaultContextProvider].
package log
