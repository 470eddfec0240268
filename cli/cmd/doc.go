// Package cmd implements the kdn subcommands: run, check, tokens, fmt, init,
// and repl.
//
// Every command resolves its scripts through [Globals], which carries the
// flags shared by all commands, and writes through the [Streams] stored in
// its context. Script errors are rendered as diagnostics on the error stream
// before the command returns [ErrScript].
package cmd

const (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file
	// path.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable holding the REPL history file.
	HistoryIdentifier = "history"
)
