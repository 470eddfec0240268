package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by source and option hashes.
// Cached programs are shared between callers, which is safe because a
// [Program] is never modified after parsing.
var globalCache sync.Map

// entry tracks the parse result of a single source.
type entry struct {
	once sync.Once
	prog *Program
	err  error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(key optionsKey) uint64 {
	var buf bytes.Buffer

	_ = gob.NewEncoder(&buf).Encode(key)

	return xxh3.Hash(buf.Bytes())
}

// ParseString tokenizes and parses src.
//
// Results, including errors, are cached by the content of src and the
// options that affect parsing, so repeated parses of the same text return
// the same [*Program].
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	sourceHash := xxh3.HashString(src)
	optsHash := hashOptions(o.key)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := globalCache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrInvalidNode.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	e.once.Do(func() {
		tokens, err := Tokenize(src)
		if err != nil {
			e.err = err

			return
		}

		o.logger.TraceContext(ctx, "lex complete",
			slog.Int("token_count", len(tokens)))

		e.prog, e.err = Parse(ctx, tokens, opts...)
	})

	return e.prog, e.err
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)
	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
