package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// maxHistory is the number of entries kept in memory and on disk.
const maxHistory = 1000

// Entry is one line of history and the mode it was entered in.
type Entry struct {
	Line string
	Mode inputMode
}

// encode renders e as a history file line: a mode tag, a colon, the text.
func (e Entry) encode() string {
	tag := "E"
	if e.Mode == modeCtrl {
		tag = "C"
	}

	return tag + ":" + e.Line + "\n"
}

func decodeEntry(line string) (Entry, bool) {
	line = strings.TrimSpace(line)

	tag, text, ok := strings.Cut(line, ":")
	if !ok || text == "" {
		return Entry{}, false
	}

	switch tag {
	case "E":
		return Entry{Line: text, Mode: modeEval}, true
	case "C":
		return Entry{Line: text, Mode: modeCtrl}, true
	}

	return Entry{}, false
}

// History is the REPL's input history, persisted to a file. An empty path
// keeps history in memory only.
type History struct {
	path    string
	entries []Entry
	mu      sync.RWMutex
}

// NewHistory returns an empty History backed by path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the in-memory entries with those in the history file.
// A missing file is not an error.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = h.entries[:0]

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if e, ok := decodeEntry(scanner.Text()); ok {
			h.entries = append(h.entries, e)
		}
	}

	if n := len(h.entries); n > maxHistory {
		h.entries = slices.Delete(h.entries, 0, n-maxHistory)
	}

	return scanner.Err()
}

// Add records line as the newest entry. An earlier identical entry in the
// same mode is moved rather than repeated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, "\r\n") {
		return nil
	}

	e := Entry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	idx := slices.Index(h.entries, e)
	if idx >= 0 {
		h.entries = slices.Delete(h.entries, idx, idx+1)
	}

	h.entries = append(h.entries, e)

	if len(h.entries) > maxHistory {
		h.entries = slices.Delete(h.entries, 0, len(h.entries)-maxHistory)
		idx = 0
	}

	if idx >= 0 {
		return h.save()
	}

	return h.append(e)
}

// At returns the entry at index i, oldest first.
func (h *History) At(i int) (Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return Entry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// append writes e to the end of the history file. Must be called with h.mu
// held.
func (h *History) append(e Entry) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.encode())

	return err
}

// save rewrites the history file from the in-memory entries. Must be called
// with h.mu held.
func (h *History) save() error {
	if h.path == "" {
		return nil
	}

	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e.encode())
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}
