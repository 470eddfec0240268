package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestHistory_AddAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h := NewHistory(path)

	for _, e := range []Entry{
		{"let x = 1;", modeEval},
		{"vars", modeCtrl},
		{"let x = 1;", modeEval}, // moved to the end
		{"print(x);", modeEval},
		{"print(x);", modeEval}, // repeat of newest, ignored
		{"  ", modeEval},        // blank, ignored
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	want := []Entry{
		{"vars", modeCtrl},
		{"let x = 1;", modeEval},
		{"print(x);", modeEval},
	}

	if got := h.Entries(); !equalEntries(got, want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "C:vars\nE:let x = 1;\nE:print(x);\n" {
		t.Errorf("file = %q", got)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	if got := loaded.Entries(); !equalEntries(got, want) {
		t.Errorf("loaded = %v, want %v", got, want)
	}
}

func TestHistory_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	if err := NewHistory(path).Load(); err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}

	content := "E:let a = 1;\ngarbage\nC:quit\nX:what\nE:\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []Entry{{"let a = 1;", modeEval}, {"quit", modeCtrl}}
	if got := h.Entries(); !equalEntries(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestHistory_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	var b strings.Builder
	for i := range maxHistory + 5 {
		b.WriteString("E:let v = " + strconv.Itoa(i) + ";\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if h.Len() != maxHistory {
		t.Errorf("Len() = %d, want %d", h.Len(), maxHistory)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("let y = 2;", modeEval); err != nil {
		t.Fatal(err)
	}

	e, err := h.At(0)
	if err != nil || e.Line != "let y = 2;" {
		t.Errorf("At(0) = %v, %v", e, err)
	}

	if _, err := h.At(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("At(1) error = %v, want ErrOutOfBounds", err)
	}

	if err := h.Add("two\nlines", modeEval); err != nil || h.Len() != 1 {
		t.Errorf("multi-line entry recorded: len %d, err %v", h.Len(), err)
	}
}

func equalEntries(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
