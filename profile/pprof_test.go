//go:build pprof

package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes_Pprof(t *testing.T) {
	got := Modes()

	if !slices.IsSorted(got) {
		t.Errorf("Modes() not sorted: %q", got)
	}

	for _, want := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(got, want) {
			t.Errorf("Modes() = %q, missing %q", got, want)
		}
	}
}

func TestStart_CPU(t *testing.T) {
	dir := t.TempDir()

	Start(WithMode("cpu"), WithDir(dir), WithQuiet(true)).Stop()

	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Errorf("cpu profile not written: %v", err)
	}
}
