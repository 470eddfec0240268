package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/kdn/cli/cmd"
	"github.com/ardnew/kdn/lang"
	"github.com/ardnew/kdn/pkg"
)

// TestRun drives the whole command line. The configuration and cache
// directories are resolved once per process, so every case shares them.
func TestRun(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(pkg.EnvVar("path"), "")

	dir := t.TempDir()
	script := filepath.Join(dir, "count.kdn")

	if err := os.WriteFile(script, []byte("for i in 0..3 { print(i); }\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	run := func(t *testing.T, stdin string, args ...string) (string, string, error) {
		t.Helper()

		var out, errOut bytes.Buffer

		ctx := cmd.WithStreams(t.Context(), cmd.Streams{
			In:  strings.NewReader(stdin),
			Out: &out,
			Err: &errOut,
		})

		err := Run(ctx, func(code int) { t.Fatalf("exit(%d)\n%s", code, errOut.String()) }, args...)

		return out.String(), errOut.String(), err
	}

	t.Run("default command", func(t *testing.T) {
		out, _, err := run(t, "", script)
		if err != nil {
			t.Fatal(err)
		}

		if out != "0\n1\n2\n" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("check", func(t *testing.T) {
		out, _, err := run(t, "let x = 1;", "check", "-")
		if err != nil {
			t.Fatal(err)
		}

		if out != "<stdin>: syntax check passed\n" {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("script error", func(t *testing.T) {
		_, stderr, err := run(t, "print(x);", "--no-fancy-errors", "run")
		if !errors.Is(err, cmd.ErrScript) {
			t.Fatalf("error = %v, want ErrScript", err)
		}

		if stderr != "<stdin>:1:7: runtime error: undefined variable: 'x'\n" {
			t.Errorf("stderr = %q", stderr)
		}
	})

	t.Run("init and configure", func(t *testing.T) {
		if _, _, err := run(t, "", "init"); err != nil {
			t.Fatal(err)
		}

		path := pkg.ConfigPath(configFile)

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}

		if !strings.Contains(string(data), "max-depth: 256") {
			t.Errorf("config =\n%s", data)
		}

		if err := os.WriteFile(path, []byte("max-depth: 2\nfancy-errors: false\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		_, stderr, err := run(t, "print((((1))));", "run")
		if !errors.Is(err, lang.ErrMaxDepthExceeded) {
			t.Fatalf("error = %v, want ErrMaxDepthExceeded", err)
		}

		if !strings.HasPrefix(stderr, "<stdin>:1:") {
			t.Errorf("configured plain diagnostics not used: %q", stderr)
		}

		if _, _, err := run(t, "", "init"); !errors.Is(err, cmd.ErrFileExists) {
			t.Errorf("second init error = %v, want ErrFileExists", err)
		}
	})
}
