package cli

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	Log struct {
		Level  string `default:"warn"`
		Pretty bool   `default:"true" negatable:""`
	} `embed:"" group:"log" prefix:"log-"`

	MaxDepth int      `default:"256"`
	Path     []string `short:"I"`
	Ratio    float64  `default:"1"`
}

func parseWithConfig(t *testing.T, yamlText string, args ...string) *resolverCLI {
	t.Helper()

	path := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(path, []byte(yamlText), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(resolve(t.Context()), path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatal(err)
	}

	return &cli
}

func TestResolve(t *testing.T) {
	cli := parseWithConfig(t, strings.Join([]string{
		"log:",
		"  level: debug",
		"  pretty: false",
		"max_depth: 64",
		"ratio: 0.25",
		"path: [lib, \"a,b\"]",
		"unknown: ignored",
	}, "\n"))

	if cli.Log.Level != "debug" || cli.Log.Pretty {
		t.Errorf("log = %+v, want level debug without pretty", cli.Log)
	}

	if cli.MaxDepth != 64 {
		t.Errorf("MaxDepth = %d, want 64", cli.MaxDepth)
	}

	if cli.Ratio != 0.25 {
		t.Errorf("Ratio = %v, want 0.25", cli.Ratio)
	}

	if !slices.Equal(cli.Path, []string{"lib", "a,b"}) {
		t.Errorf("Path = %q, want [lib a,b]", cli.Path)
	}
}

func TestResolve_FlagsOverride(t *testing.T) {
	cli := parseWithConfig(t, "max-depth: 64\nlog:\n  level: debug\n", "--max-depth=8")

	if cli.MaxDepth != 8 {
		t.Errorf("MaxDepth = %d, want 8", cli.MaxDepth)
	}

	if cli.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cli.Log.Level)
	}
}

func TestResolve_Fallback(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"comment only", "# nothing here\n"},
		{"invalid", "log: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := parseWithConfig(t, tt.text)

			if cli.MaxDepth != 256 || cli.Log.Level != "warn" || !cli.Log.Pretty {
				t.Errorf("defaults not kept: %+v", cli)
			}
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestResolve_ReadError(t *testing.T) {
	r, err := resolve(t.Context())(errorReader{})
	if err != nil {
		t.Fatalf("loader error = %v, want none", err)
	}

	if cfg, ok := r.(config); !ok || len(cfg) != 0 {
		t.Errorf("resolver = %#v, want empty config", r)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{int64(-3), "-3"},
		{uint64(12), "12"},
		{7, "7"},
		{1.5, "1.5"},
		{true, true},
		{"text", "text"},
	}

	for _, tt := range tests {
		if got := flagValue(tt.in); got != tt.want {
			t.Errorf("flagValue(%v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}

	if got := flagValue([]any{uint64(1), "a,b", true}); got != `1,a\,b,true` {
		t.Errorf("flagValue(list) = %#v", got)
	}
}

func BenchmarkResolve(b *testing.B) {
	load := resolve(b.Context())
	text := "log:\n  level: debug\n  format: json\nmax-depth: 64\npath: [a, b, c]\n"

	for b.Loop() {
		if _, err := load(strings.NewReader(text)); err != nil {
			b.Fatal(err)
		}
	}
}
