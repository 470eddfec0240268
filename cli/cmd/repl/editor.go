package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/kdn/lang"
	"github.com/ardnew/kdn/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the session's source
// in the user's editor and replays the edited result in a fresh scope,
// offering to re-edit until the result runs or the user declines.
type editCommand struct {
	ctx     context.Context
	logger  log.Logger
	opts    []lang.Option
	source  string
	scope   *lang.Scope // set on success
	edited  string      // set on success
	changed bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", "kdn-repl-*.kdn")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	text := c.source

	for {
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			return err
		}

		if err := c.launch(path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		text = string(data)
		if strings.TrimSpace(text) == "" || text == c.source {
			return nil
		}

		err = c.replay(text)

		c.logger.TraceContext(c.ctx, "repl edit attempt",
			slog.Int("source_bytes", len(text)),
			slog.Bool("ok", err == nil))

		if err == nil {
			c.edited = text
			c.changed = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n%s", err, frame(err, text))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// replay runs text in a new scope, keeping the scope only if it succeeds.
func (c *editCommand) replay(text string) error {
	prog, err := lang.ParseString(c.ctx, text, c.opts...)
	if err != nil {
		return err
	}

	scope := lang.NewScope()
	opts := append(append([]lang.Option{}, c.opts...), lang.WithScope(scope), lang.WithOutput(c.stdout))

	if err := lang.NewInterpreter(opts...).Execute(c.ctx, prog); err != nil {
		return err
	}

	c.scope = scope

	return nil
}

func (c *editCommand) launch(path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(c.ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}
