package repl

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/kdn/lang"
)

// Messages sent when an edit finishes.
type (
	editDoneMsg struct {
		scope  *lang.Scope
		source string
	}
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

func helpMessage() string {
	return `
Commands (press Esc to toggle command mode):

  help     Print this help
  vars     List variables in scope
  edit     Edit the session in $EDITOR and replay it
  reset    Discard all variables
  clear    Clear the screen
  quit     Exit

Usage:
  Enter directives such as "let x = 1;" or "for i in 0..3 { print(i); }"
  Enter a bare expression such as "x * 2" to print its value
  An unfinished directive continues on the next line; Ctrl+C discards it
  Tab / Shift+Tab cycle completions; Space or Enter accepts one
  Up / Down browse history; Shift+Up / Shift+Down stay in the current mode
  Ctrl+C on an empty line or Ctrl+D exits
`
}

// outcome is the result of evaluating one line.
type outcome struct {
	lines   []string // print output, then the expression value if any
	err     error
	source  string // the complete source that was run
	pending bool   // the line left a directive unfinished
}

// evaluate runs line, joined to any pending lines, in the session scope.
//
// Text that is a single expression is evaluated and its value reported.
// Otherwise it is parsed as a program; a parse error at the end of input
// means more lines are needed.
func (m model) evaluate(line string) outcome {
	ctx := m.ctxFunc()
	src := strings.Join(append(slices.Clone(m.pending), line), "\n")

	m.output.Reset()

	if expr, err := lang.ParseExpr(ctx, src, m.opts...); err == nil {
		v, err := m.interp.Evaluate(ctx, expr)
		if err != nil {
			return outcome{err: err, source: src}
		}

		return outcome{lines: []string{v.String()}, source: src}
	}

	prog, err := lang.ParseString(ctx, src, m.opts...)
	if err != nil {
		if atEnd(err) {
			return outcome{pending: true, source: src}
		}

		return outcome{err: err, source: src}
	}

	err = m.interp.Execute(ctx, prog)

	return outcome{lines: splitOutput(m.output.String()), err: err, source: src}
}

// atEnd reports whether err is a parse error at the end of input.
func atEnd(err error) bool {
	var le *lang.Error
	if !errors.As(err, &le) || !errors.Is(err, lang.ErrParse) {
		return false
	}

	tok, ok := le.Found()

	return ok && tok.Kind == lang.KindEOF
}

func splitOutput(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}

// frame returns the code frame of a located lang error in src.
func frame(err error, src string) string {
	var le *lang.Error
	if errors.As(err, &le) {
		return le.Frame(src)
	}

	return ""
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" && len(m.pending) == 0 {
		return m, nil
	}

	m.input.SetValue("")
	m.evalText, m.evalCursor = "", 0
	m.ctrlText, m.ctrlCursor = "", 0
	m.matches = nil

	if m.mode == modeCtrl {
		_ = m.history.Add(input, modeCtrl)
		m.historyIdx = m.history.Len()

		return m.executeCommand(input)
	}

	_ = m.history.Add(input, modeEval)
	m.historyIdx = m.history.Len()

	prompt := evalPrompt
	if len(m.pending) > 0 {
		prompt = contPrompt
	}

	cmds := []tea.Cmd{tea.Println(promptStyle.Render(prompt) + inputStyle.Render(input))}

	out := m.evaluate(input)

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input),
		slog.Bool("pending", out.pending),
		slog.Bool("ok", out.err == nil))

	if out.pending {
		m.pending = append(m.pending, input)
		m.setPrompt()

		return m, tea.Sequence(cmds...)
	}

	m.pending = nil
	m.setPrompt()

	for _, line := range out.lines {
		cmds = append(cmds, tea.Println(resultStyle.Render(line)))
	}

	if out.err != nil {
		msg := errorStyle.Render(out.err.Error())
		if f := strings.TrimSuffix(frame(out.err, out.source), "\n"); f != "" {
			msg += "\n" + f
		}

		cmds = append(cmds, tea.Println(msg))
	} else {
		m.session = append(m.session, out.source)
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input))

	m.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", fields[0]))

	switch fields[0] {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echo, tea.Println(m.listVars()))

	case "r", "reset":
		m.resetScope(nil)
		m.session = nil
		m.pending = nil
		m.setPrompt()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render("scope cleared")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	return m, tea.Println(errorStyle.Render("unknown command: " + fields[0] + " (try 'help')"))
}

// listVars renders the bindings in scope, one per line.
func (m model) listVars() string {
	names := m.scope.Names()
	if len(names) == 0 {
		return hintStyle.Render("  (no variables)")
	}

	var b strings.Builder

	for i, name := range names {
		v, _ := m.scope.Lookup(name)

		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("  " + name + " = " + resultStyle.Render(v.String()) +
			" " + hintStyle.Render(v.Type.String()))
	}

	return b.String()
}

func (m model) edit() tea.Cmd {
	c := &editCommand{
		ctx:    m.ctxFunc(),
		logger: m.logger,
		opts:   m.opts,
		source: strings.Join(m.session, "\n"),
	}

	return tea.Exec(c, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case !c.changed:
			return editCancelledMsg{}
		}

		return editDoneMsg{scope: c.scope, source: c.edited}
	})
}
