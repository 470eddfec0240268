// Package repl implements the interactive kdn session.
//
// Input is read one line at a time. A line holding a complete program runs
// in a scope that persists for the whole session; a line holding a bare
// expression prints its value. A line that ends partway through a directive
// is held until later lines complete it. Esc switches to command mode for
// the session commands listed by "help".
package repl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/kdn/lang"
	"github.com/ardnew/kdn/log"
)

const (
	evalPrompt = "kdn> "
	contPrompt = "...  "
	ctrlPrompt = "   : "
)

// inputMode selects how an entered line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// Config configures a REPL session.
type Config struct {
	// Scope holds the bindings the session starts with. Nil starts empty.
	Scope *lang.Scope
	// Logger receives trace events. The zero Logger discards them.
	Logger log.Logger
	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
	// History is the history file. Empty keeps history in memory.
	History string
	// MaxDepth limits nesting as [lang.WithMaxDepth] does.
	MaxDepth int
}

// Run starts the REPL and blocks until the user quits or ctx is done.
func Run(ctx context.Context, c Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(c.History)
	if err := history.Load(); err != nil {
		c.Logger.WarnContext(ctx, "could not load history",
			slog.String("file", c.History),
			slog.Any("error", err))
	}

	c.Logger.TraceContext(ctx, "repl start",
		slog.String("history", c.History),
		slog.Int("history_count", history.Len()))

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.Input != nil {
		opts = append(opts, tea.WithInput(c.Input))
	}

	if c.Output != nil {
		opts = append(opts, tea.WithOutput(c.Output))
	}

	_, err = tea.NewProgram(newModel(ctx, c, history), opts...).Run()

	return err
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc func() context.Context
	logger  log.Logger
	scope   *lang.Scope
	interp  *lang.Interpreter
	output  *bytes.Buffer
	history *History
	opts    []lang.Option

	input   textinput.Model
	matches fuzzy.Matches
	pending []string // lines of an unfinished directive
	session []string // sources that ran successfully, for edit

	historyIdx   int
	wordStart    int
	wordEnd      int
	suggIdx      int
	preTabCursor int
	preTabText   string
	width        int
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
	mode         inputMode
	tabActive    bool
	quitting     bool
}

func newModel(ctx context.Context, c Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		logger:     c.Logger,
		output:     new(bytes.Buffer),
		history:    history,
		opts:       []lang.Option{lang.WithMaxDepth(c.MaxDepth), lang.WithLogger(c.Logger)},
		input:      ti,
		historyIdx: history.Len(),
		width:      defaultWidth,
		suggIdx:    -1,
		mode:       modeEval,
	}

	m.resetScope(c.Scope)

	return m
}

// resetScope makes scope the session scope, starting a new one when nil.
func (m *model) resetScope(scope *lang.Scope) {
	if scope == nil {
		scope = lang.NewScope()
	}

	m.scope = scope
	m.interp = lang.NewInterpreter(slices.Concat(m.opts, []lang.Option{
		lang.WithScope(scope),
		lang.WithOutput(m.output),
	})...)
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		m.resetScope(msg.scope)
		m.session = []string{msg.source}
		m.pending = nil
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("binding_count", len(m.scope.Names())))

		return m, tea.Println(resultStyle.Render("session replaced by edited source"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint returns the status line shown beneath the input.
func (m model) hint() string {
	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		return hintStyle.Render(
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)) +
				"/" + strconv.Itoa(m.history.Len()))

	case len(m.matches) > 0:
		return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width)

	case len(m.pending) > 0:
		return hintStyle.Render(strconv.Itoa(len(m.pending)) +
			" line(s) pending; finish the directive or press Ctrl+C to discard")

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			return hintStyle.Render("Type a directive or expression, or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (Esc to return)")

	case m.mode == modeEval:
		word, _, _ := wordBounds(input, m.input.Position())
		if v, err := m.scope.Lookup(word); word != "" && err == nil {
			return hintStyle.Render(word + " = " + v.String() + " (" + v.Type.String() + ")")
		}
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.pending = nil
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.setPrompt()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1, false), nil

	case tea.KeyDown:
		return m.browse(1, false), nil

	case tea.KeyShiftUp:
		return m.browse(-1, true), nil

	case tea.KeyShiftDown:
		return m.browse(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refreshMatches(false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.Type == tea.KeySpace {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refreshMatches(true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(false)

	return m, cmd
}

// cycle moves the tab selection by step, completing the current word with
// the selected candidate. A sole candidate is accepted outright.
func (m model) cycle(step int) model {
	switch n := len(m.matches); {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case !m.tabActive:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}

	default:
		m.suggIdx = (m.suggIdx + step + n) % n
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord replaces the current word with s and moves the cursor past it.
func (m *model) replaceWord(s string) {
	input := m.input.Value()
	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refreshMatches recomputes completions. With autoConfirm, a word that
// already equals its only candidate is accepted so the bar disappears.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if autoConfirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
		m.suggIdx = -1
	}
}

// browse moves through history by step. Entries from the other mode switch
// modes, unless sameMode restricts browsing to the current mode. Moving
// past the newest entry clears the input.
func (m model) browse(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		e, err := m.history.At(i)
		if err != nil || (sameMode && e.Mode != m.mode) {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchToMode(e.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(e.Line)
		m.input.SetCursor(len(e.Line))
		m.refreshMatches(false)

		return m
	}

	if step > 0 {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refreshMatches(false)
	}

	return m
}

// switchToMode changes mode, keeping each mode's unsent input.
func (m model) switchToMode(mode inputMode) model {
	if m.mode == modeEval {
		m.evalText, m.evalCursor = m.input.Value(), m.input.Position()
	} else {
		m.ctrlText, m.ctrlCursor = m.input.Value(), m.input.Position()
	}

	m.mode = mode

	if mode == modeEval {
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	m.setPrompt()
	m.refreshMatches(false)

	return m
}

func (m *model) setPrompt() {
	switch {
	case m.mode == modeCtrl:
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	case len(m.pending) > 0:
		m.input.Prompt = promptStyle.Render(contPrompt)
	default:
		m.input.Prompt = promptStyle.Render(evalPrompt)
	}
}
