package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers. Styles are bound to a
// renderer for the handler's output, so color is dropped when that output
// is not a terminal.
type palette struct {
	key   lipgloss.Style
	str   lipgloss.Style
	num   lipgloss.Style
	yes   lipgloss.Style
	no    lipgloss.Style
	dur   lipgloss.Style
	when  lipgloss.Style
	faint lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		when:  fg("4"),
		faint: r.NewStyle().Faint(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.no.Bold(true)
	case l >= slog.LevelWarn:
		return p.num.Bold(true)
	case l >= slog.LevelInfo:
		return p.yes
	default:
		return p.when
	}
}

// prettyHandler writes colorized records, either as key=value lines or as
// indented JSON objects.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors palette
	attrs  []slog.Attr
	groups []string
	format Format
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	format Format,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     new(sync.Mutex),
		w:      w,
		colors: newPalette(w),
		format: format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.builtin(fields, slog.Time(slog.TimeKey, r.Time))
	}

	// The level keeps its slog.Level value so it can be styled by severity.
	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = h.builtin(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify(a))

		return true
	})

	var buf bytes.Buffer

	if h.format == FormatJSON {
		h.writeObject(&buf, fields, 1)
	} else {
		for _, a := range fields {
			h.writePair(&buf, "", a)
		}
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = growAttrs(h.attrs, len(attrs))

	for _, a := range attrs {
		next.attrs = append(next.attrs, h.qualify(a))
	}

	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	next := *h
	next.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &next
}

// growAttrs returns a copy of attrs with room for n more.
func growAttrs(attrs []slog.Attr, n int) []slog.Attr {
	return append(make([]slog.Attr, 0, len(attrs)+n), attrs...)
}

// builtin passes a record field through ReplaceAttr, dropping it if the
// replacement is empty.
func (h *prettyHandler) builtin(fields []slog.Attr, a slog.Attr) []slog.Attr {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Key == "" {
		return fields
	}

	return append(fields, a)
}

// qualify prefixes the key of a with any open groups.
func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if len(h.groups) > 0 {
		a.Key = strings.Join(h.groups, ".") + "." + a.Key
	}

	return a
}

func (h *prettyHandler) writePair(buf *bytes.Buffer, prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			h.writePair(buf, prefix+a.Key+".", ga)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.colors.key.Render(prefix + a.Key))
	buf.WriteString(h.colors.faint.Render("="))
	buf.WriteString(h.render(v, false))
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	indent := strings.Repeat("  ", depth)

	buf.WriteString("{")

	for i, a := range attrs {
		if i > 0 {
			buf.WriteString(",")
		}

		buf.WriteString("\n" + indent)
		buf.WriteString(h.colors.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		if v := a.Value.Resolve(); v.Kind() == slog.KindGroup {
			h.writeObject(buf, v.Group(), depth+1)
		} else {
			buf.WriteString(h.render(v, true))
		}
	}

	if len(attrs) > 0 {
		buf.WriteString("\n" + strings.Repeat("  ", depth-1))
	}

	buf.WriteString("}")
}

// render styles a scalar value. Strings are quoted only in JSON.
func (h *prettyHandler) render(v slog.Value, quote bool) string {
	text := func(s string) string {
		if quote {
			s = strconv.Quote(s)
		}

		return h.colors.str.Render(s)
	}

	switch v.Kind() {
	case slog.KindString:
		return text(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.colors.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes.Render("true")
		}

		return h.colors.no.Render("false")

	case slog.KindDuration:
		if quote {
			return h.colors.dur.Render(strconv.Quote(v.Duration().String()))
		}

		return h.colors.dur.Render(v.Duration().String())

	case slog.KindTime:
		s := v.Time().Format(time.RFC3339)
		if quote {
			s = strconv.Quote(s)
		}

		return h.colors.when.Render(s)
	}

	switch a := v.Any().(type) {
	case slog.Level:
		label := levelLabel(a)
		if quote {
			label = strconv.Quote(label)
		}

		return h.colors.level(a).Render(label)

	case nil:
		return h.colors.faint.Render("null")

	case error:
		return text(a.Error())

	default:
		return text(fmt.Sprint(a))
	}
}
