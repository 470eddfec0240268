package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/kdn/lang"
)

// Diagnostic classes.
const (
	classLex     = "lex error"
	classParse   = "parse error"
	classRuntime = "runtime error"
)

var helps = []struct {
	err  *lang.Error
	help string
}{
	{lang.ErrLex, "only numbers, identifiers, operators, and punctuation may appear here"},
	{lang.ErrParse, "check the syntax at the marked token"},
	{lang.ErrMaxDepthExceeded, "reduce the nesting of parentheses or loop bodies, or raise --max-depth"},
	{lang.ErrUndefinedVariable, "declare the variable with 'let' before using it"},
	{lang.ErrType, "loop bounds must be finite numbers"},
	{lang.ErrDivisionByZero, "make sure the divisor is never zero"},
}

// classify returns the diagnostic class and help line for err.
func classify(err error) (class, help string) {
	switch {
	case errors.Is(err, lang.ErrLex):
		class = classLex
	case errors.Is(err, lang.ErrParse), errors.Is(err, lang.ErrMaxDepthExceeded):
		class = classParse
	default:
		class = classRuntime
	}

	for _, h := range helps {
		if errors.Is(err, h.err) {
			return class, h.help
		}
	}

	return class, ""
}

type diagStyles struct {
	header, location, gutter, marker, help lipgloss.Style
}

func newDiagStyles(w io.Writer) diagStyles {
	r := lipgloss.NewRenderer(w)

	return diagStyles{
		header:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		location: r.NewStyle().Foreground(lipgloss.Color("6")),
		gutter:   r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		marker:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		help:     r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Diagnose writes a report of a script error to w.
//
// A fancy report names the error class and shows the offending source line
// with the failing columns underlined, followed by a help line. A plain
// report is a single "name:line:col: class: message" line.
//
// Errors that do not come from the lang package are written as-is.
func Diagnose(w io.Writer, src Source, err error, fancy bool) {
	var le *lang.Error
	if !errors.As(err, &le) {
		fmt.Fprintf(w, "%s: %v\n", src.Name, err)

		return
	}

	class, help := classify(err)
	msg := strings.TrimPrefix(le.Summary(), class+": ")
	span, spanned := le.Span()

	if !fancy {
		loc := src.Name
		if spanned {
			loc += ":" + span.String()
		}

		fmt.Fprintf(w, "%s: %s: %s\n", loc, class, msg)

		return
	}

	st := newDiagStyles(w)

	fmt.Fprintf(w, "%s: %s\n", st.header.Render(class), msg)

	if spanned {
		line, ok := lang.Excerpt(src.Text, span)
		num := strconv.Itoa(span.Line)
		pad := strings.Repeat(" ", len(num))

		fmt.Fprintf(w, "%s %s %s\n", pad, st.gutter.Render("-->"),
			st.location.Render(src.Name+":"+span.String()))

		if ok {
			fmt.Fprintf(w, "%s %s\n", pad, st.gutter.Render("|"))
			fmt.Fprintf(w, "%s %s\n", st.gutter.Render(num+" |"), line)
			fmt.Fprintf(w, "%s %s %s%s\n", pad, st.gutter.Render("|"),
				strings.Repeat(" ", span.Column-1), st.marker.Render(lang.Marker(line, span)))
		}

		if help != "" {
			fmt.Fprintf(w, "%s %s\n", pad, st.help.Render("= help: "+help))
		}

		return
	}

	if help != "" {
		fmt.Fprintf(w, "%s\n", st.help.Render("= help: "+help))
	}
}
