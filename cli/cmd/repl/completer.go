package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/kdn/lang"
)

// ctrlCommands are the control-mode commands, in help order.
var ctrlCommands = []string{"help", "vars", "edit", "reset", "clear", "quit"}

// isWordRune reports whether r can appear in an identifier.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier-like word touching cursor and its byte
// offsets in input. The word is empty when the cursor sits between two
// non-word characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completion candidates for mode: control commands,
// or the keywords, type names, and names bound in scope.
func candidates(mode inputMode, scope *lang.Scope) []string {
	if mode == modeCtrl {
		return ctrlCommands
	}

	names := slices.Concat(lang.Keywords(), lang.TypeNames())

	if scope != nil {
		for _, name := range scope.Names() {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	return names
}

// computeMatches ranks the candidates against the word at the cursor.
// Numbers and empty words have no matches.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())

	first, _ := utf8.DecodeRuneInString(word)
	if word == "" || unicode.IsDigit(first) {
		return nil, start, end
	}

	return fuzzy.Find(word, candidates(m.mode, m.scope)), start, end
}

// renderCandidateBar lays out matches on one line of at most width cells,
// ending with an ellipsis when they do not all fit. The selected candidate
// is highlighted while tab-cycling.
func renderCandidateBar(matches fuzzy.Matches, selected int, tabbing bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		item := renderCandidate(match, tabbing && i == selected)
		w := lipgloss.Width(item)

		if i > 0 {
			w += lipgloss.Width(sep)
		}

		need := used + w
		if i < len(matches)-1 {
			need += reserve
		}

		if i > 0 && need > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

// renderCandidate renders match with its matched runes emphasized.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, hit := suggestionStyle, matchStyle
	if selected {
		base, hit = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
