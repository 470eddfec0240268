package lang

import (
	"log/slog"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits src into tokens. The returned slice always ends with a
// single [KindEOF] token.
//
// Lexing fails fast: the first character that cannot begin a token produces
// an [ErrLex] error located at that character.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{
		input: src,
		line:  1,
		col:   1,
	}

	return l.run()
}

// lexer holds the lexer state.
type lexer struct {
	input string
	toks  []Token
	pos   int
	line  int
	col   int
}

func (l *lexer) run() ([]Token, error) {
	for {
		l.skipWhitespaceAndComments()

		if l.eof() {
			l.toks = append(l.toks, Token{Kind: KindEOF, Pos: l.mark()})

			return l.toks, nil
		}

		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		l.toks = append(l.toks, tok)
	}
}

// next scans one token starting at the current position.
func (l *lexer) next() (Token, error) {
	start := l.mark()
	ch := l.peek()

	switch {
	case isIdentifierStart(ch):
		return l.scanWord(start), nil

	case isDigit(ch):
		return l.scanNumber(start)

	case ch == '-' && isDigit(l.peekAt(1)) && !l.afterOperand():
		return l.scanNumber(start)

	case ch == '.' && l.peekAt(1) == '.':
		l.advance()
		l.advance()

		return l.emit(KindOperator, start), nil
	}

	switch ch {
	case '+', '-', '*', '/':
		l.advance()

		return l.emit(KindOperator, start), nil

	case '{', '}', '(', ')', ';', ':', '=':
		l.advance()

		return l.emit(KindPunct, start), nil
	}

	l.advance()

	return Token{}, ErrLex.
		WithSpan(l.finish(start)).
		WithDetail("unexpected character " + strconv.QuoteRune(ch)).
		With(slog.String("char", string(ch)))
}

// afterOperand reports whether the previous token ends an operand, in which
// case a '-' is the subtraction operator rather than a sign.
func (l *lexer) afterOperand() bool {
	return len(l.toks) > 0 && l.toks[len(l.toks)-1].Operand()
}

func (l *lexer) scanWord(start Span) Token {
	for !l.eof() && isIdentifierContinue(l.peek()) {
		l.advance()
	}

	tok := l.emit(KindIdent, start)
	if isKeyword(tok.Lexeme) {
		tok.Kind = KindKeyword
	}

	return tok
}

// scanNumber scans -?digits(.digits)?. A '.' that is not followed by a digit
// is left for the next token, so "0..3" is three tokens.
func (l *lexer) scanNumber(start Span) (Token, error) {
	if l.peek() == '-' {
		l.advance()
	}

	l.skipDigits()

	float := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		float = true

		l.advance()
		l.skipDigits()
	}

	tok := l.emit(KindNumber, start)
	tok.Float = float

	if _, err := parseNumber(tok); err != nil {
		return Token{}, ErrLex.
			WithSpan(tok.Pos).
			WithDetail("number out of range " + quote(tok.Lexeme)).
			Wrap(err)
	}

	return tok, nil
}

func (l *lexer) skipDigits() {
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}
}

// emit builds a token of the given kind from start to the current position.
func (l *lexer) emit(kind Kind, start Span) Token {
	pos := l.finish(start)

	return Token{
		Kind:   kind,
		Lexeme: l.input[pos.Start:pos.End],
		Pos:    pos,
	}
}

// mark returns an empty span at the current position.
func (l *lexer) mark() Span {
	return Span{Line: l.line, Column: l.col, Start: l.pos, End: l.pos}
}

func (l *lexer) finish(start Span) Span {
	start.End = l.pos

	return start
}

// Helper methods

func (l *lexer) peek() rune { return l.peekAt(0) }

// peekAt returns the rune n runes ahead of the current position, or 0.
func (l *lexer) peekAt(n int) rune {
	pos := l.pos

	for range n {
		if pos >= len(l.input) {
			return 0
		}

		_, size := utf8.DecodeRuneInString(l.input[pos:])
		pos += size
	}

	if pos >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[pos:])

	return r
}

func (l *lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.advance()

		case ch == '#', ch == '/' && l.peekAt(1) == '/':
			l.skipLineComment()

		default:
			return
		}
	}
}

func (l *lexer) skipLineComment() {
	for !l.eof() && l.peek() != '\n' {
		l.advance()
	}
}

// Character classification

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}
