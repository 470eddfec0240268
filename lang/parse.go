package lang

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ardnew/kdn/log"
)

// Token classes named in parse error expectations.
const (
	termIdent  = "identifier"
	termNumber = "number"
	termEOF    = "end of input"
)

// Parse builds a [Program] from tokens produced by [Tokenize].
//
// Parsing stops at the first error, which is always derived from [ErrParse]
// or [ErrMaxDepthExceeded] and carries the span of the offending token.
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	p := newParser(tokens, o)

	prog, err := p.parseProgram()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("directive_count", len(prog.Directives)))

	return prog, nil
}

// ParseExpr parses src as a single expression with nothing following it.
func ParseExpr(ctx context.Context, src string, opts ...Option) (Expr, error) {
	o := makeOptions(opts...)

	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := newParser(tokens, o)

	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if !p.at(KindEOF, "") {
		return nil, ErrParse.Expecting(p.peek(), termEOF)
	}

	o.logger.TraceContext(ctx, "parse expression complete",
		slog.Any("span", e.Span()))

	return e, nil
}

// parser holds the parser state.
type parser struct {
	toks     []Token
	logger   log.Logger
	pos      int
	depth    int
	maxDepth int
}

func newParser(tokens []Token, o options) *parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != KindEOF {
		// Hand-built token slices may omit the terminator.
		var end Span
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].Pos
			end.Start = end.End
		}

		tokens = append(slices.Clip(tokens), Token{Kind: KindEOF, Pos: end})
	}

	return &parser{
		toks:     tokens,
		logger:   o.logger,
		maxDepth: o.key.MaxDepth,
	}
}

// parseProgram parses: directive* EOF.
func (p *parser) parseProgram() (*Program, error) {
	prog := new(Program)

	for !p.at(KindEOF, "") {
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}

		prog.Directives = append(prog.Directives, d)
	}

	return prog, nil
}

// parseDirective parses one statement. Any extra terminals are reported as
// acceptable alternatives if no statement begins here.
func (p *parser) parseDirective(extra ...string) (Directive, error) {
	tok := p.peek()

	switch {
	case tok.Is(KindKeyword, KeywordLet):
		return p.parseLet()

	case tok.Is(KindKeyword, KeywordPrint):
		return p.parsePrint()

	case tok.Is(KindKeyword, KeywordFor):
		return p.parseFor()

	case tok.Kind == KindIdent:
		return p.parseAssign()
	}

	expected := append([]string{KeywordLet, KeywordPrint, KeywordFor, termIdent}, extra...)

	return nil, ErrParse.Expecting(tok, expected...)
}

// parseLet parses: "let" IDENT (":" type)? "=" expr ";".
func (p *parser) parseLet() (*LetStmt, error) {
	kw := p.next()

	name, err := p.expect(KindIdent, "", termIdent)
	if err != nil {
		return nil, err
	}

	stmt := &LetStmt{Name: name.Lexeme, NameSpan: name.Pos}

	if p.accept(KindPunct, ":") {
		ann, err := p.parseType()
		if err != nil {
			return nil, err
		}

		stmt.Type = ann
	}

	if _, err := p.expect(KindPunct, "=", "="); err != nil {
		return nil, err
	}

	if stmt.Value, err = p.parseExpr(); err != nil {
		return nil, err
	}

	end, err := p.expect(KindPunct, ";", ";")
	if err != nil {
		return nil, err
	}

	stmt.Pos = kw.Pos.Join(end.Pos)

	return stmt, nil
}

// parseType parses: "int" | "float" | "string".
func (p *parser) parseType() (*TypeAnnotation, error) {
	tok := p.peek()

	if tok.Kind != KindIdent || !slices.Contains(TypeNames(), tok.Lexeme) {
		return nil, ErrParse.Expecting(tok, TypeNames()...)
	}

	p.next()

	return &TypeAnnotation{Name: tok.Lexeme, Pos: tok.Pos}, nil
}

// parseAssign parses: IDENT "=" expr ";".
func (p *parser) parseAssign() (*AssignStmt, error) {
	name := p.next()

	if _, err := p.expect(KindPunct, "=", "="); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	end, err := p.expect(KindPunct, ";", ";")
	if err != nil {
		return nil, err
	}

	return &AssignStmt{
		Name:     name.Lexeme,
		NameSpan: name.Pos,
		Value:    value,
		Pos:      name.Pos.Join(end.Pos),
	}, nil
}

// parsePrint parses: "print" "(" expr ")" ";".
func (p *parser) parsePrint() (*PrintStmt, error) {
	kw := p.next()

	if _, err := p.expect(KindPunct, "(", "("); err != nil {
		return nil, err
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindPunct, ")", ")"); err != nil {
		return nil, err
	}

	end, err := p.expect(KindPunct, ";", ";")
	if err != nil {
		return nil, err
	}

	return &PrintStmt{Value: value, Pos: kw.Pos.Join(end.Pos)}, nil
}

// parseFor parses: "for" IDENT "in" expr ".." expr "{" directive* "}".
func (p *parser) parseFor() (*ForLoop, error) {
	kw := p.next()

	binding, err := p.expect(KindIdent, "", termIdent)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(KindKeyword, KeywordIn, KeywordIn); err != nil {
		return nil, err
	}

	loop := &ForLoop{Binding: binding.Lexeme, BindingSpan: binding.Pos}

	if loop.Start, err = p.parseExpr(); err != nil {
		return nil, err
	}

	if _, err := p.expect(KindOperator, "..", ".."); err != nil {
		return nil, err
	}

	if loop.End, err = p.parseExpr(); err != nil {
		return nil, err
	}

	open, err := p.expect(KindPunct, "{", "{")
	if err != nil {
		return nil, err
	}

	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	for !p.at(KindPunct, "}") {
		d, err := p.parseDirective("}")
		if err != nil {
			return nil, err
		}

		loop.Body = append(loop.Body, d)
	}

	loop.Pos = kw.Pos.Join(p.next().Pos)

	return loop, nil
}

// parseExpr parses: term (("+" | "-") term)*.
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.at(KindOperator, "+") || p.at(KindOperator, "-") {
		op := Op(p.next().Lexeme[0])

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{
			Op:    op,
			Left:  left,
			Right: right,
			Pos:   left.Span().Join(right.Span()),
		}
	}

	return left, nil
}

// parseTerm parses: factor (("*" | "/") factor)*.
func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.at(KindOperator, "*") || p.at(KindOperator, "/") {
		op := Op(p.next().Lexeme[0])

		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{
			Op:    op,
			Left:  left,
			Right: right,
			Pos:   left.Span().Join(right.Span()),
		}
	}

	return left, nil
}

// parseFactor parses: NUMBER | IDENT | "(" expr ")".
func (p *parser) parseFactor() (Expr, error) {
	tok := p.peek()

	switch {
	case tok.Kind == KindNumber:
		p.next()

		v, err := parseNumber(tok)
		if err != nil {
			return nil, ErrParse.WithSpan(tok.Pos).Wrap(err)
		}

		return &NumberLit{Lexeme: tok.Lexeme, Value: v, Pos: tok.Pos}, nil

	case tok.Kind == KindIdent:
		p.next()

		return &VarRef{Name: tok.Lexeme, Pos: tok.Pos}, nil

	case tok.Is(KindPunct, "("):
		p.next()

		if err := p.enter(tok); err != nil {
			return nil, err
		}
		defer p.leave()

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		end, err := p.expect(KindPunct, ")", ")")
		if err != nil {
			return nil, err
		}

		return &GroupExpr{Inner: inner, Pos: tok.Pos.Join(end.Pos)}, nil
	}

	return nil, ErrParse.Expecting(tok, termNumber, termIdent, "(")
}

// enter records one more level of nesting opened by tok.
func (p *parser) enter(tok Token) error {
	p.depth++

	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return ErrMaxDepthExceeded.
			WithSpan(tok.Pos).
			With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// Helper methods

func (p *parser) peek() Token { return p.toks[p.pos] }

// next consumes and returns the current token. The EOF token is never
// consumed.
func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != KindEOF {
		p.pos++
	}

	return tok
}

// at reports whether the current token has the given kind and, if lexeme is
// non-empty, the given lexeme.
func (p *parser) at(kind Kind, lexeme string) bool {
	tok := p.peek()

	return tok.Kind == kind && (lexeme == "" || tok.Lexeme == lexeme)
}

func (p *parser) accept(kind Kind, lexeme string) bool {
	if p.at(kind, lexeme) {
		p.next()

		return true
	}

	return false
}

// expect consumes a token matching kind and lexeme or fails with a parse
// error naming what was expected.
func (p *parser) expect(kind Kind, lexeme, expected string) (Token, error) {
	if !p.at(kind, lexeme) {
		return Token{}, ErrParse.Expecting(p.peek(), expected)
	}

	return p.next(), nil
}
