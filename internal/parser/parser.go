// Package parser implements a hand-written recursive-descent parser
// with single-token lookahead. It never builds tree nodes directly;
// instead it appends events to a cst.Sink, which replays them to
// assemble the immutable green tree. Parsing never halts on error --
// problems are collected into Errors and synchronization happens at
// declaration boundaries, so a caller always gets a tree back.
package parser

import (
	"fmt"

	"github.com/gelixlang/gelix/internal/cst"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/lexer"
)

// Parser walks a token stream and emits CST-building events.
type Parser struct {
	file string
	toks []lexer.Token // significant tokens only
	pos  int

	sink   *cst.Sink
	errors errors.List
}

// New tokenizes src completely (via lexer.Lexer) and prepares a Parser
// positioned before the first significant token. Trivia tokens are
// filed into the sink as soon as they are encountered by peek/advance,
// keeping the CST lossless while letting parsing logic only look at
// significant tokens.
func New(src, file string) *Parser {
	l := lexer.New(string(lexer.Normalize([]byte(src))), file)
	p := &Parser{file: file, sink: cst.NewSink()}
	p.collect(l)
	return p
}

// collect runs the lexer to completion, recording every token (trivia
// included) so Parse can interleave AddToken calls in source order.
func (p *Parser) collect(l *lexer.Lexer) {
	for {
		tok := l.NextToken()
		p.toks = append(p.toks, tok)
		if tok.Kind == lexer.EOF {
			return
		}
	}
}

// Parse runs the parser over the whole file and returns the assembled
// green tree plus any collected errors. Parsing always produces a
// tree, even in the presence of errors.
func (p *Parser) Parse() (*cst.GreenNode, errors.List) {
	p.sink.StartNode(cst.SourceFile)
	for !p.atEOF() {
		p.skipTrivia()
		if p.atEOF() {
			break
		}
		p.parseTopLevelDecl()
	}
	p.emitTrailingTrivia()
	p.sink.FinishNode()
	return p.sink.Finish(), p.errors
}

// --- token-stream primitives -------------------------------------------------

func (p *Parser) rawAt(i int) lexer.Token {
	if i < 0 || i >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[i]
}

// skipTrivia emits any whitespace/comment tokens at the cursor into
// the sink, advancing past them, without surfacing them to the
// recursive-descent logic.
func (p *Parser) skipTrivia() {
	for p.pos < len(p.toks) && p.toks[p.pos].Kind.ShouldSkip() {
		p.sink.AddToken(p.toks[p.pos])
		p.pos++
	}
}

// emitTrailingTrivia flushes any trivia left after the last
// significant token (e.g. a trailing comment at EOF).
func (p *Parser) emitTrailingTrivia() {
	p.skipTrivia()
}

func (p *Parser) atEOF() bool {
	return p.peekRaw().Kind == lexer.EOF
}

// peekRaw returns the next significant token without consuming it,
// skipping trivia first (trivia is still recorded into the sink).
func (p *Parser) peekRaw() lexer.Token {
	i := p.pos
	for i < len(p.toks) && p.toks[i].Kind.ShouldSkip() {
		i++
	}
	return p.rawAt(i)
}

// peek is an alias for peekRaw's Kind, the common case.
func (p *Parser) peek() lexer.Kind { return p.peekRaw().Kind }

// peekAt looks n significant tokens ahead (0 = current).
func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos
	seen := 0
	for i < len(p.toks) {
		if p.toks[i].Kind.ShouldSkip() {
			i++
			continue
		}
		if seen == n {
			return p.toks[i]
		}
		seen++
		i++
	}
	return lexer.Token{Kind: lexer.EOF}
}

// advance consumes and returns the next significant token, emitting
// any skipped trivia and the token itself into the sink.
func (p *Parser) advance() lexer.Token {
	p.skipTrivia()
	tok := p.rawAt(p.pos)
	p.sink.AddToken(tok)
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

// matches consumes and returns true iff the next significant token has
// kind k.
func (p *Parser) matches(k lexer.Kind) bool {
	if p.peek() == k {
		p.advance()
		return true
	}
	return false
}

// consume requires kind k, reporting msg (never halting) if absent.
func (p *Parser) consume(k lexer.Kind, msg string) lexer.Token {
	if p.peek() == k {
		return p.advance()
	}
	p.report(errors.PAR001, msg)
	return p.peekRaw()
}

// consumeEither requires k1 or k2, reporting msg if neither is present.
func (p *Parser) consumeEither(k1, k2 lexer.Kind, msg string) lexer.Token {
	if p.peek() == k1 || p.peek() == k2 {
		return p.advance()
	}
	p.report(errors.PAR001, msg)
	return p.peekRaw()
}

// checkSeparator accepts a single statement separator. Per the
// explicit v1 decision (newline-sensitivity left unresolved upstream),
// only `;` terminates a statement.
func (p *Parser) checkSeparator() bool {
	return p.matches(lexer.SEMICOLON)
}

// checkpoint exposes the sink's checkpoint for left-recursive parses.
func (p *Parser) checkpoint() int { return p.sink.Checkpoint() }

// nodeWith scopes start_node(kind); f(); end_node().
func (p *Parser) nodeWith(kind cst.SyntaxKind, f func()) {
	p.sink.StartNode(kind)
	f()
	p.sink.FinishNode()
}

func (p *Parser) pos_() errors.Position {
	t := p.peekRaw()
	return errors.Position{File: p.file, Line: t.Line, Column: t.Column, Offset: t.Offset}
}

func (p *Parser) report(code, msg string) {
	p.errors = append(p.errors, errors.New(code, "parser", p.pos_(), "%s", msg))
}

// synchronize skips tokens until a declaration-boundary keyword or EOF,
// the panic-mode-free recovery point named in the error model.
func (p *Parser) synchronize() {
	for !p.atEOF() {
		switch p.peek() {
		case lexer.KW_FN, lexer.KW_CLASS, lexer.KW_ENUM, lexer.KW_INTERFACE, lexer.KW_IMPL:
			return
		}
		p.advance()
	}
}

func unexpected(k lexer.Kind) string {
	return fmt.Sprintf("unexpected token %s", k)
}
