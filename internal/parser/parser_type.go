package parser

import (
	"github.com/gelixlang/gelix/internal/cst"
	"github.com/gelixlang/gelix/internal/lexer"
)

// parseType parses a type reference: an optional &/~ reference sigil,
// a name, and an optional <Args> generic argument list.
//
//	Type := ('&' | '~')? IDENT ('<' Type (',' Type)* '>')?
func (p *Parser) parseType() {
	p.nodeWith(cst.TypeRef, func() {
		if p.peek() == lexer.AMP || p.peek() == lexer.TILDE {
			p.advance()
		}
		p.consume(lexer.IDENT, "expected type name")
		if p.peek() == lexer.LT {
			p.advance()
			p.parseType()
			for p.matches(lexer.COMMA) {
				p.parseType()
			}
			p.consume(lexer.GT, "expected '>' to close type argument list")
		}
	})
}

// parseTypeParamList parses `<T: Bound, U>` after a declaration name.
func (p *Parser) parseTypeParamList() {
	if p.peek() != lexer.LT {
		return
	}
	p.nodeWith(cst.TypeParamList, func() {
		p.advance() // '<'
		for {
			p.nodeWith(cst.TypeParam, func() {
				p.consume(lexer.IDENT, "expected type parameter name")
				if p.matches(lexer.COLON) {
					p.parseType()
				}
			})
			if !p.matches(lexer.COMMA) {
				break
			}
		}
		p.consume(lexer.GT, "expected '>' to close type parameter list")
	})
}
