package parser

import (
	"github.com/gelixlang/gelix/internal/cst"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/lexer"
)

// parseTopLevelDecl dispatches on the modifiers + keyword at the
// current position. Synchronizes to the next declaration boundary on
// failure so a bad top-level form doesn't cascade.
func (p *Parser) parseTopLevelDecl() {
	cp := p.checkpoint()
	p.parseModifiers()
	switch p.peek() {
	case lexer.KW_MOD:
		p.parseModuleDecl()
	case lexer.KW_IMPORT:
		p.parseImportDecl()
	case lexer.KW_FN:
		p.parseFuncDecl(cp)
	case lexer.KW_CLASS:
		p.parseClassDecl(cp)
	case lexer.KW_INTERFACE:
		p.parseInterfaceDecl(cp)
	case lexer.KW_ENUM:
		p.parseEnumDecl(cp)
	case lexer.KW_IMPL:
		p.parseImplDecl(cp)
	default:
		p.report(errors.PAR001, unexpected(p.peek()))
		p.synchronize()
	}
}

// parseModifiers consumes a run of modifier keywords (pub/priv/val/
// var/value/external) into a ModifierList node. Individual decl
// parsers read back which modifiers applied via peeking at the
// checkpoint's sibling tokens during CST->AST lowering.
func (p *Parser) parseModifiers() {
	has := false
	for {
		switch p.peek() {
		case lexer.KW_PUB, lexer.KW_PRIV, lexer.KW_VAL, lexer.KW_VAR,
			lexer.KW_VALUE, lexer.KW_EXTERNAL:
			if !has {
				p.sink.StartNode(cst.ModifierList)
				has = true
			}
			p.advance()
			continue
		}
		break
	}
	if has {
		p.sink.FinishNode()
	}
}

func (p *Parser) parseModuleDecl() {
	p.nodeWith(cst.ModuleDecl, func() {
		p.advance() // 'mod'
		p.consume(lexer.IDENT, "expected module path")
		for p.matches(lexer.SLASH) {
			p.consume(lexer.IDENT, "expected module path segment")
		}
		p.checkSeparator()
	})
}

func (p *Parser) parseImportDecl() {
	p.nodeWith(cst.ImportDecl, func() {
		p.advance() // 'import'
		p.consume(lexer.IDENT, "expected import path")
		for p.peek() == lexer.SLASH {
			p.advance()
			p.consume(lexer.IDENT, "expected import path segment")
		}
		if p.matches(lexer.LPAREN) {
			for p.peek() != lexer.RPAREN && !p.atEOF() {
				p.consume(lexer.IDENT, "expected imported symbol name")
				if !p.matches(lexer.COMMA) {
					break
				}
			}
			p.consume(lexer.RPAREN, "expected ')' to close selective import list")
		}
		p.checkSeparator()
	})
}

// parseFuncDecl parses `fn name(params) -> RetType { body }` possibly
// preceded by modifiers already recorded since cp.
func (p *Parser) parseFuncDecl(cp int) {
	p.sink.StartNodeAt(cp, cst.FuncDecl)
	p.advance() // 'fn'
	p.consume(lexer.IDENT, "expected function name")
	p.parseTypeParamList()
	p.parseParamList()
	if p.matches(lexer.ARROW) {
		p.parseType()
	}
	if p.peek() == lexer.ASSIGN {
		p.advance()
		p.parseExpr()
		p.checkSeparator()
	} else if p.peek() == lexer.LBRACE {
		p.parseBlock()
	} else if p.peek() == lexer.SEMICOLON || p.peek() == lexer.RBRACE || p.atEOF() {
		// No body: an abstract interface method or an `external`
		// declaration. checkSeparator consumes an optional trailing
		// ';' left by the caller.
		p.checkSeparator()
	} else {
		p.report(errors.PAR003, "expected '=' or block as function body")
	}
	p.sink.FinishNode()
}

func (p *Parser) parseParamList() {
	p.nodeWith(cst.ParamList, func() {
		p.consume(lexer.LPAREN, "expected '(' to start parameter list")
		for p.peek() != lexer.RPAREN && !p.atEOF() {
			p.nodeWith(cst.Param, func() {
				if p.peek() == lexer.ELLIPSIS {
					p.advance()
				}
				p.consume(lexer.IDENT, "expected parameter name")
				if p.matches(lexer.COLON) {
					p.parseType()
				}
			})
			if !p.matches(lexer.COMMA) {
				break
			}
		}
		p.consume(lexer.RPAREN, "expected ')' to close parameter list")
	})
}

// parseClassDecl parses `class Name<T> { fields; methods; constructors }`.
func (p *Parser) parseClassDecl(cp int) {
	p.sink.StartNodeAt(cp, cst.ClassDecl)
	p.advance() // 'class'
	p.consume(lexer.IDENT, "expected class name")
	p.parseTypeParamList()
	p.consume(lexer.LBRACE, "expected '{' to start class body")
	for p.peek() != lexer.RBRACE && !p.atEOF() {
		p.parseMember()
	}
	p.consume(lexer.RBRACE, "expected '}' to close class body")
	p.sink.FinishNode()
}

func (p *Parser) parseInterfaceDecl(cp int) {
	p.sink.StartNodeAt(cp, cst.InterfaceDecl)
	p.advance() // 'interface'
	p.consume(lexer.IDENT, "expected interface name")
	p.parseTypeParamList()
	p.consume(lexer.LBRACE, "expected '{' to start interface body")
	for p.peek() != lexer.RBRACE && !p.atEOF() {
		p.parseMember()
	}
	p.consume(lexer.RBRACE, "expected '}' to close interface body")
	p.sink.FinishNode()
}

func (p *Parser) parseEnumDecl(cp int) {
	p.sink.StartNodeAt(cp, cst.EnumDecl)
	p.advance() // 'enum'
	p.consume(lexer.IDENT, "expected enum name")
	p.parseTypeParamList()
	p.consume(lexer.LBRACE, "expected '{' to start enum body")
	for p.peek() != lexer.RBRACE && !p.atEOF() {
		if p.peek() == lexer.IDENT {
			p.nodeWith(cst.EnumCaseDecl, func() {
				p.advance() // case name
				if p.peek() == lexer.LPAREN {
					p.parseParamList()
				}
			})
			p.checkSeparator()
			continue
		}
		p.parseMember()
	}
	p.consume(lexer.RBRACE, "expected '}' to close enum body")
	p.sink.FinishNode()
}

// parseImplDecl parses `impl Iface<Args> for Ty<Args> { methods }`.
func (p *Parser) parseImplDecl(cp int) {
	p.sink.StartNodeAt(cp, cst.ImplDecl)
	p.advance()   // 'impl'
	p.parseType() // interface type
	p.consume(lexer.KW_FOR, "expected 'for'")
	p.parseType() // implementor type
	p.consume(lexer.LBRACE, "expected '{' to start impl body")
	for p.peek() != lexer.RBRACE && !p.atEOF() {
		p.parseMember()
	}
	p.consume(lexer.RBRACE, "expected '}' to close impl body")
	p.sink.FinishNode()
}

// parseMember parses one field or method inside a class/interface/impl
// body.
func (p *Parser) parseMember() {
	cp := p.checkpoint()
	p.parseModifiers()
	switch p.peek() {
	case lexer.KW_FN:
		p.parseFuncDecl(cp)
	case lexer.IDENT, lexer.KW_CONSTRUCT:
		p.parseFieldDecl(cp)
	default:
		p.report(errors.PAR004, unexpected(p.peek()))
		p.advance()
	}
}

func (p *Parser) parseFieldDecl(cp int) {
	p.sink.StartNodeAt(cp, cst.FieldDecl)
	if p.peek() != lexer.IDENT {
		p.report(errors.PAR001, "expected field name")
	}
	p.advance() // the field name, or the stray token reported above
	if p.matches(lexer.COLON) {
		p.parseType()
	}
	if p.matches(lexer.ASSIGN) {
		p.parseExpr()
	}
	p.checkSeparator()
	p.sink.FinishNode()
}
