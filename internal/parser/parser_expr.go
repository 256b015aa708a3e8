package parser

import (
	"github.com/gelixlang/gelix/internal/cst"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/lexer"
)

// parseBlock parses `{ stmt; stmt; ... }`, each statement itself an
// expression (Gelix is expression-oriented: if/when/for/blocks all
// produce values).
func (p *Parser) parseBlock() {
	p.nodeWith(cst.Block, func() {
		p.consume(lexer.LBRACE, "expected '{'")
		for p.peek() != lexer.RBRACE && !p.atEOF() {
			p.parseExpr()
			p.checkSeparator()
		}
		p.consume(lexer.RBRACE, "expected '}' to close block")
	})
}

// parseExpr parses a full expression at the lowest precedence,
// including the trailing `is`/`as` postfix operators.
func (p *Parser) parseExpr() {
	p.parseBinary(0)
}

// parseBinary implements precedence climbing. lhs is parsed first via
// parseUnary/parsePostfix, then for as long as the next token is an
// infix operator binding tighter than minPrec, the already-emitted lhs
// events are retroactively wrapped in a BinaryExpr via StartNodeAt --
// this is the left-recursion-free technique the green-tree event
// model exists for.
func (p *Parser) parseBinary(minPrec int) {
	cp := p.checkpoint()
	p.parseUnary()

	for {
		op := p.peekRaw()
		prec := op.Kind.Precedence()
		if prec == 0 || prec < minPrec {
			return
		}
		if op.Kind == lexer.KW_IS {
			p.sink.StartNodeAt(cp, cst.IsExpr)
			p.advance()
			p.parseType()
			p.sink.FinishNode()
			continue
		}
		if op.Kind == lexer.KW_AS {
			p.sink.StartNodeAt(cp, cst.AsExpr)
			p.advance()
			p.parseType()
			p.sink.FinishNode()
			continue
		}
		p.sink.StartNodeAt(cp, cst.BinaryExpr)
		p.advance() // operator token
		p.parseBinary(prec + 1)
		p.sink.FinishNode()
	}
}

func (p *Parser) parseUnary() {
	if p.peek() == lexer.MINUS || p.peek() == lexer.BANG {
		p.nodeWith(cst.UnaryExpr, func() {
			p.advance()
			p.parseUnary()
		})
		return
	}
	p.parsePostfix()
}

// parsePostfix handles call/get/set/index chains following a primary
// expression: `f(x)`, `obj.field`, `obj.field = v`, `arr[i]`, `arr[i] = v`.
func (p *Parser) parsePostfix() {
	cp := p.checkpoint()
	p.parsePrimary()

	for {
		switch p.peek() {
		case lexer.LPAREN:
			p.sink.StartNodeAt(cp, cst.CallExpr)
			p.parseArgList()
			p.sink.FinishNode()
		case lexer.DOT:
			p.sink.StartNodeAt(cp, cst.GetExpr)
			p.advance()
			p.consume(lexer.IDENT, "expected member name after '.'")
			p.sink.FinishNode()
			if p.peek() == lexer.ASSIGN {
				p.sink.StartNodeAt(cp, cst.SetExpr)
				p.advance()
				p.parseExpr()
				p.sink.FinishNode()
			}
		case lexer.LBRACKET:
			p.sink.StartNodeAt(cp, cst.IndexGetExpr)
			p.advance()
			p.parseExpr()
			p.consume(lexer.RBRACKET, "expected ']' to close index expression")
			p.sink.FinishNode()
			if p.peek() == lexer.ASSIGN {
				p.sink.StartNodeAt(cp, cst.IndexSetExpr)
				p.advance()
				p.parseExpr()
				p.sink.FinishNode()
			}
		default:
			return
		}
	}
}

func (p *Parser) parseArgList() {
	p.nodeWith(cst.ArgList, func() {
		p.consume(lexer.LPAREN, "expected '('")
		for p.peek() != lexer.RPAREN && !p.atEOF() {
			p.parseExpr()
			if !p.matches(lexer.COMMA) {
				break
			}
		}
		p.consume(lexer.RPAREN, "expected ')' to close argument list")
	})
}

// parsePrimary parses literals, identifiers, parenthesized
// expressions, control flow, and closures.
func (p *Parser) parsePrimary() {
	switch p.peek() {
	case lexer.KW_VAL, lexer.KW_VAR:
		p.nodeWith(cst.LocalBinding, func() {
			p.advance() // 'val' | 'var'
			p.consume(lexer.IDENT, "expected binding name")
			if p.matches(lexer.COLON) {
				p.parseType()
			}
			p.consume(lexer.ASSIGN, "expected '=' in local binding")
			p.parseExpr()
		})
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.CHAR, lexer.KW_TRUE, lexer.KW_FALSE, lexer.KW_NONE:
		p.nodeWith(cst.LiteralExpr, func() { p.advance() })
	case lexer.IDENT, lexer.KW_THIS:
		p.nodeWith(cst.VarExpr, func() { p.advance() })
	case lexer.LPAREN:
		p.nodeWith(cst.ParenExpr, func() {
			p.advance()
			p.parseExpr()
			p.consume(lexer.RPAREN, "expected ')' to close parenthesized expression")
		})
	case lexer.LBRACKET:
		p.nodeWith(cst.ArrayExpr, func() {
			p.advance()
			for p.peek() != lexer.RBRACKET && !p.atEOF() {
				p.parseExpr()
				if !p.matches(lexer.COMMA) {
					break
				}
			}
			p.consume(lexer.RBRACKET, "expected ']' to close array literal")
		})
	case lexer.LBRACE:
		p.parseClosure()
	case lexer.KW_IF:
		p.parseIf()
	case lexer.KW_WHEN:
		p.parseWhen()
	case lexer.KW_FOR:
		p.parseFor()
	case lexer.KW_RETURN:
		p.nodeWith(cst.ReturnExpr, func() {
			p.advance()
			if p.canStartExpr() {
				p.parseExpr()
			}
		})
	case lexer.KW_BREAK:
		p.nodeWith(cst.BreakExpr, func() {
			p.advance()
			if p.canStartExpr() {
				p.parseExpr()
			}
		})
	default:
		p.report(errors.PAR001, "unexpected token in expression: "+p.peek().String())
		p.sink.StartNode(cst.ErrorNode)
		if !p.atEOF() {
			p.advance()
		}
		p.sink.FinishNode()
	}
}

func (p *Parser) canStartExpr() bool {
	switch p.peek() {
	case lexer.SEMICOLON, lexer.RBRACE, lexer.RPAREN, lexer.RBRACKET, lexer.COMMA, lexer.EOF:
		return false
	}
	return true
}

// parseClosure parses `{ a, b -> body }` or `{ -> body }`.
func (p *Parser) parseClosure() {
	p.nodeWith(cst.ClosureExpr, func() {
		p.advance() // '{'
		if p.peek() == lexer.IDENT {
			p.nodeWith(cst.ParamList, func() {
				p.nodeWith(cst.Param, func() { p.advance() })
				for p.matches(lexer.COMMA) {
					p.nodeWith(cst.Param, func() { p.consume(lexer.IDENT, "expected parameter name") })
				}
			})
		}
		p.consume(lexer.ARROW, "expected '->' after closure parameters")
		p.parseExpr()
		for p.checkSeparator() && p.peek() != lexer.RBRACE {
			p.parseExpr()
		}
		p.consume(lexer.RBRACE, "expected '}' to close closure")
	})
}

// parseIf parses `if cond then_expr else else_expr`, with `then` and
// braces both accepted: `if cond { ... } else { ... }` and
// `if cond then e else e` are both valid surface forms.
func (p *Parser) parseIf() {
	p.nodeWith(cst.IfExpr, func() {
		p.advance() // 'if'
		p.parseExpr()
		p.matches(lexer.KW_THEN)
		if p.peek() == lexer.LBRACE {
			p.parseBlock()
		} else {
			p.parseExpr()
		}
		if p.matches(lexer.KW_ELSE) {
			if p.peek() == lexer.LBRACE {
				p.parseBlock()
			} else {
				p.parseExpr()
			}
		}
	})
}

// parseWhen parses `when v { pattern -> expr; ...; else -> expr }`.
func (p *Parser) parseWhen() {
	p.nodeWith(cst.WhenExpr, func() {
		p.advance() // 'when'
		p.parseExpr()
		p.consume(lexer.LBRACE, "expected '{' to start when body")
		for p.peek() != lexer.RBRACE && !p.atEOF() {
			p.nodeWith(cst.WhenArm, func() {
				if p.peek() == lexer.KW_ELSE {
					p.advance()
				} else {
					p.parseExpr()
				}
				p.consume(lexer.ARROW, "expected '->' in when arm")
				p.parseExpr()
			})
			p.checkSeparator()
		}
		p.consume(lexer.RBRACE, "expected '}' to close when body")
	})
}

// parseFor parses `for cond body else?`, the while-style loop
// described in the component design for control flow as expression.
func (p *Parser) parseFor() {
	p.nodeWith(cst.ForExpr, func() {
		p.advance() // 'for'
		p.parseExpr()
		p.parseBlock()
		if p.matches(lexer.KW_ELSE) {
			p.parseBlock()
		}
	})
}
