package cst

import (
	"testing"

	"github.com/gelixlang/gelix/internal/lexer"
)

func tok(kind lexer.Kind, text string, offset int) lexer.Token {
	return lexer.Token{Kind: kind, Lexeme: text, Offset: offset, File: "t.gx"}
}

func TestSink_RoundTrip(t *testing.T) {
	s := NewSink()
	s.StartNode(SourceFile)
	s.AddToken(tok(lexer.KW_VAL, "val", 0))
	s.AddToken(tok(lexer.WHITESPACE, " ", 3))
	s.AddToken(tok(lexer.IDENT, "x", 4))
	s.FinishNode()
	tree := s.Finish()

	if got, want := tree.Text(), "val x"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestSink_StartNodeAt_WrapsBinaryExpr(t *testing.T) {
	// simulate parsing "a + b": parse lhs, checkpoint before it, then
	// retroactively wrap lhs + op + rhs in a BinaryExpr once the
	// operator is discovered.
	s := NewSink()
	s.StartNode(SourceFile)
	cp := s.Checkpoint()
	s.AddToken(tok(lexer.IDENT, "a", 0))
	s.StartNodeAt(cp, BinaryExpr)
	s.AddToken(tok(lexer.WHITESPACE, " ", 1))
	s.AddToken(tok(lexer.PLUS, "+", 2))
	s.AddToken(tok(lexer.WHITESPACE, " ", 3))
	s.AddToken(tok(lexer.IDENT, "b", 4))
	s.FinishNode()
	s.FinishNode()
	tree := s.Finish()

	if got, want := tree.Text(), "a + b"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	bin := tree.FirstChild(BinaryExpr)
	if bin == nil {
		t.Fatalf("expected a BinaryExpr child, got %+v", tree.Children)
	}
	if got, want := bin.Text(), "a + b"; got != want {
		t.Errorf("BinaryExpr.Text() = %q, want %q", got, want)
	}
}

func TestGreenNode_Tokens(t *testing.T) {
	s := NewSink()
	s.StartNode(SourceFile)
	s.AddToken(tok(lexer.KW_VAL, "val", 0))
	s.AddToken(tok(lexer.WHITESPACE, " ", 3))
	s.AddToken(tok(lexer.IDENT, "x", 4))
	s.FinishNode()
	tree := s.Finish()

	toks := tree.Tokens()
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}
	if toks[1].Kind != lexer.WHITESPACE {
		t.Errorf("expected trivia token preserved in tree")
	}
}
