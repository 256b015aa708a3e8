package lexer

import "testing"

func significant(src string) []Token {
	l := New(src, "test.gx")
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Kind.ShouldSkip() {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func TestNextToken_Keywords(t *testing.T) {
	src := `class Point { val x: i32 }`
	toks := significant(src)
	want := []Kind{KW_CLASS, IDENT, LBRACE, KW_VAL, IDENT, COLON, IDENT, RBRACE, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestNextToken_OperatorsAndWidths(t *testing.T) {
	src := `a + b * 2i32 -> c`
	toks := significant(src)
	wantKinds := []Kind{IDENT, PLUS, IDENT, STAR, INT, ARROW, IDENT, EOF}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[4].Lexeme != "2i32" {
		t.Errorf("lexeme = %q, want 2i32", toks[4].Lexeme)
	}
}

func TestNextToken_StringEscapes(t *testing.T) {
	src := `"hi\nthere"`
	toks := significant(src)
	if toks[0].Kind != STRING || toks[0].Lexeme != src {
		t.Errorf("got %+v, want raw lexeme %q", toks[0], src)
	}
}

func TestNextToken_Offsets(t *testing.T) {
	toks := significant("val x")
	if toks[0].Offset != 0 {
		t.Errorf("first token offset = %d, want 0", toks[0].Offset)
	}
	if toks[1].Offset != 4 {
		t.Errorf("second token offset = %d, want 4", toks[1].Offset)
	}
}

func TestNextToken_TriviaPreserved(t *testing.T) {
	l := New("val  x", "t.gx")
	var kinds []Kind
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EOF {
			break
		}
	}
	want := []Kind{KW_VAL, WHITESPACE, IDENT, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v", kinds)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("trivia token %d: got %s, want %s", i, kinds[i], k)
		}
	}
}

func TestNextToken_Illegal(t *testing.T) {
	toks := significant("val x = `")
	last := toks[len(toks)-2]
	if last.Kind != ILLEGAL {
		t.Errorf("expected ILLEGAL before EOF, got %s", last.Kind)
	}
}
