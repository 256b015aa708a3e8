package parser

import "testing"

func TestParse_RoundTrip(t *testing.T) {
	srcs := []string{
		"fn f(x: i32) -> i32 = x + 1",
		"class Point { val x: i32 val y: i32 }",
		"interface Shape { fn area() -> f64 }",
		"enum Color { Red Green Blue }",
		"impl Add for Vec2 { fn add(o: Vec2) -> Vec2 = this }",
		"mod a/b/c",
		"import std/list (map, filter)",
	}
	for _, src := range srcs {
		p := New(src, "t.gx")
		tree, errs := p.Parse()
		if len(errs) != 0 {
			t.Errorf("%q: unexpected errors: %v", src, errs)
		}
		if got := tree.Text(); got != src {
			t.Errorf("round-trip mismatch:\n got: %q\nwant: %q", got, src)
		}
	}
}

func TestParse_ErrorRecoveryProducesTree(t *testing.T) {
	src := `fn f() -> i32 = 1 class`
	p := New(src, "t.gx")
	tree, errs := p.Parse()
	if tree == nil {
		t.Fatal("expected a tree even with parse errors")
	}
	if len(errs) == 0 {
		t.Error("expected at least one recovered error")
	}
}

func TestParse_SmartCastCondition(t *testing.T) {
	src := `fn f(x: Any) -> i32 = if x is i32 then x else 0`
	p := New(src, "t.gx")
	tree, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := tree.Text(); got != src {
		t.Errorf("round-trip mismatch:\n got: %q\nwant: %q", got, src)
	}
}

func TestParse_BinaryPrecedence(t *testing.T) {
	src := "fn f() -> i32 = a + b * c"
	p := New(src, "t.gx")
	tree, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if tree.Text() != src {
		t.Errorf("round-trip mismatch: %q", tree.Text())
	}
}

func TestParse_Closure(t *testing.T) {
	src := "fn outer() -> i32 = { n -> n + 1 }"
	p := New(src, "t.gx")
	tree, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if tree.Text() != src {
		t.Errorf("round-trip mismatch: %q", tree.Text())
	}
}
