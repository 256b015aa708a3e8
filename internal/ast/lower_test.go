package ast

import (
	"testing"

	"github.com/gelixlang/gelix/internal/parser"
	"github.com/google/go-cmp/cmp"
)

func lower(t *testing.T, src string) *File {
	t.Helper()
	p := parser.New(src, "t.gx")
	tree, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	f, lowerErrs := Lower(tree, "t.gx", src)
	if len(lowerErrs) != 0 {
		t.Fatalf("unexpected lowering errors: %v", lowerErrs)
	}
	return f
}

func TestLower_FuncDecl(t *testing.T) {
	f := lower(t, "fn add(a: i32, b: i32) -> i32 = a + b")
	if len(f.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(f.Decls))
	}
	fn, ok := f.Decls[0].(*FuncDecl)
	if !ok {
		t.Fatalf("expected *FuncDecl, got %T", f.Decls[0])
	}
	if fn.Name != "add" {
		t.Errorf("name = %q, want add", fn.Name)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Errorf("params = %+v", fn.Params)
	}
	if fn.RetType == nil || fn.RetType.Name != "i32" {
		t.Errorf("ret type = %+v", fn.RetType)
	}
	bin, ok := fn.Body.(*Binary)
	if !ok {
		t.Fatalf("expected *Binary body, got %T", fn.Body)
	}
	if bin.Op != "+" {
		t.Errorf("op = %q, want +", bin.Op)
	}
	left, ok := bin.Left.(*Ident)
	if !ok || left.Name != "a" {
		t.Errorf("left = %+v", bin.Left)
	}
}

func TestLower_ClassDecl(t *testing.T) {
	f := lower(t, "class Point { val x: i32 val y: i32 fn sum() -> i32 = x + y }")
	c, ok := f.Decls[0].(*ClassDecl)
	if !ok {
		t.Fatalf("expected *ClassDecl, got %T", f.Decls[0])
	}
	if c.Name != "Point" {
		t.Errorf("name = %q", c.Name)
	}
	if len(c.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(c.Members))
	}
	if _, ok := c.Members[0].(*FieldDecl); !ok {
		t.Errorf("member 0 = %T, want *FieldDecl", c.Members[0])
	}
	if _, ok := c.Members[2].(*FuncDecl); !ok {
		t.Errorf("member 2 = %T, want *FuncDecl", c.Members[2])
	}
}

func TestLower_EnumWithCases(t *testing.T) {
	f := lower(t, "enum Shape { Circle(r: f64) Square(s: f64) Unit }")
	e, ok := f.Decls[0].(*EnumDecl)
	if !ok {
		t.Fatalf("expected *EnumDecl, got %T", f.Decls[0])
	}
	if len(e.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(e.Cases))
	}
	if e.Cases[0].Name != "Circle" || len(e.Cases[0].Params) != 1 {
		t.Errorf("case 0 = %+v", e.Cases[0])
	}
	if e.Cases[2].Name != "Unit" || e.Cases[2].Params != nil {
		t.Errorf("expected Unit to be a Params-less simple case, got %+v", e.Cases[2])
	}
}

func TestLower_ImplDecl(t *testing.T) {
	f := lower(t, "impl Add for Vec2 { fn add(o: Vec2) -> Vec2 = this }")
	impl, ok := f.Decls[0].(*ImplDecl)
	if !ok {
		t.Fatalf("expected *ImplDecl, got %T", f.Decls[0])
	}
	if impl.Iface == nil || impl.Iface.Name != "Add" {
		t.Errorf("iface = %+v", impl.Iface)
	}
	if impl.Target == nil || impl.Target.Name != "Vec2" {
		t.Errorf("target = %+v", impl.Target)
	}
	if len(impl.Methods) != 1 || impl.Methods[0].Name != "add" {
		t.Errorf("methods = %+v", impl.Methods)
	}
}

func TestLower_IfSmartCast(t *testing.T) {
	f := lower(t, "fn f(x: Any) -> i32 = if x is i32 then x else 0")
	fn := f.Decls[0].(*FuncDecl)
	iff, ok := fn.Body.(*If)
	if !ok {
		t.Fatalf("expected *If body, got %T", fn.Body)
	}
	is, ok := iff.Cond.(*Is)
	if !ok {
		t.Fatalf("expected *Is cond, got %T", iff.Cond)
	}
	if is.Type == nil || is.Type.Name != "i32" {
		t.Errorf("is type = %+v", is.Type)
	}
	if iff.Else == nil {
		t.Error("expected else branch")
	}
}

func TestLower_Closure(t *testing.T) {
	f := lower(t, "fn outer() -> i32 = { n -> n + 1 }")
	fn := f.Decls[0].(*FuncDecl)
	cl, ok := fn.Body.(*Closure)
	if !ok {
		t.Fatalf("expected *Closure body, got %T", fn.Body)
	}
	if len(cl.Params) != 1 || cl.Params[0].Name != "n" {
		t.Errorf("params = %+v", cl.Params)
	}
	if _, ok := cl.Body.(*Binary); !ok {
		t.Errorf("body = %T, want *Binary", cl.Body)
	}
}

func TestLower_StringLiteralDecodesEscapes(t *testing.T) {
	f := lower(t, `fn f() -> Str = "hi\nthere"`)
	fn := f.Decls[0].(*FuncDecl)
	lit, ok := fn.Body.(*Literal)
	if !ok {
		t.Fatalf("expected *Literal body, got %T", fn.Body)
	}
	if diff := cmp.Diff("hi\nthere", lit.Value); diff != "" {
		t.Errorf("decoded string mismatch (-want +got):\n%s", diff)
	}
}

func TestLower_IntLiteralWidthSuffix(t *testing.T) {
	f := lower(t, "fn f() -> i64 = 42i64")
	fn := f.Decls[0].(*FuncDecl)
	lit, ok := fn.Body.(*Literal)
	if !ok {
		t.Fatalf("expected *Literal body, got %T", fn.Body)
	}
	if lit.Width != "i64" {
		t.Errorf("width = %q, want i64", lit.Width)
	}
	if diff := cmp.Diff(int64(42), lit.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestLower_ModuleAndImport(t *testing.T) {
	f := lower(t, "mod a/b/c\nimport std/list (map, filter)\nfn f() -> i32 = 0")
	if f.Module != "a/b/c" {
		t.Errorf("module = %q, want a/b/c", f.Module)
	}
	if len(f.Imports) != 1 {
		t.Fatalf("expected 1 import, got %d", len(f.Imports))
	}
	imp := f.Imports[0]
	if imp.Path != "std/list" {
		t.Errorf("import path = %q, want std/list", imp.Path)
	}
	if diff := cmp.Diff([]string{"map", "filter"}, imp.Symbols); diff != "" {
		t.Errorf("import symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestLower_WhenExpr(t *testing.T) {
	f := lower(t, "fn f(x: i32) -> i32 = when x { 1 -> 10; else -> 0 }")
	fn := f.Decls[0].(*FuncDecl)
	w, ok := fn.Body.(*When)
	if !ok {
		t.Fatalf("expected *When body, got %T", fn.Body)
	}
	if len(w.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(w.Arms))
	}
	if w.Arms[0].Pattern == nil {
		t.Error("expected first arm to have a pattern")
	}
	if w.Arms[1].Pattern != nil {
		t.Error("expected else arm to have a nil pattern")
	}
}
