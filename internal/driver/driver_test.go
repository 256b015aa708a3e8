package driver

import (
	"testing"

	"github.com/gelixlang/gelix/internal/gir"
)

func run(t *testing.T, src string) *Result {
	t.Helper()
	return Run([]Source{{Code: src, Filename: "t.gx"}})
}

// Scenario 1: enum singleton case lowers directly to an Allocate of
// the zero-field case's own type. Case names live in the module's flat
// top-level namespace (like every other declaration), so the case is
// named directly rather than qualified by its enum.
func TestScenario_EnumSingleton(t *testing.T) {
	r := run(t, `
enum Color { Red Green Blue }
fn pick() -> Color = Red
`)
	if !r.OK() {
		t.Fatalf("unexpected errors: parse=%v resolve=%v lower=%v", r.ParseErrors, r.ResolveErrors, r.LowerErrors)
	}
	id, ok := r.Module.Lookup("pick")
	if !ok {
		t.Fatal("expected pick to be declared")
	}
	decl, _ := r.Module.Decl(id)
	alloc, ok := decl.Func.Body.(*gir.Allocate)
	if !ok {
		t.Fatalf("body = %T, want *gir.Allocate", decl.Func.Body)
	}
	redDecl, ok := r.Module.Decl(alloc.ADT)
	if !ok || redDecl.ADT == nil || redDecl.ADT.Name != "Red" {
		t.Errorf("allocated case = %+v, want Red", redDecl.ADT)
	}
	if len(alloc.Args) != 0 {
		t.Errorf("args = %+v, want none for a zero-field case", alloc.Args)
	}
}

// Scenario 2: smart cast narrows x to i32 inside the then-branch and
// the if's phi type is i32.
func TestScenario_SmartCast(t *testing.T) {
	r := run(t, `fn f(x: Any) -> i32 = if x is i32 then x + 1 else 0`)
	if !r.OK() {
		t.Fatalf("unexpected errors: parse=%v resolve=%v lower=%v", r.ParseErrors, r.ResolveErrors, r.LowerErrors)
	}
	id, _ := r.Module.Lookup("f")
	decl, _ := r.Module.Decl(id)
	iff, ok := decl.Func.Body.(*gir.If)
	if !ok {
		t.Fatalf("body = %T, want *gir.If", decl.Func.Body)
	}
	if !gir.IsPrimitiveName("i32") {
		t.Fatal("sanity: i32 should be primitive")
	}
	if p, ok := iff.Then.ExprType().(*gir.Primitive); !ok || p.Name != "i32" {
		t.Errorf("then type = %v, want i32", iff.Then.ExprType())
	}
	if p, ok := iff.ExprType().(*gir.Primitive); !ok || p.Name != "i32" {
		t.Errorf("if phi type = %v, want i32", iff.ExprType())
	}
}

// Scenario 3: operator overload resolves `a + b` to a call of the
// impl's add method.
func TestScenario_OperatorOverload(t *testing.T) {
	r := run(t, `
interface Add { fn add(o: Vec2) -> Vec2 }
class Vec2 { val x: i32 val y: i32 }
impl Add for Vec2 { fn add(o: Vec2) -> Vec2 = this }
fn combine(a: Vec2, b: Vec2) -> Vec2 = a + b
`)
	if !r.OK() {
		t.Fatalf("unexpected errors: parse=%v resolve=%v lower=%v", r.ParseErrors, r.ResolveErrors, r.LowerErrors)
	}
	id, _ := r.Module.Lookup("combine")
	decl, _ := r.Module.Decl(id)
	bin, ok := decl.Func.Body.(*gir.Binary)
	if !ok {
		t.Fatalf("body = %T, want *gir.Binary", decl.Func.Body)
	}
	if bin.Overload == "" {
		t.Fatal("expected Binary.Overload to name the impl's add method")
	}
	overload, ok := r.Module.Decl(bin.Overload)
	if !ok || overload.Func == nil || overload.Func.Name != "add" {
		t.Errorf("overload = %+v, want Vec2's add method", overload)
	}
}

// Scenario 4: a closure capturing an outer local produces a synthetic
// function and a ClosureLit recording the captured value.
func TestScenario_ClosureCapture(t *testing.T) {
	r := run(t, `fn outer() -> i32 { val n = 5 val c = { -> n + 1 } 0 }`)
	if !r.OK() {
		t.Fatalf("unexpected errors: parse=%v resolve=%v lower=%v", r.ParseErrors, r.ResolveErrors, r.LowerErrors)
	}
	id, _ := r.Module.Lookup("outer")
	decl, _ := r.Module.Decl(id)
	block, ok := decl.Func.Body.(*gir.Block)
	if !ok {
		t.Fatalf("body = %T, want *gir.Block", decl.Func.Body)
	}
	var lit *gir.ClosureLit
	for _, e := range block.Exprs {
		if store, ok := e.(*gir.Store); ok {
			if cl, ok := store.Value.(*gir.ClosureLit); ok {
				lit = cl
			}
		}
	}
	if lit == nil {
		t.Fatal("expected a gir.ClosureLit among outer's body expressions")
	}
	if len(lit.Captures) != 1 || lit.Captures[0].Name != "n" {
		t.Errorf("captures = %+v, want [n]", lit.Captures)
	}
}

// Scenario 5: instantiating a generic class enqueues a monomorphized
// instance whose field type is the concrete type argument.
func TestScenario_GenericInstantiation(t *testing.T) {
	r := run(t, `
class Box<T> { val v: T }
fn make() -> Box<i32> = Box(42)
`)
	if !r.OK() {
		t.Fatalf("unexpected errors: parse=%v resolve=%v lower=%v", r.ParseErrors, r.ResolveErrors, r.LowerErrors)
	}
	if r.Generics == nil || len(r.Generics.Specialized) == 0 {
		t.Fatal("expected at least one specialized instance")
	}
	var specId gir.DeclId
	for _, id := range r.Generics.Specialized {
		specId = id
	}
	decl, ok := r.Module.Decl(specId)
	if !ok || decl.ADT == nil {
		t.Fatal("expected the specialized instance to be a registered ADT")
	}
	if len(decl.ADT.Fields) != 1 {
		t.Fatalf("fields = %+v, want 1", decl.ADT.Fields)
	}
	if _, ok := decl.ADT.Fields[0].Type.(*gir.Primitive); !ok {
		t.Errorf("field v type = %T, want *gir.Primitive(i32)", decl.ADT.Fields[0].Type)
	}
}
