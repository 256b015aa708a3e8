package resolve

import (
	"testing"

	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/gir"
	"github.com/gelixlang/gelix/internal/parser"
)

func parseAndLower(t *testing.T, src string) *ast.File {
	t.Helper()
	p := parser.New(src, "t.gx")
	tree, errs := p.Parse()
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	f, lowerErrs := ast.Lower(tree, "t.gx", src)
	if len(lowerErrs) != 0 {
		t.Fatalf("lower errors: %v", lowerErrs)
	}
	return f
}

func TestResolve_EnumSingletonCase(t *testing.T) {
	f := parseAndLower(t, "enum Shape { Circle(r: f64) Empty }")
	res := Run([]*ast.File{f})
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	emptyId, ok := res.Module.Lookup("Empty")
	if !ok {
		t.Fatal("expected Empty case to be declared")
	}
	decl, _ := res.Module.Decl(emptyId)
	if decl.ADT.Kind != gir.ADTEnumCase {
		t.Errorf("kind = %v, want ADTEnumCase", decl.ADT.Kind)
	}
	if len(decl.ADT.Fields) != 0 {
		t.Errorf("Empty should have no fields, got %+v", decl.ADT.Fields)
	}
	if _, ok := decl.ADT.MethodNamed(res.Module, "new-instance"); !ok {
		t.Error("expected synthesized new-instance constructor for Empty")
	}
}

func TestResolve_ClassSynthesizesLifecycleMethods(t *testing.T) {
	f := parseAndLower(t, "class Point { val x: i32 val y: i32 }")
	res := Run([]*ast.File{f})
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	id, _ := res.Module.Lookup("Point")
	decl, _ := res.Module.Decl(id)
	for _, name := range []string{"new-instance", "free-sr", "free-wr"} {
		if _, ok := decl.ADT.MethodNamed(res.Module, name); !ok {
			t.Errorf("expected synthesized %q method", name)
		}
	}
}

func TestResolve_ImplConformance(t *testing.T) {
	f := parseAndLower(t, `
interface Greeter { fn greet() -> Str }
class Person { val name: Str }
impl Greeter for Person { fn greet() -> Str = "hi" }
`)
	res := Run([]*ast.File{f})
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	ifaceId, _ := res.Module.Lookup("Greeter")
	targetId, _ := res.Module.Lookup("Person")
	if !res.IfaceTable.Implements(ifaceId, targetId) {
		t.Error("expected Person to implement Greeter")
	}
}

func TestResolve_ImplMissingMethodReportsError(t *testing.T) {
	f := parseAndLower(t, `
interface Greeter { fn greet() -> Str }
class Person { val name: Str }
impl Greeter for Person { fn other() -> Str = "hi" }
`)
	res := Run([]*ast.File{f})
	if len(res.Errors) == 0 {
		t.Fatal("expected a missing-method error")
	}
}

func TestResolve_DuplicateTopLevelDecl(t *testing.T) {
	f := parseAndLower(t, "class Dup { val x: i32 }\nclass Dup { val y: i32 }")
	res := Run([]*ast.File{f})
	if len(res.Errors) == 0 {
		t.Fatal("expected a duplicate-declaration error")
	}
}

func TestResolve_VisibilityDefaultsToModule(t *testing.T) {
	f := parseAndLower(t, "fn helper() -> i32 = 0")
	res := Run([]*ast.File{f})
	id, _ := res.Module.Lookup("helper")
	decl, _ := res.Module.Decl(id)
	if decl.Func.Visibility != gir.VisModule {
		t.Errorf("visibility = %v, want VisModule", decl.Func.Visibility)
	}
}
