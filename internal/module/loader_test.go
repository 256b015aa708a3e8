package module

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()

	if loader.cache == nil {
		t.Error("cache should be initialized")
	}

	if loader.searchPaths == nil {
		t.Error("searchPaths should be initialized")
	}

	if loader.stdlibPath == "" {
		t.Error("stdlibPath should not be empty")
	}
}

func TestNormalizeModulePath(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		input    string
		expected string
	}{
		{"module.gx", "module"},
		{"path/to/module.gx", "path/to/module"},
		{"path\\to\\module", "path/to/module"},
		{"module", "module"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := loader.normalizeModulePath(tt.input)
			if result != tt.expected {
				t.Errorf("normalizeModulePath(%s) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCycleDetection(t *testing.T) {
	loader := NewLoader()

	loader.loadStack = []string{"modules/a", "modules/b", "modules/c"}

	err := loader.checkCycle("modules/a")
	if err == nil {
		t.Error("Expected cycle detection error")
	}

	modErr, ok := err.(*ModuleError)
	if !ok {
		t.Error("Expected ModuleError type")
	}

	if modErr.Code != errors.LDR002 {
		t.Errorf("Error code = %s, want %s", modErr.Code, errors.LDR002)
	}

	if len(modErr.Cycle) != 4 {
		t.Errorf("Cycle length = %d, want 4", len(modErr.Cycle))
	}

	err = loader.checkCycle("modules/d")
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestExtractDependencies(t *testing.T) {
	loader := NewLoader()

	file := &ast.File{
		Imports: []*ast.Import{
			{Path: "std/list"},
			{Path: "./utils"},
			{Path: "data/tree"},
		},
	}

	deps := loader.extractDependencies(file)

	if len(deps) != 3 {
		t.Errorf("Dependencies count = %d, want 3", len(deps))
	}

	expected := []string{"std/list", "./utils", "data/tree"}
	for i, dep := range deps {
		if dep != expected[i] {
			t.Errorf("Dependency[%d] = %s, want %s", i, dep, expected[i])
		}
	}
}

func TestExtractExportsSkipsPrivate(t *testing.T) {
	loader := NewLoader()

	file := &ast.File{
		Decls: []ast.Decl{
			&ast.FuncDecl{Name: "add", Mods: ast.Modifiers{Pub: true}},
			&ast.FuncDecl{Name: "multiply"}, // module-visible by default
			&ast.FuncDecl{Name: "internal", Mods: ast.Modifiers{Priv: true}},
			&ast.ClassDecl{Name: "Box", Mods: ast.Modifiers{Pub: true}},
		},
	}

	exports := loader.extractExports(file)

	if len(exports) != 3 {
		t.Errorf("Exports count = %d, want 3", len(exports))
	}

	for _, name := range []string{"add", "multiply", "Box"} {
		if _, ok := exports[name]; !ok {
			t.Errorf("%q should be exported", name)
		}
	}

	if _, ok := exports["internal"]; ok {
		t.Error("'internal' should not be exported (priv)")
	}
}

func TestModuleErrorTypes(t *testing.T) {
	loader := NewLoader()

	err := loader.moduleNotFoundError("missing/module", nil)
	modErr, ok := err.(*ModuleError)
	if !ok {
		t.Error("Expected ModuleError type")
	}
	if modErr.Code != errors.LDR001 {
		t.Errorf("Error code = %s, want %s", modErr.Code, errors.LDR001)
	}

	err = loader.circularDependencyError([]string{"a", "b", "c", "a"})
	modErr, ok = err.(*ModuleError)
	if !ok {
		t.Error("Expected ModuleError type")
	}
	if modErr.Code != errors.LDR002 {
		t.Errorf("Error code = %s, want %s", modErr.Code, errors.LDR002)
	}

	err = loader.moduleNameMismatchError("wrong", "expected", "file.gx")
	modErr, ok = err.(*ModuleError)
	if !ok {
		t.Error("Expected ModuleError type")
	}
	if modErr.Code != errors.LDR003 {
		t.Errorf("Error code = %s, want %s", modErr.Code, errors.LDR003)
	}

	err = loader.duplicateExportError("name", "module")
	modErr, ok = err.(*ModuleError)
	if !ok {
		t.Error("Expected ModuleError type")
	}
	if modErr.Code != errors.LDR004 {
		t.Errorf("Error code = %s, want %s", modErr.Code, errors.LDR004)
	}
}

func TestLoadStack(t *testing.T) {
	loader := NewLoader()

	loader.pushStack("module1")
	loader.pushStack("module2")

	if len(loader.loadStack) != 2 {
		t.Errorf("Load stack size = %d, want 2", len(loader.loadStack))
	}

	loader.popStack()
	if len(loader.loadStack) != 1 {
		t.Errorf("Load stack size after pop = %d, want 1", len(loader.loadStack))
	}

	if loader.loadStack[0] != "module1" {
		t.Errorf("Remaining item = %s, want module1", loader.loadStack[0])
	}

	loader.popStack()
	loader.popStack() // Should be safe
	if len(loader.loadStack) != 0 {
		t.Error("Load stack should be empty")
	}
}

func TestIsStdlib(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		identity string
		expected bool
	}{
		{"std/list", true},
		{"std/prelude", true},
		{"std/io/file", true},
		{"list", false},
		{"mymodule", false},
		{"stdlib/fake", false},
	}

	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			result := loader.isStdlib(tt.identity)
			if result != tt.expected {
				t.Errorf("isStdlib(%s) = %v, want %v", tt.identity, result, tt.expected)
			}
		})
	}
}

func TestBuildResolutionTrace(t *testing.T) {
	loader := NewLoader()
	loader.loadStack = []string{"main", "utils", "helpers"}

	trace := loader.buildResolutionTrace()

	if len(trace) != 3 {
		t.Errorf("Trace length = %d, want 3", len(trace))
	}

	if !strings.Contains(trace[0], "Resolving main") {
		t.Errorf("First trace should mention main, got: %s", trace[0])
	}

	if !strings.Contains(trace[1], "-> import utils") {
		t.Errorf("Second trace should show utils import, got: %s", trace[1])
	}

	if !strings.Contains(trace[2], "-> import helpers") {
		t.Errorf("Third trace should show helpers import, got: %s", trace[2])
	}
}

func TestTopologicalSort(t *testing.T) {
	loader := NewLoader()

	loader.cache = map[string]*Module{
		"A": {Identity: "A", Dependencies: []string{"B"}},
		"B": {Identity: "B", Dependencies: []string{"C"}},
		"C": {Identity: "C", Dependencies: []string{}},
	}

	sorted, err := loader.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort failed: %v", err)
	}

	indexOf := func(s []string, item string) int {
		for i, v := range s {
			if v == item {
				return i
			}
		}
		return -1
	}

	cIndex := indexOf(sorted, "C")
	bIndex := indexOf(sorted, "B")
	aIndex := indexOf(sorted, "A")

	if cIndex > bIndex {
		t.Errorf("C should come before B in topological order: %v", sorted)
	}
	if bIndex > aIndex {
		t.Errorf("B should come before A in topological order: %v", sorted)
	}
}

func TestTopologicalSortCycle(t *testing.T) {
	loader := NewLoader()

	loader.cache = map[string]*Module{
		"A": {Identity: "A", Dependencies: []string{"B"}},
		"B": {Identity: "B", Dependencies: []string{"A"}},
	}

	_, err := loader.TopologicalSort()
	if err == nil {
		t.Error("Expected cycle detection error")
	}

	if !strings.Contains(err.Error(), "circular") {
		t.Errorf("Error should mention circular dependency: %v", err)
	}
}

func TestGetDependencyGraph(t *testing.T) {
	loader := NewLoader()

	loader.cache = map[string]*Module{
		"A": {Identity: "A", Dependencies: []string{"B", "C"}},
		"B": {Identity: "B", Dependencies: []string{"D"}},
		"C": {Identity: "C", Dependencies: []string{}},
		"D": {Identity: "D", Dependencies: []string{}},
	}

	graph := loader.GetDependencyGraph()

	if len(graph) != 4 {
		t.Errorf("Graph size = %d, want 4", len(graph))
	}

	if len(graph["A"]) != 2 {
		t.Errorf("A dependencies = %d, want 2", len(graph["A"]))
	}

	if len(graph["B"]) != 1 {
		t.Errorf("B dependencies = %d, want 1", len(graph["B"]))
	}
}

func TestCache(t *testing.T) {
	loader := NewLoader()

	mod := &Module{
		Identity: "test/module",
		FilePath: "/path/to/module.gx",
	}

	loader.cacheModule(mod)

	cached := loader.getCached("test/module")
	if cached == nil {
		t.Error("Module should be in cache")
	}

	if cached.Identity != "test/module" {
		t.Errorf("Cached module identity = %s, want test/module", cached.Identity)
	}

	notCached := loader.getCached("non/existent")
	if notCached != nil {
		t.Error("Non-existent module should not be in cache")
	}
}

// Integration test with file operations.
func TestLoadFileIntegration(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "module_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	modulePath := filepath.Join(tmpDir, "test.gx")
	moduleContent := `pub class Box {
    val n: i32
}
`

	if err := os.WriteFile(modulePath, []byte(moduleContent), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader()
	mod, err := loader.LoadFile(modulePath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if mod.FilePath != modulePath {
		t.Errorf("Module file path = %s, want %s", mod.FilePath, modulePath)
	}

	if _, ok := mod.Exports["Box"]; !ok {
		t.Error("'Box' should be exported")
	}

	cached := loader.getCached(mod.Identity)
	if cached == nil {
		t.Error("Module should be cached after loading")
	}
}
