// Package module implements module loading and dependency resolution
// for Gelix: given an import path, find the `.gx` source file it
// names, parse it, recursively load its own imports, and cache the
// result so a diamond-shaped dependency graph is only parsed once.
package module

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/parser"
)

// Module is one parsed, not-yet-GIR-resolved Gelix source file together
// with the identity, dependency, and export bookkeeping the loader
// needs to order and validate a whole program's worth of files.
type Module struct {
	// Identity is the canonical module path (e.g. "std/list", "app/tree").
	Identity string

	// FilePath is the absolute path to the module file.
	FilePath string

	// File is the parsed file.
	File *ast.File

	// Dependencies are the module paths this module imports.
	Dependencies []string

	// Exports maps exported declaration name to the declaration itself.
	Exports map[string]ast.Decl
}

// Loader handles module loading and dependency resolution.
type Loader struct {
	cache map[string]*Module
	mu    sync.RWMutex

	searchPaths []string
	stdlibPath  string

	// currentFile is the file currently being loaded, for relative imports.
	currentFile string

	// loadStack tracks the current load chain for cycle detection.
	loadStack []string
}

// NewLoader creates a new module loader.
func NewLoader() *Loader {
	return &Loader{
		cache:       make(map[string]*Module),
		searchPaths: getDefaultSearchPaths(),
		stdlibPath:  getStdlibPath(),
		loadStack:   []string{},
	}
}

func getDefaultSearchPaths() []string {
	paths := []string{"."}

	if gelixPath := os.Getenv("GELIX_PATH"); gelixPath != "" {
		paths = append(paths, strings.Split(gelixPath, string(os.PathListSeparator))...)
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".gelix", "modules"))
	}

	return paths
}

func getStdlibPath() string {
	if stdlib := os.Getenv("GELIX_STDLIB"); stdlib != "" {
		return stdlib
	}

	if exe, err := os.Executable(); err == nil {
		stdlib := filepath.Join(filepath.Dir(exe), "..", "stdlib")
		if info, err := os.Stat(stdlib); err == nil && info.IsDir() {
			return stdlib
		}
	}

	return filepath.Join(".", "stdlib")
}

// Load loads a module by its import path.
func (l *Loader) Load(importPath string) (*Module, error) {
	identity := l.normalizeModulePath(importPath)

	if mod := l.getCached(identity); mod != nil {
		return mod, nil
	}

	if err := l.checkCycle(identity); err != nil {
		return nil, err
	}

	l.pushStack(identity)
	defer l.popStack()

	filePath, err := l.resolvePath(importPath)
	if err != nil {
		return nil, l.moduleNotFoundError(importPath, err)
	}

	mod, err := l.parseModule(identity, filePath)
	if err != nil {
		return nil, err
	}

	if err := l.loadDependencies(mod); err != nil {
		return nil, err
	}

	if err := l.validateModule(mod); err != nil {
		return nil, err
	}

	l.cacheModule(mod)

	return mod, nil
}

// LoadFile loads a module from a specific file path, used for the
// program's entry file rather than an import path.
func (l *Loader) LoadFile(filePath string) (*Module, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	identity := l.deriveModuleIdentity(absPath)

	oldFile := l.currentFile
	l.currentFile = absPath
	defer func() { l.currentFile = oldFile }()

	if mod := l.getCached(identity); mod != nil {
		return mod, nil
	}

	mod, err := l.parseModule(identity, absPath)
	if err != nil {
		return nil, err
	}

	if err := l.loadDependencies(mod); err != nil {
		return nil, err
	}

	if err := l.validateModule(mod); err != nil {
		return nil, err
	}

	l.cacheModule(mod)

	return mod, nil
}

// parseModule parses a module file through the CST parser (which runs
// the lexer itself) and the CST-to-AST lowering pass.
func (l *Loader) parseModule(identity, filePath string) (*Module, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file: %w", err)
	}
	src := string(content)

	p := parser.New(src, filePath)
	tree, parseErrs := p.Parse()
	if len(parseErrs) > 0 {
		return nil, l.parseError(filePath, parseErrs)
	}

	file, lowerErrs := ast.Lower(tree, filePath, src)
	if len(lowerErrs) > 0 {
		return nil, l.parseError(filePath, lowerErrs)
	}

	if !l.isStdlib(identity) && file.Module != "" && file.Module != identity {
		expectedName := l.expectedModuleName(filePath)
		if file.Module != expectedName {
			return nil, l.moduleNameMismatchError(file.Module, expectedName, filePath)
		}
	}

	mod := &Module{
		Identity:     identity,
		FilePath:     filePath,
		File:         file,
		Dependencies: l.extractDependencies(file),
		Exports:      l.extractExports(file),
	}

	return mod, nil
}

// resolvePath resolves an import path to a file path.
func (l *Loader) resolvePath(importPath string) (string, error) {
	if strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../") {
		if l.currentFile == "" {
			return "", fmt.Errorf("relative import '%s' with no current file", importPath)
		}
		dir := filepath.Dir(l.currentFile)
		path := filepath.Join(dir, importPath)
		if !strings.HasSuffix(path, ".gx") {
			path += ".gx"
		}
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
		return "", fmt.Errorf("module not found: %s", path)
	}

	if strings.HasPrefix(importPath, "std/") {
		path := filepath.Join(l.stdlibPath, strings.TrimPrefix(importPath, "std/"))
		if !strings.HasSuffix(path, ".gx") {
			path += ".gx"
		}
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
		return "", fmt.Errorf("stdlib module not found: %s", importPath)
	}

	for _, searchPath := range l.searchPaths {
		path := filepath.Join(searchPath, importPath)
		if !strings.HasSuffix(path, ".gx") {
			path += ".gx"
		}
		if _, err := os.Stat(path); err == nil {
			return filepath.Abs(path)
		}
	}

	return "", fmt.Errorf("module not found in search paths: %s", importPath)
}

// loadDependencies loads all dependencies of a module.
func (l *Loader) loadDependencies(mod *Module) error {
	for _, dep := range mod.Dependencies {
		if _, err := l.Load(dep); err != nil {
			return fmt.Errorf("failed to load dependency '%s': %w", dep, err)
		}
	}
	return nil
}

// validateModule checks export uniqueness and that every selective
// import actually names something the dependency exports.
func (l *Loader) validateModule(mod *Module) error {
	seen := make(map[string]bool)
	for _, decl := range mod.File.Decls {
		name, mods, ok := declNameAndMods(decl)
		if !ok || mods.Priv {
			continue
		}
		if seen[name] {
			return l.duplicateExportError(name, mod.Identity)
		}
		seen[name] = true
	}

	for _, imp := range mod.File.Imports {
		depMod, err := l.Load(imp.Path)
		if err != nil {
			return err
		}

		for _, item := range imp.Symbols {
			if _, ok := depMod.Exports[item]; !ok {
				return l.importNotExportedError(item, imp.Path, mod.Identity)
			}
		}
	}

	return nil
}

// Helper methods

func (l *Loader) getCached(identity string) *Module {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[identity]
}

func (l *Loader) cacheModule(mod *Module) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache[mod.Identity] = mod
}

func (l *Loader) checkCycle(identity string) error {
	for i, id := range l.loadStack {
		if id == identity {
			cycle := append(l.loadStack[i:], identity)
			return l.circularDependencyError(cycle)
		}
	}
	return nil
}

func (l *Loader) pushStack(identity string) {
	l.loadStack = append(l.loadStack, identity)
}

func (l *Loader) popStack() {
	if len(l.loadStack) > 0 {
		l.loadStack = l.loadStack[:len(l.loadStack)-1]
	}
}

func (l *Loader) normalizeModulePath(path string) string {
	path = strings.TrimSuffix(path, ".gx")
	path = strings.ReplaceAll(path, "\\", "/")
	return path
}

func (l *Loader) deriveModuleIdentity(filePath string) string {
	identity := strings.TrimSuffix(filepath.Base(filePath), ".gx")

	for _, searchPath := range l.searchPaths {
		if absSearch, err := filepath.Abs(searchPath); err == nil {
			if strings.HasPrefix(filePath, absSearch) {
				rel, _ := filepath.Rel(absSearch, filePath)
				identity = strings.TrimSuffix(rel, ".gx")
				identity = strings.ReplaceAll(identity, string(filepath.Separator), "/")
				break
			}
		}
	}

	return identity
}

func (l *Loader) expectedModuleName(filePath string) string {
	return strings.TrimSuffix(filepath.Base(filePath), ".gx")
}

func (l *Loader) isStdlib(identity string) bool {
	return strings.HasPrefix(identity, "std/")
}

func (l *Loader) extractDependencies(file *ast.File) []string {
	deps := []string{}
	for _, imp := range file.Imports {
		deps = append(deps, imp.Path)
	}
	return deps
}

// extractExports collects every top-level declaration visible outside
// its own module: `pub` declarations always, plus module-visibility
// declarations (the default when neither `pub` nor `priv` is given) --
// private declarations never leave their defining module, mirroring
// internal/resolve's own gir.VisPrivate/VisModule/VisPublic split.
func (l *Loader) extractExports(file *ast.File) map[string]ast.Decl {
	exports := make(map[string]ast.Decl)
	for _, decl := range file.Decls {
		name, mods, ok := declNameAndMods(decl)
		if !ok || mods.Priv {
			continue
		}
		exports[name] = decl
	}
	return exports
}

func declNameAndMods(decl ast.Decl) (string, ast.Modifiers, bool) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		return d.Name, d.Mods, true
	case *ast.ClassDecl:
		return d.Name, d.Mods, true
	case *ast.InterfaceDecl:
		return d.Name, d.Mods, true
	case *ast.EnumDecl:
		return d.Name, d.Mods, true
	default:
		return "", ast.Modifiers{}, false
	}
}

// Error constructors

func (l *Loader) moduleNotFoundError(path string, err error) error {
	trace := l.buildResolutionTrace()
	return &ModuleError{
		Code:    errors.LDR001,
		Message: fmt.Sprintf("Module not found: %s", path),
		Path:    path,
		Trace:   trace,
		Cause:   err,
	}
}

func (l *Loader) circularDependencyError(cycle []string) error {
	return &ModuleError{
		Code:    errors.LDR002,
		Message: "Circular module dependency detected",
		Cycle:   cycle,
		Trace:   l.buildResolutionTrace(),
	}
}

func (l *Loader) moduleNameMismatchError(actual, expected, path string) error {
	return &ModuleError{
		Code:    errors.LDR003,
		Message: fmt.Sprintf("Module name '%s' doesn't match expected '%s' for file %s", actual, expected, path),
		Path:    path,
	}
}

func (l *Loader) duplicateExportError(name, module string) error {
	return &ModuleError{
		Code:    errors.LDR004,
		Message: fmt.Sprintf("Duplicate export '%s' in module %s", name, module),
		Path:    module,
	}
}

func (l *Loader) importNotExportedError(item, fromModule, inModule string) error {
	return &ModuleError{
		Code:    errors.LDR004,
		Message: fmt.Sprintf("Import '%s' not exported by module %s (imported in %s)", item, fromModule, inModule),
		Path:    inModule,
	}
}

func (l *Loader) parseError(path string, errs errors.List) error {
	if len(errs) > 0 {
		return &ModuleError{
			Code:    errs[0].Code,
			Message: fmt.Sprintf("Parse error in %s: %v", path, errs[0]),
			Path:    path,
			Cause:   errs[0],
		}
	}
	return fmt.Errorf("parse error in %s", path)
}

func (l *Loader) buildResolutionTrace() []string {
	trace := []string{}
	for i, id := range l.loadStack {
		indent := strings.Repeat("  ", i)
		if i == 0 {
			trace = append(trace, fmt.Sprintf("Resolving %s", id))
		} else {
			trace = append(trace, fmt.Sprintf("%s-> import %s", indent, id))
		}
	}
	return trace
}

// ModuleError represents a module loading error with structured information.
type ModuleError struct {
	Code    string
	Message string
	Path    string
	Cycle   []string
	Trace   []string
	Cause   error
}

func (e *ModuleError) Error() string {
	return e.Message
}

// GetDependencyGraph returns the full dependency graph.
func (l *Loader) GetDependencyGraph() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	graph := make(map[string][]string)
	for id, mod := range l.cache {
		graph[id] = mod.Dependencies
	}
	return graph
}

// TopologicalSort returns modules in dependency order (dependencies first).
func (l *Loader) TopologicalSort() ([]string, error) {
	graph := l.GetDependencyGraph()

	reverseGraph := make(map[string][]string)
	inDegree := make(map[string]int)

	for node := range graph {
		reverseGraph[node] = []string{}
		inDegree[node] = 0
	}

	for node, deps := range graph {
		for _, dep := range deps {
			if _, exists := reverseGraph[dep]; !exists {
				reverseGraph[dep] = []string{}
				inDegree[dep] = 0
			}
			reverseGraph[dep] = append(reverseGraph[dep], node)
		}
		inDegree[node] = len(deps)
	}

	queue := []string{}
	for node, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, node)
		}
	}

	result := []string{}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, dependent := range reverseGraph[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(graph) {
		return nil, fmt.Errorf("circular dependency detected")
	}

	return result, nil
}

// DumpModules writes a human-readable summary of every cached module.
func (l *Loader) DumpModules(w io.Writer) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	fmt.Fprintf(w, "Loaded Modules:\n")
	for id, mod := range l.cache {
		fmt.Fprintf(w, "  %s:\n", id)
		fmt.Fprintf(w, "    File: %s\n", mod.FilePath)
		fmt.Fprintf(w, "    Dependencies: %v\n", mod.Dependencies)
		fmt.Fprintf(w, "    Exports: %v\n", l.getExportNames(mod))
	}
}

func (l *Loader) getExportNames(mod *Module) []string {
	names := []string{}
	for name := range mod.Exports {
		names = append(names, name)
	}
	return names
}
