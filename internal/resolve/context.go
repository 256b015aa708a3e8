// Package resolve implements GIR declaration resolution: pass (a)
// "declare" creates a shell declaration for every top-level form so
// forward references resolve regardless of source order, and pass (b)
// "fill" resolves field/parameter/return types, registers enum cases
// and their synthesized constructors, synthesizes each class's
// new-instance/free-sr/free-wr methods, checks impl-block interface
// conformance into the interface-implementation table, and evaluates
// declaration visibility.
//
// This generalizes the role the teacher's elaboration/type-checking
// front half plays (turning a parsed AST into a name- and
// type-resolved program) to Gelix's nominal-ADT model; there is no
// Hindley-Milner unification here because every type is written out in
// source (or defaulted), not inferred.
package resolve

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
	"github.com/gelixlang/gelix/internal/iface"
)

// Context threads the in-progress declaration arena and
// interface-table builder through both resolution passes, replacing
// what an AILANG-style design would otherwise keep as process-wide
// globals (the teacher's own type environment is built the same way,
// as an explicit value passed through the pipeline).
type Context struct {
	Module       *gir.Module
	IfaceBuilder *iface.Builder
	Errors       errors.List

	// Bodies holds each function/method's un-lowered ast.Expr body,
	// keyed by the gir.Function's own DeclId, for internal/lower to
	// consume during pass (c). Synthesized methods (new-instance,
	// free-sr, free-wr) have no entry here -- their Body stays nil.
	Bodies map[gir.DeclId]ast.Expr

	// FieldInits holds each field's un-lowered initializer expression,
	// keyed by owning ADT DeclId then field name.
	FieldInits map[gir.DeclId]map[string]ast.Expr

	files []*ast.File
}

// NewContext creates a resolution context for one module's declaration
// arena, rooted at modulePath (the `mod a/b/c` path, or the file's own
// path when no `mod` declaration is present).
func NewContext(modulePath string) *Context {
	return &Context{
		Module:       gir.NewModule(modulePath),
		IfaceBuilder: iface.NewBuilder(),
		Bodies:       map[gir.DeclId]ast.Expr{},
		FieldInits:   map[gir.DeclId]map[string]ast.Expr{},
	}
}

func toPos(p ast.Pos) errors.Position {
	return errors.Position{File: p.File, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func (c *Context) errorf(code, phase string, pos ast.Pos, format string, args ...any) {
	c.Errors = append(c.Errors, errors.New(code, phase, toPos(pos), format, args...))
}

// Result is everything pass (c)/(d) need from declaration resolution:
// the filled module arena, the frozen interface-implementation table,
// and the un-lowered body/initializer expressions pass (c) still has
// to walk.
type Result struct {
	Module     *gir.Module
	IfaceTable *iface.Table
	Bodies     map[gir.DeclId]ast.Expr
	FieldInits map[gir.DeclId]map[string]ast.Expr
	Errors     errors.List
}

// Run executes pass (a) then pass (b) over every file.
func Run(files []*ast.File) *Result {
	c := NewContext(modulePathOf(files))
	c.files = files
	c.declareAll()
	c.fillAll()
	return &Result{
		Module:     c.Module,
		IfaceTable: c.IfaceBuilder.Freeze(),
		Bodies:     c.Bodies,
		FieldInits: c.FieldInits,
		Errors:     c.Errors,
	}
}

func modulePathOf(files []*ast.File) string {
	for _, f := range files {
		if f.Module != "" {
			return f.Module
		}
	}
	if len(files) > 0 {
		return files[0].Path
	}
	return ""
}
