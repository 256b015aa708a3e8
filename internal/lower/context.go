// Package lower implements pass (c): expression lowering and type
// checking. It walks the un-lowered ast.Expr bodies pass (b) left
// behind in resolve.Result.Bodies/FieldInits and produces a gir.Expr
// tree for each, resolving every variable reference, binary-operator
// overload, call target, smart-cast refinement, closure capture, and
// cast along the way.
//
// This generalizes the role the teacher's internal/elaborate package
// plays (typed-tree construction from a parsed AST, with inference and
// defaulting) to Gelix's nominal, already-annotated type model: there
// is no unification search here, only resolution and checking against
// types pass (b) already wrote down.
package lower

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
	"github.com/gelixlang/gelix/internal/iface"
	"github.com/gelixlang/gelix/internal/resolve"
)

// Context is the module-wide state shared by every function body
// lowered in one Run: the filled declaration arena, the frozen
// interface-implementation table, and the accumulated diagnostics.
// Nothing here is process-global -- a second, independent Run gets its
// own Context.
type Context struct {
	Module *gir.Module
	Iface  *iface.Table
	Errors errors.List

	synthCounter int
}

// Run lowers every function body and field initializer left in res,
// mutating res.Module's Function/Field entries in place. Any closures
// found along the way are added to res.Module as new synthetic
// top-level functions.
func Run(res *resolve.Result) errors.List {
	c := &Context{Module: res.Module, Iface: res.IfaceTable}

	for _, decl := range res.Module.Decls() {
		if decl.Kind == "adt" && decl.ADT != nil {
			for i, field := range decl.ADT.Fields {
				if init, ok := res.FieldInits[decl.ADT.Id][field.Name]; ok {
					fc := c.newFuncContext(nil)
					decl.ADT.Fields[i].Init = fc.lower(init)
					c.Errors = append(c.Errors, fc.errs...)
				}
			}
		}
	}

	// Iterate a stable snapshot: lowering a closure appends new
	// synthetic functions to res.Module mid-loop, and those don't need
	// a second lowering pass (their body is lowered eagerly when the
	// ClosureLit is built).
	for _, decl := range res.Module.Decls() {
		if decl.Kind != "function" || decl.Func == nil {
			continue
		}
		body, ok := res.Bodies[decl.Func.Id]
		if !ok {
			continue
		}
		fc := c.newFuncContext(decl.Func)
		decl.Func.Body = fc.lower(body)
		c.Errors = append(c.Errors, fc.errs...)
	}

	return c.Errors
}

func (c *Context) errorf(code string, pos errors.Position, format string, args ...any) *errors.Report {
	return errors.New(code, "lower", pos, format, args...)
}

func toPos(p ast.Pos) errors.Position {
	return errors.Position{File: p.File, Line: p.Line, Column: p.Column, Offset: p.Offset}
}
