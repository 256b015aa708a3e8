// Package driver orchestrates the full pass pipeline over one or more
// source files: parse -> CST-to-AST lowering -> declaration resolution
// -> expression lowering -> generic instantiation, producing the final
// GirModule the spec names as the compiler's output artifact.
//
// This generalizes the teacher's internal/pipeline.Run entry point
// (a single Config/Source/Result-shaped driver function dispatching
// between a single-file and a multi-file/module mode) to Gelix's own
// four-pass GIR pipeline; unlike the teacher's pipeline -- which also
// drives evaluation (ModeEval) -- this driver stops at GIR
// construction, since code generation is explicitly out of scope.
package driver

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/generics"
	"github.com/gelixlang/gelix/internal/gir"
	"github.com/gelixlang/gelix/internal/lower"
	"github.com/gelixlang/gelix/internal/parser"
	"github.com/gelixlang/gelix/internal/resolve"
)

// Source is one input file to compile, mirroring the teacher's own
// pipeline.Source shape (code plus its logical filename).
type Source struct {
	Code     string
	Filename string
}

// Result is the driver's output: the final GirModule (once every pass
// has run cleanly) plus every diagnostic collected along the way,
// tagged by which pass produced it so a caller can tell a syntax error
// from a lowering error without re-deriving it from the code prefix.
type Result struct {
	AST           []*ast.File
	Module        *gir.Module
	Generics      *generics.Result
	ParseErrors   errors.List
	ResolveErrors errors.List
	LowerErrors   errors.List
}

// OK reports whether every pass completed without errors.
func (r *Result) OK() bool {
	return len(r.ParseErrors) == 0 && len(r.ResolveErrors) == 0 && len(r.LowerErrors) == 0
}

// Run executes the passes over sources in order. Each pass collects
// every error it finds, but a later pass runs only when the passes
// before it were clean: Run returns after parsing if any file had a
// parse or CST-to-AST error, after resolution if it reported errors,
// and after lowering if that did; generic instantiation runs only on a
// fully clean module. Result.OK reports whether every pass was clean.
func Run(sources []Source) *Result {
	r := &Result{}

	for _, src := range sources {
		p := parser.New(src.Code, src.Filename)
		tree, errs := p.Parse()
		r.ParseErrors = append(r.ParseErrors, errs...)

		file, lowerErrs := ast.Lower(tree, src.Filename, src.Code)
		r.ParseErrors = append(r.ParseErrors, lowerErrs...)
		r.AST = append(r.AST, file)
	}

	if len(r.ParseErrors) > 0 {
		return r
	}

	res := resolve.Run(r.AST)
	r.ResolveErrors = res.Errors
	r.Module = res.Module

	if len(r.ResolveErrors) > 0 {
		return r
	}

	r.LowerErrors = lower.Run(res)
	if len(r.LowerErrors) > 0 {
		return r
	}

	r.Generics = generics.Run(r.Module)
	return r
}
