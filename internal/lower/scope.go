package lower

import (
	"fmt"

	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

// funcCtx is the per-function-body lowering state: its lexical scope
// stack, the receiver's self type (if a method), smart-cast
// refinements currently in effect, and (for a `construct` method) the
// uninitialized_this_members set.
type funcCtx struct {
	c    *Context
	fn   *gir.Function // nil when lowering a bare field initializer
	errs errors.List

	scopes    []map[string]gir.LocalId
	locals    map[gir.LocalId]*gir.LocalVariable
	smartCast map[string]gir.Type

	thisType  gir.Type
	thisADT   *gir.ADT
	loopDepth int

	uninit map[string]bool // non-nil only inside a `construct` method

	// closure capture bookkeeping: non-nil only while lowering a
	// closure's synthesized body. captured records every free name
	// resolved from the parent scope, and capOrder keeps those names in
	// first-seen order.
	parent   *funcCtx
	captured map[string]gir.Type
	capOrder []string
	envLocal gir.LocalId
	envType  *gir.ClosureCapturedType
}

func (c *Context) newFuncContext(fn *gir.Function) *funcCtx {
	fc := &funcCtx{
		c:         c,
		fn:        fn,
		scopes:    []map[string]gir.LocalId{{}},
		locals:    map[gir.LocalId]*gir.LocalVariable{},
		smartCast: map[string]gir.Type{},
	}
	if fn != nil {
		if fn.IsMethod && fn.Receiver != "" {
			if d, ok := c.Module.Decl(fn.Receiver); ok && d.ADT != nil {
				fc.thisADT = d.ADT
				fc.thisType = &gir.StrongRef{Elem: &gir.AdtType{Inst: gir.Instance{Decl: d.ADT.Id, TypeArgs: typeParamRefs(d.ADT.TypeParams)}}}
				fc.declare("this", fc.thisType, false)
			}
			if fn.Name == "construct" {
				fc.uninit = map[string]bool{}
				for _, f := range fc.thisADT.Fields {
					if f.Init == nil {
						fc.uninit[f.Name] = true
					}
				}
			}
		}
		for _, p := range fn.Params {
			fc.declare(p.Name, p.Type, false)
		}
	}
	return fc
}

// typeParamNames returns the names of every type parameter in scope
// for resolving a type annotation inside this function body: the
// function's own plus (for a method) its receiver ADT's.
func (fc *funcCtx) typeParamNames() []string {
	var names []string
	if fc.fn != nil {
		names = append(names, fc.fn.TypeParams...)
	}
	if fc.thisADT != nil {
		names = append(names, fc.thisADT.TypeParams...)
	}
	return names
}

func typeParamRefs(names []string) []gir.Type {
	if len(names) == 0 {
		return nil
	}
	out := make([]gir.Type, len(names))
	for i, n := range names {
		out[i] = &gir.TypeParamRef{Name: n}
	}
	return out
}

func (fc *funcCtx) pushScope() { fc.scopes = append(fc.scopes, map[string]gir.LocalId{}) }
func (fc *funcCtx) popScope()  { fc.scopes = fc.scopes[:len(fc.scopes)-1] }

func (fc *funcCtx) declare(name string, typ gir.Type, mutable bool) gir.LocalId {
	id := gir.NewSyntheticDeclId(fc.ownerId(), fmt.Sprintf("local#%s#%d", name, len(fc.locals)))
	fc.locals[id] = &gir.LocalVariable{Id: id, Name: name, Type: typ, Mutable: mutable}
	fc.scopes[len(fc.scopes)-1][name] = id
	if fc.fn != nil {
		fc.fn.Locals[id] = fc.locals[id]
	}
	return id
}

func (fc *funcCtx) ownerId() gir.DeclId {
	if fc.fn != nil {
		return fc.fn.Id
	}
	return "field-init"
}

// lookupLocal walks the lexical scope stack, innermost first.
func (fc *funcCtx) lookupLocal(name string) (gir.LocalId, bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if id, ok := fc.scopes[i][name]; ok {
			return id, true
		}
	}
	return "", false
}

// lookupOuter resolves a name against an enclosing function's scope
// when this funcCtx belongs to a synthesized closure body, recording
// the capture on first use.
func (fc *funcCtx) lookupOuter(name string) (gir.Type, bool) {
	if fc.parent == nil {
		return nil, false
	}
	if typ, ok := fc.captured[name]; ok {
		return typ, true
	}
	if id, ok := fc.parent.lookupLocal(name); ok {
		typ := fc.parent.locals[id].Type
		fc.captured[name] = typ
		fc.capOrder = append(fc.capOrder, name)
		return typ, true
	}
	if typ, ok := fc.parent.lookupOuter(name); ok {
		fc.captured[name] = typ
		fc.capOrder = append(fc.capOrder, name)
		return typ, true
	}
	return nil, false
}

func (fc *funcCtx) errorf(code string, pos ast.Pos, format string, args ...any) {
	fc.errs = append(fc.errs, fc.c.errorf(code, toPos(pos), format, args...))
}

// refine returns a smart-cast-refined type for name if one is
// currently in effect, else the type it resolves to normally via typ.
func (fc *funcCtx) refine(name string, typ gir.Type) gir.Type {
	if r, ok := fc.smartCast[name]; ok {
		return r
	}
	return typ
}
