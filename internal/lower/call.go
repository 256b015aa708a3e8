package lower

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

// lowerCall resolves a call expression's callee: a bare name against
// an enum-case/class constructor or a free function, or a `.`-access
// against a method (statically via Call, or dynamically via CallDyn
// when the receiver's static type is an interface).
func (fc *funcCtx) lowerCall(n *ast.Call) gir.Expr {
	args := fc.lowerArgs(n.Args)

	switch callee := n.Callee.(type) {
	case *ast.Ident:
		return fc.lowerCallIdent(n, callee, args)
	case *ast.Get:
		return fc.lowerCallGet(n, callee, args)
	default:
		fc.errorf(errors.TYP008, n.Pos, "expression is not callable")
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
}

func (fc *funcCtx) lowerArgs(in []ast.Expr) []gir.Expr {
	out := make([]gir.Expr, len(in))
	for i, a := range in {
		out[i] = fc.lower(a)
	}
	return out
}

func (fc *funcCtx) lowerCallIdent(n *ast.Call, callee *ast.Ident, args []gir.Expr) gir.Expr {
	if _, ok := fc.lookupLocal(callee.Name); ok {
		fc.errorf(errors.TYP008, n.Pos, "local %q is not callable", callee.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	id, ok := fc.c.Module.Lookup(callee.Name)
	if !ok {
		fc.errorf(errors.TYP007, n.Pos, "unresolved call target %q", callee.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	decl, _ := fc.c.Module.Decl(id)
	if decl.ADT != nil {
		return fc.lowerConstructorCall(n, decl.ADT, args)
	}
	if decl.Func == nil {
		fc.errorf(errors.TYP008, n.Pos, "%q is not callable", callee.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	fc.checkArity(n.Pos, decl.Func, args)
	return gir.NewCall(toPos(n.Pos), decl.Func.RetType, id, nil, nil, args)
}

func (fc *funcCtx) lowerConstructorCall(n *ast.Call, adt *gir.ADT, args []gir.Expr) gir.Expr {
	ctor, ok := adt.MethodNamed(fc.c.Module, "new-instance")
	if !ok {
		fc.errorf(errors.SHP003, n.Pos, "%s has no constructor", adt.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	fc.checkArity(n.Pos, ctor, args)
	typ := allocResultType(adt)
	return gir.NewAllocate(toPos(n.Pos), typ, adt.Id, typeParamRefs(adt.TypeParams), args)
}

// allocResultType returns the allocation result type for a fresh instance of adt:
// value-layout ADTs are returned by value, everything else by
// StrongRef, matching SPEC_FULL's default reference-type semantics.
func allocResultType(adt *gir.ADT) gir.Type {
	inst := &gir.AdtType{Inst: gir.Instance{Decl: adt.Id, TypeArgs: typeParamRefs(adt.TypeParams)}}
	if adt.Value {
		return inst
	}
	return &gir.StrongRef{Elem: inst}
}

func (fc *funcCtx) checkArity(pos ast.Pos, fn *gir.Function, args []gir.Expr) {
	variadic := len(fn.Params) > 0 && fn.Params[len(fn.Params)-1].Variadic
	if variadic {
		if len(args) < len(fn.Params)-1 {
			fc.errorf(errors.SHP002, pos, "too few arguments to %q", fn.Name)
		}
		return
	}
	if len(args) != len(fn.Params) {
		fc.errorf(errors.SHP001, pos, "%q expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
}

// lowerCallGet lowers `obj.method(args)`: a method call through a
// Get-shaped callee. The receiver's static type decides static Call
// (a concrete ADT) versus CallDyn (any interface-typed receiver,
// resolved at runtime through its vtable, provided some impl of that
// interface defines the method).
func (fc *funcCtx) lowerCallGet(n *ast.Call, callee *ast.Get, args []gir.Expr) gir.Expr {
	recv := fc.lower(callee.Object)
	declId := adtDeclOf(recv.ExprType())
	if declId == "" {
		fc.errorf(errors.TYP007, n.Pos, "cannot call %q on a non-ADT receiver", callee.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	decl, ok := fc.c.Module.Decl(declId)
	if !ok || decl.ADT == nil {
		fc.errorf(errors.TYP007, n.Pos, "cannot call %q on unresolved receiver type", callee.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}

	if decl.ADT.Kind == gir.ADTInterface {
		for _, e := range fc.c.Iface.Entries() {
			if e.Iface == declId {
				if _, has := e.Methods[callee.Name]; has {
					return gir.NewCallDyn(toPos(n.Pos), gir.Any(), recv, declId, callee.Name, args)
				}
			}
		}
		fc.errorf(errors.TYP007, n.Pos, "no implementation of %q found for interface call", callee.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}

	if fc.uninit != nil && callee.Name != "" {
		if load, ok := callee.Object.(*ast.Ident); ok && load.Name == "this" && len(fc.uninit) > 0 {
			fc.errorf(errors.INI002, n.Pos, "method call on 'this' before all fields are initialized")
		}
	}

	fn, ok := decl.ADT.MethodNamed(fc.c.Module, callee.Name)
	if !ok {
		fc.errorf(errors.TYP007, n.Pos, "%s has no method %q", decl.ADT.Name, callee.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	fc.checkArity(n.Pos, fn, args)
	return gir.NewCall(toPos(n.Pos), fn.RetType, fn.Id, nil, recv, args)
}
