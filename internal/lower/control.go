package lower

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

// lowerIf lowers `if cond then else?`. When cond is an `is` test on a
// bare identifier, or an `and`-chain containing such tests, each
// refined type is in scope for Then only -- SPEC_FULL §8's smart-cast
// mandatory scenario.
func (fc *funcCtx) lowerIf(n *ast.If) gir.Expr {
	cond := fc.lower(n.Cond)
	if !gir.Equal(cond.ExprType(), gir.Bool()) {
		fc.errorf(errors.TYP003, n.Cond.Position(), "if condition must be bool")
	}

	var restores []func()
	var bind func(e ast.Expr)
	bind = func(e ast.Expr) {
		if b, ok := e.(*ast.Binary); ok && b.Op == "and" {
			bind(b.Left)
			bind(b.Right)
		} else if is, ok := e.(*ast.Is); ok {
			if ident, ok := is.X.(*ast.Ident); ok {
				restores = append(restores, fc.pushSmartCast(ident.Name, fc.resolveSmartCastType(is.Type)))
			}
		}
	}
	bind(n.Cond)
	then := fc.lower(n.Then)
	for i := len(restores) - 1; i >= 0; i-- {
		restores[i]()
	}

	var els gir.Expr
	phi := gir.Unit()
	if n.Else != nil {
		els = fc.lower(n.Else)
		phi = then.ExprType()
		if !gir.Equal(then.ExprType(), els.ExprType()) {
			fc.errorf(errors.TYP009, n.Pos, "if branches do not unify: %s vs %s", then.ExprType(), els.ExprType())
		}
	}
	return gir.NewIf(toPos(n.Pos), phi, cond, then, els)
}

// lowerIs lowers a bare `x is T` runtime type test, outside the
// `if`/`and` positions that thread a smart-cast refinement.
func (fc *funcCtx) lowerIs(n *ast.Is) gir.Expr {
	x := fc.lower(n.X)
	target := fc.resolveSmartCastType(n.Type)
	if isPrimitive(x.ExprType()) != isPrimitive(target) {
		fc.errorf(errors.TYP005, n.Pos, "'is' check between incompatible type families")
	}
	return gir.NewBinary(toPos(n.Pos), gir.Bool(), "is", x, gir.NewTypeGet(toPos(n.Pos), &gir.ReifiedType{Of: target}, adtDeclOf(target), nil), "")
}

// lowerAs lowers `x as T`, choosing the cast kind by the source and
// target type shapes.
func (fc *funcCtx) lowerAs(n *ast.As) gir.Expr {
	x := fc.lower(n.X)
	target := fc.resolveSmartCastType(n.Type)
	kind := gir.CastBitcast
	switch {
	case isNumeric(x.ExprType()) && isNumeric(target):
		kind = gir.CastNumber
	case isStrongRef(x.ExprType()) && isWeakRefOf(target, x.ExprType()):
		kind = gir.CastStrongToWeak
	case isStrongRef(x.ExprType()) && !isReference(target):
		kind = gir.CastToValue
	case isInterfaceType(fc, target):
		kind = gir.CastToInterface
	}
	var vtable gir.DeclId
	if kind == gir.CastToInterface {
		if src := fc.adtOf(x.ExprType()); src != nil {
			if e, ok := fc.c.Iface.Lookup(adtDeclOf(target), src.Id); ok {
				vtable = e.Impl
			}
		}
	}
	return gir.NewCast(toPos(n.Pos), target, kind, x, vtable)
}

func isStrongRef(t gir.Type) bool { _, ok := t.(*gir.StrongRef); return ok }
func isReference(t gir.Type) bool {
	switch t.(type) {
	case *gir.StrongRef, *gir.WeakRef:
		return true
	}
	return false
}
func isWeakRefOf(target, src gir.Type) bool {
	w, ok := target.(*gir.WeakRef)
	if !ok {
		return false
	}
	sr, ok := src.(*gir.StrongRef)
	return ok && gir.Equal(w.Elem, sr.Elem)
}
func isInterfaceType(fc *funcCtx, t gir.Type) bool {
	adt := fc.adtOf(t)
	return adt != nil && adt.Kind == gir.ADTInterface
}

// lowerWhen lowers a `when subject { pattern -> body; ...; else -> e }`
// expression into a gir.Switch, the single-level simplification of
// the teacher's internal/dtree decision-tree matching: Gelix patterns
// are either an `is T` enum-case test or a literal equality, with no
// nested sub-patterns to compile a matrix for.
func (fc *funcCtx) lowerWhen(n *ast.When) gir.Expr {
	subject := fc.lower(n.Subject)
	var cases []gir.SwitchCase
	var def gir.Expr
	var phi gir.Type

	for _, arm := range n.Arms {
		if arm.Pattern == nil {
			def = fc.lower(arm.Body)
			phi = unifyPhi(fc, n.Pos, phi, def.ExprType())
			continue
		}
		var match gir.Expr
		var restore func()
		if is, ok := arm.Pattern.(*ast.Is); ok {
			target := fc.resolveSmartCastType(is.Type)
			match = gir.NewTypeGet(toPos(arm.Pos), &gir.ReifiedType{Of: target}, adtDeclOf(target), nil)
			if ident, ok := is.X.(*ast.Ident); ok {
				restore = fc.pushSmartCast(ident.Name, target)
			}
		} else {
			match = fc.lower(arm.Pattern)
		}
		body := fc.lower(arm.Body)
		if restore != nil {
			restore()
		}
		phi = unifyPhi(fc, arm.Pos, phi, body.ExprType())
		cases = append(cases, gir.SwitchCase{Match: match, Body: body})
	}
	if phi == nil {
		phi = gir.Unit()
	}
	return gir.NewSwitch(toPos(n.Pos), phi, subject, cases, def)
}

func unifyPhi(fc *funcCtx, pos ast.Pos, phi, next gir.Type) gir.Type {
	if phi == nil {
		return next
	}
	if !gir.Equal(phi, next) {
		fc.errorf(errors.TYP009, pos, "branch types do not unify: %s vs %s", phi, next)
	}
	return phi
}

// lowerFor lowers `for cond body else?` as a while-style loop. Its
// phi type is Else's type when Else is present and Unit otherwise; the
// body's type and the values carried by Break are not checked against
// it.
func (fc *funcCtx) lowerFor(n *ast.For) gir.Expr {
	cond := fc.lower(n.Cond)
	if !gir.Equal(cond.ExprType(), gir.Bool()) {
		fc.errorf(errors.TYP003, n.Cond.Position(), "for condition must be bool")
	}
	fc.loopDepth++
	fc.pushScope()
	body := fc.lower(n.Body)
	fc.popScope()
	fc.loopDepth--

	var els gir.Expr
	phi := gir.Unit()
	if n.Else != nil {
		els = fc.lower(n.Else)
		phi = els.ExprType()
	}
	return gir.NewLoop(toPos(n.Pos), phi, cond, body, els)
}

func (fc *funcCtx) lowerReturn(n *ast.Return) gir.Expr {
	var value gir.Expr
	if n.Value != nil {
		value = fc.lower(n.Value)
	} else {
		value = gir.NewLiteral(toPos(n.Pos), gir.Unit(), nil)
	}
	if fc.fn != nil && fc.fn.RetType != nil && !gir.Equal(fc.fn.RetType, value.ExprType()) {
		fc.errorf(errors.TYP006, n.Pos, "return type mismatch: expected %s, got %s", fc.fn.RetType, value.ExprType())
	}
	if fc.uninit != nil && len(fc.uninit) > 0 {
		fc.errorf(errors.INI001, n.Pos, "not all fields are initialized before return")
	}
	return gir.NewReturn(toPos(n.Pos), value)
}

func (fc *funcCtx) lowerBreak(n *ast.Break) gir.Expr {
	if fc.loopDepth == 0 {
		fc.errorf(errors.SHP004, n.Pos, "'break' used outside a loop")
	}
	var value gir.Expr
	if n.Value != nil {
		value = fc.lower(n.Value)
	}
	return gir.NewBreak(toPos(n.Pos), value)
}

func (fc *funcCtx) lowerBlock(n *ast.Block) gir.Expr {
	fc.pushScope()
	defer fc.popScope()
	exprs := make([]gir.Expr, len(n.Exprs))
	var typ gir.Type = gir.Unit()
	for i, e := range n.Exprs {
		exprs[i] = fc.lower(e)
		typ = exprs[i].ExprType()
	}
	return gir.NewBlock(toPos(n.Pos), typ, exprs)
}

func (fc *funcCtx) lowerLocalBinding(n *ast.LocalBinding) gir.Expr {
	init := fc.lower(n.Init)
	typ := init.ExprType()
	if n.Type != nil {
		typ = fc.resolveSmartCastType(n.Type)
		if !gir.Equal(typ, init.ExprType()) {
			fc.errorf(errors.TYP004, n.Pos, "cannot initialize %q of type %s with value of type %s", n.Name, typ, init.ExprType())
		}
	}
	id := fc.declare(n.Name, typ, n.Mutable)
	return gir.NewStore(toPos(n.Pos), gir.Unit(), id, init)
}

func (fc *funcCtx) lowerArray(n *ast.Array) gir.Expr {
	elems := make([]gir.Expr, len(n.Elems))
	var elemType gir.Type = gir.Any()
	for i, e := range n.Elems {
		elems[i] = fc.lower(e)
		if i == 0 {
			elemType = elems[i].ExprType()
		}
	}
	arrId, ok := fc.c.Module.Lookup("Array")
	if !ok {
		fc.errorf(errors.TYP007, n.Pos, "no Array type in scope for array literal")
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	typ := &gir.StrongRef{Elem: &gir.AdtType{Inst: gir.Instance{Decl: arrId, TypeArgs: []gir.Type{elemType}}}}
	return gir.NewAllocate(toPos(n.Pos), typ, arrId, []gir.Type{elemType}, elems)
}
