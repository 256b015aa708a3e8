package lower

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

// lowerGet lowers `object.name` as a field read. A method-valued Get
// (no call around it) is not a supported first-class value per
// SPEC_FULL §8's visibility-failure scenario family -- TYP008 covers
// both "members cannot be called directly" and "members cannot be
// referenced without a call".
func (fc *funcCtx) lowerGet(n *ast.Get) gir.Expr {
	obj := fc.lower(n.Object)
	adt := fc.adtOf(obj.ExprType())
	if adt == nil {
		fc.errorf(errors.TYP007, n.Pos, "cannot access %q on a non-ADT value", n.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	field := findField(adt, n.Name)
	if field == nil {
		if _, ok := adt.MethodNamed(fc.c.Module, n.Name); ok {
			fc.errorf(errors.TYP008, n.Pos, "%q is a method and cannot be referenced without a call", n.Name)
		} else {
			fc.errorf(errors.TYP007, n.Pos, "%s has no field %q", adt.Name, n.Name)
		}
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	if err := fc.checkFieldVisible(n.Pos, adt, field); err != "" {
		fc.errorf(err, n.Pos, "field %q of %s is not visible here", n.Name, adt.Name)
	}
	return gir.NewFieldLoad(toPos(n.Pos), field.Type, obj, n.Name)
}

// lowerSet lowers `object.name = value` as a field write. When Object
// is literally `this` inside a construct method, the field is cleared
// from the uninitialized_this_members set -- the single point where
// "is this actually self?" is checked per SPEC_FULL's initialization
// rule, mirroring how the field gets recorded as uninitialized in
// newFuncContext (scope.go).
func (fc *funcCtx) lowerSet(n *ast.Set) gir.Expr {
	obj := fc.lower(n.Object)
	value := fc.lower(n.Value)
	adt := fc.adtOf(obj.ExprType())
	if adt == nil {
		fc.errorf(errors.TYP007, n.Pos, "cannot assign %q on a non-ADT value", n.Name)
		return gir.NewFieldStore(toPos(n.Pos), gir.Unit(), obj, n.Name, value)
	}
	field := findField(adt, n.Name)
	if field == nil {
		fc.errorf(errors.TYP007, n.Pos, "%s has no field %q", adt.Name, n.Name)
		return gir.NewFieldStore(toPos(n.Pos), gir.Unit(), obj, n.Name, value)
	}
	isSelf := false
	if ident, ok := n.Object.(*ast.Ident); ok && ident.Name == "this" {
		isSelf = true
	}
	if !field.Mutable && !(isSelf && fc.uninit != nil && fc.uninit[n.Name]) {
		fc.errorf(errors.INI003, n.Pos, "field %q is immutable", n.Name)
	}
	if !gir.Equal(field.Type, value.ExprType()) {
		fc.errorf(errors.TYP004, n.Pos, "cannot assign %s to field %q of type %s", value.ExprType(), n.Name, field.Type)
	}
	if isSelf && fc.uninit != nil {
		delete(fc.uninit, n.Name)
	}
	return gir.NewFieldStore(toPos(n.Pos), field.Type, obj, n.Name, value)
}

func (fc *funcCtx) adtOf(t gir.Type) *gir.ADT {
	id := adtDeclOf(t)
	if id == "" {
		return nil
	}
	decl, ok := fc.c.Module.Decl(id)
	if !ok || decl.ADT == nil {
		return nil
	}
	return decl.ADT
}

func (fc *funcCtx) checkFieldVisible(pos ast.Pos, adt *gir.ADT, field *gir.Field) string {
	if field.Visibility == gir.VisPrivate && fc.thisADT != adt {
		return errors.VIS001
	}
	return ""
}

// lowerIndexGet lowers `object[index]` against an array/indexable
// ADT's well-known `get` method.
func (fc *funcCtx) lowerIndexGet(n *ast.IndexGet) gir.Expr {
	obj := fc.lower(n.Object)
	idx := fc.lower(n.Index)
	adt := fc.adtOf(obj.ExprType())
	if adt == nil {
		fc.errorf(errors.TYP007, n.Pos, "cannot index a non-ADT value")
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	fn, ok := adt.MethodNamed(fc.c.Module, "get")
	if !ok {
		fc.errorf(errors.TYP007, n.Pos, "%s has no indexer", adt.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	return gir.NewCall(toPos(n.Pos), fn.RetType, fn.Id, nil, obj, []gir.Expr{idx})
}

// lowerIndexSet lowers `object[index] = value` against a `set` method.
func (fc *funcCtx) lowerIndexSet(n *ast.IndexSet) gir.Expr {
	obj := fc.lower(n.Object)
	idx := fc.lower(n.Index)
	value := fc.lower(n.Value)
	adt := fc.adtOf(obj.ExprType())
	if adt == nil {
		fc.errorf(errors.TYP007, n.Pos, "cannot index-assign a non-ADT value")
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	fn, ok := adt.MethodNamed(fc.c.Module, "set")
	if !ok {
		fc.errorf(errors.TYP007, n.Pos, "%s has no indexed setter", adt.Name)
		return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
	}
	return gir.NewCall(toPos(n.Pos), fn.RetType, fn.Id, nil, obj, []gir.Expr{idx, value})
}
