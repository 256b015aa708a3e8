package resolve

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

// resolveType turns an ast.TypeRef into a gir.Type. t == nil is
// treated as Unit (an omitted return type). Names matching the
// enclosing declaration's own type parameters resolve to a
// TypeParamRef rather than an ADT lookup, so instantiation can later
// substitute them; typeParams is nil outside of a generic
// class/interface/enum/function.
func (c *Context) resolveType(t *ast.TypeRef, typeParams []string) gir.Type {
	if t == nil {
		return gir.Unit()
	}
	var base gir.Type
	switch {
	case gir.IsPrimitiveName(t.Name):
		base = &gir.Primitive{Name: t.Name}
	case contains(typeParams, t.Name):
		base = &gir.TypeParamRef{Name: t.Name}
	default:
		id, ok := c.Module.Lookup(t.Name)
		if !ok {
			c.errorf(errors.RSV001, "fill", t.Pos, "unresolved type name %q", t.Name)
			base = gir.Any()
			break
		}
		args := make([]gir.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.resolveType(a, typeParams)
		}
		base = &gir.AdtType{Inst: gir.Instance{Decl: id, TypeArgs: args}}
	}
	switch t.Ref {
	case ast.RefStrong:
		return &gir.StrongRef{Elem: base}
	case ast.RefWeak:
		return &gir.WeakRef{Elem: base}
	default:
		return base
	}
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}
