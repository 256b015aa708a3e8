package resolve

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

func visibilityOf(m ast.Modifiers) gir.Visibility {
	switch {
	case m.Pub:
		return gir.VisPublic
	case m.Priv:
		return gir.VisPrivate
	default:
		return gir.VisModule
	}
}

// declareAll runs pass (a) over every top-level declaration in every
// file. Declaration order across files does not matter: every name
// lands in Module.ByName before pass (b) resolves a single type
// reference.
func (c *Context) declareAll() {
	for _, f := range c.files {
		for idx, d := range f.Decls {
			c.declareTop(f, d, idx)
		}
	}
}

func (c *Context) declareTop(f *ast.File, d ast.Decl, idx int) {
	switch n := d.(type) {
	case *ast.FuncDecl:
		c.declareFunc(f, n, idx)
	case *ast.ClassDecl:
		c.declareADT(f, n.Name, n.Mods, gir.ADTClass, n.Pos, idx)
	case *ast.InterfaceDecl:
		c.declareADT(f, n.Name, n.Mods, gir.ADTInterface, n.Pos, idx)
	case *ast.EnumDecl:
		c.declareEnum(f, n, idx)
	case *ast.ImplDecl:
		// impl blocks have no name of their own; conformance is
		// resolved entirely in fill, once both sides are declared.
	}
}

func (c *Context) declareName(name string, id gir.DeclId, pos ast.Pos) bool {
	if _, exists := c.Module.ByName[name]; exists {
		c.errorf(errors.DCL001, "declare", pos, "duplicate declaration of %q", name)
		return false
	}
	c.Module.ByName[name] = id
	return true
}

func (c *Context) declareFunc(f *ast.File, n *ast.FuncDecl, idx int) gir.DeclId {
	id := gir.NewDeclId(f.Path, n.Pos.Offset, "func", idx)
	if !c.declareName(n.Name, id, n.Pos) {
		return id
	}
	fn := &gir.Function{
		Id:         id,
		Name:       n.Name,
		Module:     c.Module.Path,
		Visibility: visibilityOf(n.Mods),
		TypeParams: typeParamNames(n.TypeParams),
		Locals:     map[gir.LocalId]*gir.LocalVariable{},
	}
	c.Module.AddDecl(&gir.Declaration{Id: id, Kind: "function", Func: fn})
	return id
}

func (c *Context) declareADT(f *ast.File, name string, mods ast.Modifiers, kind gir.ADTKind, pos ast.Pos, idx int) gir.DeclId {
	id := gir.NewDeclId(f.Path, pos.Offset, "adt", idx)
	if !c.declareName(name, id, pos) {
		return id
	}
	a := &gir.ADT{
		Id:         id,
		Kind:       kind,
		Name:       name,
		Module:     c.Module.Path,
		Visibility: visibilityOf(mods),
		Value:      mods.Value,
	}
	c.Module.AddDecl(&gir.Declaration{Id: id, Kind: "adt", ADT: a})
	return id
}

func (c *Context) declareEnum(f *ast.File, n *ast.EnumDecl, idx int) {
	enumId := c.declareADT(f, n.Name, n.Mods, gir.ADTEnum, n.Pos, idx)
	decl, ok := c.Module.Decl(enumId)
	if !ok {
		return
	}
	decl.ADT.TypeParams = typeParamNames(n.TypeParams)
	for ci, cs := range n.Cases {
		caseId := gir.NewDeclId(f.Path, cs.Pos.Offset, "enumcase", idx*10000+ci)
		if !c.declareName(cs.Name, caseId, cs.Pos) {
			continue
		}
		caseADT := &gir.ADT{
			Id:         caseId,
			Kind:       gir.ADTEnumCase,
			Name:       cs.Name,
			Module:     c.Module.Path,
			Visibility: decl.ADT.Visibility,
			EnumParent: enumId,
		}
		c.Module.AddDecl(&gir.Declaration{Id: caseId, Kind: "adt", ADT: caseADT})
		decl.ADT.Cases = append(decl.ADT.Cases, caseId)
	}
}

func typeParamNames(ps []*ast.TypeParam) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
