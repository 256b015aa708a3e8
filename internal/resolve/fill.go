package resolve

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

// fillAll runs pass (b) in two sweeps: first every ADT/top-level
// function gets its fields, parameters, and synthesized methods
// resolved, then every impl block is checked for interface
// conformance. Impl blocks run last because conformance checking needs
// the interface's own (possibly forward-declared) method set already
// filled.
func (c *Context) fillAll() {
	for _, f := range c.files {
		for idx, d := range f.Decls {
			switch n := d.(type) {
			case *ast.FuncDecl:
				c.fillTopFunc(f, n)
			case *ast.ClassDecl:
				c.fillClass(f, n, idx)
			case *ast.InterfaceDecl:
				c.fillInterface(f, n, idx)
			case *ast.EnumDecl:
				c.fillEnum(f, n, idx)
			}
		}
	}
	for _, f := range c.files {
		for idx, d := range f.Decls {
			if n, ok := d.(*ast.ImplDecl); ok {
				c.fillImpl(f, n, idx)
			}
		}
	}
}

func (c *Context) fillTopFunc(f *ast.File, n *ast.FuncDecl) {
	id, ok := c.Module.ByName[n.Name]
	if !ok {
		return
	}
	decl, ok := c.Module.Decl(id)
	if !ok || decl.Func == nil {
		return
	}
	c.fillFuncSignature(decl.Func, n, nil)
	if n.Body != nil {
		c.Bodies[id] = n.Body
	}
}

// fillFuncSignature resolves a function's parameter and return types
// against typeParams (the enclosing declaration's own type parameters,
// nil for a free function).
func (c *Context) fillFuncSignature(fn *gir.Function, n *ast.FuncDecl, typeParams []string) {
	fn.Params = make([]*gir.Param, len(n.Params))
	for i, p := range n.Params {
		fn.Params[i] = &gir.Param{
			Name:     p.Name,
			Type:     c.resolveType(p.Type, typeParams),
			Variadic: p.Variadic,
		}
	}
	fn.RetType = c.resolveType(n.RetType, typeParams)
	fn.Abstract = n.Body == nil
}

func (c *Context) fillClass(f *ast.File, n *ast.ClassDecl, idx int) {
	id, ok := c.Module.ByName[n.Name]
	if !ok {
		return
	}
	decl, _ := c.Module.Decl(id)
	adt := decl.ADT
	adt.TypeParams = typeParamNames(n.TypeParams)

	c.fillMembers(f, adt, n.Members, idx)

	if !adt.Value {
		c.synthesizeClassMethods(adt)
	}
}

func (c *Context) fillInterface(f *ast.File, n *ast.InterfaceDecl, idx int) {
	id, ok := c.Module.ByName[n.Name]
	if !ok {
		return
	}
	decl, _ := c.Module.Decl(id)
	adt := decl.ADT
	adt.TypeParams = typeParamNames(n.TypeParams)
	c.fillMembers(f, adt, n.Members, idx)
}

func (c *Context) fillMembers(f *ast.File, adt *gir.ADT, members []ast.Decl, idx int) {
	for mi, m := range members {
		switch mn := m.(type) {
		case *ast.FieldDecl:
			adt.Fields = append(adt.Fields, &gir.Field{
				Name:       mn.Name,
				Type:       c.resolveType(mn.Type, adt.TypeParams),
				Mutable:    mn.Mods.Var,
				Visibility: visibilityOf(mn.Mods),
			})
			if mn.Init != nil {
				if c.FieldInits[adt.Id] == nil {
					c.FieldInits[adt.Id] = map[string]ast.Expr{}
				}
				c.FieldInits[adt.Id][mn.Name] = mn.Init
			}
		case *ast.FuncDecl:
			methodId := gir.NewDeclId(f.Path, mn.Pos.Offset, "method", idx*10000+mi)
			duplicate := false
			for _, existing := range adt.Methods {
				if d, ok := c.Module.Decl(existing); ok && d.Func != nil && d.Func.Name == mn.Name {
					c.errorf(errors.DCL001, "declare", mn.Pos, "duplicate method %q on %q", mn.Name, adt.Name)
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			fn := &gir.Function{
				Id:         methodId,
				Name:       mn.Name,
				Module:     c.Module.Path,
				Visibility: visibilityOf(mn.Mods),
				IsMethod:   true,
				Receiver:   adt.Id,
				Locals:     map[gir.LocalId]*gir.LocalVariable{},
			}
			c.fillFuncSignature(fn, mn, adt.TypeParams)
			c.Module.AddDecl(&gir.Declaration{Id: methodId, Kind: "function", Func: fn})
			adt.Methods = append(adt.Methods, methodId)
			if mn.Body != nil {
				c.Bodies[methodId] = mn.Body
			}
		}
	}
}

func (c *Context) typeParamRefs(typeParams []string) []gir.Type {
	if len(typeParams) == 0 {
		return nil
	}
	out := make([]gir.Type, len(typeParams))
	for i, tp := range typeParams {
		out[i] = &gir.TypeParamRef{Name: tp}
	}
	return out
}

// synthesizeClassMethods attaches the three methods every
// reference-layout class gets implicitly: a constructor
// (new-instance) and the two reference-counting destructors
// (free-sr/free-wr), per SPEC_FULL's class lifecycle. Their bodies
// stay nil -- producing the actual allocation/deallocation code is a
// backend concern outside this front end's scope; GIR only needs their
// DeclIds and signatures to exist so Allocate/Cast nodes can reference
// them.
func (c *Context) synthesizeClassMethods(adt *gir.ADT) {
	selfType := &gir.StrongRef{Elem: &gir.AdtType{Inst: gir.Instance{Decl: adt.Id, TypeArgs: c.typeParamRefs(adt.TypeParams)}}}

	ctorId := gir.NewSyntheticDeclId(adt.Id, "new-instance")
	ctorParams := make([]*gir.Param, 0, len(adt.Fields))
	for _, field := range adt.Fields {
		ctorParams = append(ctorParams, &gir.Param{Name: field.Name, Type: field.Type})
	}
	ctor := &gir.Function{
		Id: ctorId, Name: "new-instance", Module: c.Module.Path,
		Visibility: adt.Visibility, TypeParams: adt.TypeParams,
		Params: ctorParams, RetType: selfType, Synthetic: true,
		Receiver: adt.Id, IsMethod: true,
		Locals: map[gir.LocalId]*gir.LocalVariable{},
	}
	c.Module.AddDecl(&gir.Declaration{Id: ctorId, Kind: "function", Func: ctor})
	adt.Methods = append(adt.Methods, ctorId)

	for _, suffix := range []string{"free-sr", "free-wr"} {
		id := gir.NewSyntheticDeclId(adt.Id, suffix)
		fn := &gir.Function{
			Id: id, Name: suffix, Module: c.Module.Path,
			Visibility: gir.VisModule, RetType: gir.Unit(), Synthetic: true,
			Receiver: adt.Id, IsMethod: true,
			Locals: map[gir.LocalId]*gir.LocalVariable{},
		}
		c.Module.AddDecl(&gir.Declaration{Id: id, Kind: "function", Func: fn})
		adt.Methods = append(adt.Methods, id)
	}
}

func (c *Context) fillEnum(f *ast.File, n *ast.EnumDecl, idx int) {
	enumId, ok := c.Module.ByName[n.Name]
	if !ok {
		return
	}
	enumDecl, _ := c.Module.Decl(enumId)
	c.fillMembers(f, enumDecl.ADT, n.Members, idx)

	for ci, cs := range n.Cases {
		caseId, ok := c.Module.ByName[cs.Name]
		if !ok {
			continue
		}
		caseDecl, _ := c.Module.Decl(caseId)
		caseADT := caseDecl.ADT
		caseADT.TypeParams = enumDecl.ADT.TypeParams

		ctorParams := make([]*gir.Param, len(cs.Params))
		for pi, p := range cs.Params {
			caseADT.Fields = append(caseADT.Fields, &gir.Field{
				Name: p.Name, Type: c.resolveType(p.Type, caseADT.TypeParams), Visibility: gir.VisPublic,
			})
			ctorParams[pi] = &gir.Param{Name: p.Name, Type: c.resolveType(p.Type, caseADT.TypeParams)}
		}

		ctorId := gir.NewSyntheticDeclId(caseId, "new-instance")
		selfType := &gir.StrongRef{Elem: &gir.AdtType{Inst: gir.Instance{Decl: caseId, TypeArgs: c.typeParamRefs(caseADT.TypeParams)}}}
		ctor := &gir.Function{
			Id: ctorId, Name: "new-instance", Module: c.Module.Path,
			Visibility: caseADT.Visibility, TypeParams: caseADT.TypeParams,
			Params: ctorParams, RetType: selfType, Synthetic: true,
			Receiver: caseId, IsMethod: true,
			Locals: map[gir.LocalId]*gir.LocalVariable{},
		}
		c.Module.AddDecl(&gir.Declaration{Id: ctorId, Kind: "function", Func: ctor})
		caseADT.Methods = append(caseADT.Methods, ctorId)
		_ = ci
	}
}

func (c *Context) fillImpl(f *ast.File, n *ast.ImplDecl, idx int) {
	ifaceId, ok := c.Module.Lookup(n.Iface.Name)
	if !ok {
		c.errorf(errors.RSV001, "fill", n.Iface.Pos, "unresolved interface %q", n.Iface.Name)
		return
	}
	targetId, ok := c.Module.Lookup(n.Target.Name)
	if !ok {
		c.errorf(errors.RSV001, "fill", n.Target.Pos, "unresolved target type %q", n.Target.Name)
		return
	}
	ifaceDecl, _ := c.Module.Decl(ifaceId)
	targetDecl, _ := c.Module.Decl(targetId)
	if ifaceDecl.ADT == nil || ifaceDecl.ADT.Kind != gir.ADTInterface {
		c.errorf(errors.RSV003, "fill", n.Iface.Pos, "%q is not an interface", n.Iface.Name)
		return
	}
	if c.IfaceBuilder.Implements(ifaceId, targetId) {
		c.errorf(errors.DCL001, "declare", n.Pos, "duplicate impl of %q for %q", n.Iface.Name, n.Target.Name)
		return
	}

	implId := gir.NewDeclId(f.Path, n.Pos.Offset, "impl", idx)
	methods := map[string]gir.DeclId{}
	for mi, mn := range n.Methods {
		methodId := gir.NewDeclId(f.Path, mn.Pos.Offset, "implmethod", idx*10000+mi)
		fn := &gir.Function{
			Id: methodId, Name: mn.Name, Module: c.Module.Path,
			Visibility: gir.VisPublic, IsMethod: true, Receiver: targetId,
			Locals: map[gir.LocalId]*gir.LocalVariable{},
		}
		c.fillFuncSignature(fn, mn, targetDecl.ADT.TypeParams)
		c.Module.AddDecl(&gir.Declaration{Id: methodId, Kind: "function", Func: fn})
		targetDecl.ADT.Methods = append(targetDecl.ADT.Methods, methodId)
		if mn.Body != nil {
			c.Bodies[methodId] = mn.Body
		}
		methods[mn.Name] = methodId
	}

	for _, abstractId := range ifaceDecl.ADT.Methods {
		abstractDecl, _ := c.Module.Decl(abstractId)
		if abstractDecl.Func == nil {
			continue
		}
		implMethodId, ok := methods[abstractDecl.Func.Name]
		if !ok {
			c.errorf(errors.RSV003, "fill", n.Pos, "impl of %q for %q is missing method %q",
				n.Iface.Name, n.Target.Name, abstractDecl.Func.Name)
			continue
		}
		implMethodDecl, _ := c.Module.Decl(implMethodId)
		if len(implMethodDecl.Func.Params) != len(abstractDecl.Func.Params) {
			c.errorf(errors.RSV004, "fill", n.Pos, "method %q on impl of %q for %q has %d params, interface declares %d",
				abstractDecl.Func.Name, n.Iface.Name, n.Target.Name, len(implMethodDecl.Func.Params), len(abstractDecl.Func.Params))
		}
	}

	c.Module.AddDecl(&gir.Declaration{Id: implId, Kind: "impl", Impl: &gir.ImplBlock{
		Id: implId, Iface: ifaceId, Target: targetId, Methods: methods,
	}})
	c.IfaceBuilder.Add(ifaceId, targetId, implId, methods)
}
