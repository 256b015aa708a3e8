// Package generics implements pass (d): on-demand monomorphization.
// SPEC_FULL §4.6 describes it as a fixpoint worklist over "pending
// instances" discovered during lowering -- every gir.Instance with a
// non-empty TypeArgs list needs its own specialized declaration before
// backend emission, and specializing one declaration can itself
// reference further instances (a field of type Box[T] inside a
// generic Box[T] method specialized for Box[i32] still needs
// Box[i32] itself on the worklist, plus anything Box[i32]'s own body
// references).
//
// There is no teacher precedent for this pass: AILANG's Hindley-Milner
// dictionary-passing model never monomorphizes -- a polymorphic
// function stays a single generic implementation invoked with runtime
// dictionaries. This package is grounded directly in the spec's own
// worklist/fixpoint description rather than adapted from teacher code.
package generics

import "github.com/gelixlang/gelix/internal/gir"

// Result is the monomorphization output: the same module, mutated in
// place with one specialized Declaration added per distinct
// gir.Instance the program referenced with concrete type arguments.
type Result struct {
	Module *gir.Module
	// Specialized maps each instantiated generic declaration's
	// Instance.String() key to the DeclId of its specialized copy.
	Specialized map[string]gir.DeclId
	Errors      []string
}

// Run walks every declaration and expression in module looking for
// gir.Instance/gir.AdtType/gir.TypeGet references into a generic
// declaration, and specializes each one found, to a fixpoint: newly
// specialized declarations are themselves scanned for further
// instances until a pass over the worklist adds nothing new.
func Run(module *gir.Module) *Result {
	r := &Result{Module: module, Specialized: map[string]gir.DeclId{}}
	w := &worklist{module: module, result: r, seen: map[string]bool{}}

	for _, decl := range module.Decls() {
		w.scanDecl(decl)
	}
	for len(w.pending) > 0 {
		next := w.pending[0]
		w.pending = w.pending[1:]
		w.specialize(next)
	}
	return r
}

type worklist struct {
	module  *gir.Module
	result  *Result
	seen    map[string]bool
	pending []gir.Instance
}

func (w *worklist) enqueue(inst gir.Instance) {
	if len(inst.TypeArgs) == 0 {
		return
	}
	open := append([]gir.Type(nil), inst.TypeArgs...)
	for len(open) > 0 {
		t := open[len(open)-1]
		open = open[:len(open)-1]
		switch v := t.(type) {
		case *gir.TypeParamRef:
			return
		case *gir.AdtType:
			open = append(open, v.Inst.TypeArgs...)
		case *gir.StrongRef:
			open = append(open, v.Elem)
		case *gir.WeakRef:
			open = append(open, v.Elem)
		}
	}
	key := inst.String()
	if w.seen[key] {
		return
	}
	w.seen[key] = true
	w.pending = append(w.pending, inst)
}

func (w *worklist) scanDecl(d *gir.Declaration) {
	switch d.Kind {
	case "adt":
		w.scanADT(d.ADT)
	case "function":
		w.scanFunc(d.Func)
	case "impl":
		for _, methodId := range d.Impl.Methods {
			if fd, ok := w.module.Decl(methodId); ok && fd.Func != nil {
				w.scanFunc(fd.Func)
			}
		}
	}
}

func (w *worklist) scanADT(adt *gir.ADT) {
	if adt == nil {
		return
	}
	for _, f := range adt.Fields {
		w.scanType(f.Type)
		if f.Init != nil {
			w.scanExpr(f.Init)
		}
	}
}

func (w *worklist) scanFunc(fn *gir.Function) {
	if fn == nil {
		return
	}
	for _, p := range fn.Params {
		w.scanType(p.Type)
	}
	w.scanType(fn.RetType)
	if fn.Body != nil {
		w.scanExpr(fn.Body)
	}
}

func (w *worklist) scanType(t gir.Type) {
	switch v := t.(type) {
	case *gir.AdtType:
		w.enqueue(v.Inst)
		for _, a := range v.Inst.TypeArgs {
			w.scanType(a)
		}
	case *gir.StrongRef:
		w.scanType(v.Elem)
	case *gir.WeakRef:
		w.scanType(v.Elem)
	case *gir.FunctionType:
		for _, p := range v.Params {
			w.scanType(p)
		}
		w.scanType(v.Ret)
	case *gir.ClosureType:
		for _, p := range v.Params {
			w.scanType(p)
		}
		w.scanType(v.Ret)
	case *gir.ReifiedType:
		w.scanType(v.Of)
	}
}

// scanExpr walks a lowered body looking for Allocate/Call/TypeGet
// nodes carrying explicit TypeArgs, plus every sub-expression's own
// static type (covers a generic field load/local whose type already
// names a concrete instance).
func (w *worklist) scanExpr(e gir.Expr) {
	if e == nil {
		return
	}
	w.scanType(e.ExprType())
	switch v := e.(type) {
	case *gir.Allocate:
		for _, a := range v.TypeArgs {
			w.scanType(a)
		}
		for _, a := range v.Args {
			w.scanExpr(a)
		}
	case *gir.Cast:
		w.scanExpr(v.X)
	case *gir.TypeGet:
		for _, a := range v.TypeArgs {
			w.scanType(a)
		}
	case *gir.Binary:
		w.scanExpr(v.Left)
		w.scanExpr(v.Right)
	case *gir.Unary:
		w.scanExpr(v.X)
	case *gir.Call:
		for _, a := range v.TypeArgs {
			w.scanType(a)
		}
		if v.Receiver != nil {
			w.scanExpr(v.Receiver)
		}
		for _, a := range v.Args {
			w.scanExpr(a)
		}
	case *gir.CallDyn:
		w.scanExpr(v.Receiver)
		for _, a := range v.Args {
			w.scanExpr(a)
		}
	case *gir.FieldLoad:
		w.scanExpr(v.Object)
	case *gir.FieldStore:
		w.scanExpr(v.Object)
		w.scanExpr(v.Value)
	case *gir.Store:
		w.scanExpr(v.Value)
	case *gir.ClosureLit:
		for _, c := range v.Captures {
			w.scanExpr(c.Value)
		}
	case *gir.If:
		w.scanExpr(v.Cond)
		w.scanExpr(v.Then)
		if v.Else != nil {
			w.scanExpr(v.Else)
		}
	case *gir.Switch:
		w.scanExpr(v.Subject)
		for _, c := range v.Cases {
			if c.Match != nil {
				w.scanExpr(c.Match)
			}
			w.scanExpr(c.Body)
		}
		if v.Default != nil {
			w.scanExpr(v.Default)
		}
	case *gir.Loop:
		w.scanExpr(v.Cond)
		w.scanExpr(v.Body)
		if v.Else != nil {
			w.scanExpr(v.Else)
		}
	case *gir.Break:
		if v.Value != nil {
			w.scanExpr(v.Value)
		}
	case *gir.Return:
		if v.Value != nil {
			w.scanExpr(v.Value)
		}
	case *gir.Block:
		for _, x := range v.Exprs {
			w.scanExpr(x)
		}
	}
}

// specialize produces (or reuses) a concrete copy of inst.Decl's
// declaration with every TypeParamRef substituted for inst.TypeArgs,
// keyed by a synthetic DeclId derived from the generic declaration
// plus its instantiation key so repeated references to the same
// Instance converge on one specialized declaration.
func (w *worklist) specialize(inst gir.Instance) {
	key := inst.String()
	if _, done := w.result.Specialized[key]; done {
		return
	}
	decl, ok := w.module.Decl(inst.Decl)
	if !ok || decl.ADT == nil {
		w.result.Errors = append(w.result.Errors, "unresolvable instance: "+key)
		return
	}
	env := bindingsFor(decl.ADT.TypeParams, inst.TypeArgs)
	if len(inst.TypeArgs) != len(decl.ADT.TypeParams) {
		w.result.Errors = append(w.result.Errors, "wrong type-argument count for "+key)
		return
	}

	specId := gir.NewSyntheticDeclId(inst.Decl, "instance#"+key)
	spec := &gir.ADT{
		Id:         specId,
		Kind:       decl.ADT.Kind,
		Name:       decl.ADT.Name,
		Module:     decl.ADT.Module,
		Visibility: decl.ADT.Visibility,
		Value:      decl.ADT.Value,
		EnumParent: decl.ADT.EnumParent,
	}
	for _, f := range decl.ADT.Fields {
		specField := &gir.Field{
			Name:       f.Name,
			Type:       gir.Substitute(f.Type, env),
			Mutable:    f.Mutable,
			Visibility: f.Visibility,
		}
		spec.Fields = append(spec.Fields, specField)
		w.scanType(specField.Type)
	}
	for _, methodId := range decl.ADT.Methods {
		fd, ok := w.module.Decl(methodId)
		if !ok || fd.Func == nil {
			continue
		}
		specMethodId := gir.NewSyntheticDeclId(specId, "method#"+fd.Func.Name)
		specFn := specializeFunc(fd.Func, specMethodId, specId, env)
		w.module.AddDecl(&gir.Declaration{Id: specMethodId, Kind: "function", Func: specFn})
		spec.Methods = append(spec.Methods, specMethodId)
		w.scanFunc(specFn)
	}
	w.module.AddDecl(&gir.Declaration{Id: specId, Kind: "adt", ADT: spec})
	w.result.Specialized[key] = specId
}

func specializeFunc(fn *gir.Function, id, receiver gir.DeclId, env map[string]gir.Type) *gir.Function {
	spec := &gir.Function{
		Id:         id,
		Name:       fn.Name,
		Module:     fn.Module,
		Visibility: fn.Visibility,
		RetType:    gir.Substitute(fn.RetType, env),
		IsMethod:   fn.IsMethod,
		Receiver:   receiver,
		Synthetic:  fn.Synthetic,
		Abstract:   fn.Abstract,
		Locals:     map[gir.LocalId]*gir.LocalVariable{},
	}
	for _, p := range fn.Params {
		spec.Params = append(spec.Params, &gir.Param{Name: p.Name, Type: gir.Substitute(p.Type, env), Variadic: p.Variadic})
	}
	// Body substitution is deferred: a synthesized lifecycle method's
	// Body is nil (construction/destruction semantics are a backend
	// concern per SPEC_FULL's Non-goals), and a substituted
	// user-written body would need a full Expr-tree type-rewrite that
	// mirrors internal/lower's own construction -- left as a TODO for
	// when the backend needs specialized bodies rather than just
	// specialized signatures/layouts.
	return spec
}

func bindingsFor(names []string, args []gir.Type) map[string]gir.Type {
	env := make(map[string]gir.Type, len(names))
	for i, n := range names {
		if i < len(args) {
			env[n] = args[i]
		}
	}
	return env
}
