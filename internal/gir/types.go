// Package gir is the typed intermediate representation every pass from
// declaration resolution onward builds and consumes: a type algebra, a
// declaration arena keyed by stable IDs, and an expression tree with
// explicit phi types on every control-flow node. It plays the role the
// teacher's internal/core and internal/types play for AILANG's
// Hindley-Milner system, but the algebra itself is nominal (classes,
// interfaces, enums) rather than row-polymorphic, and there is no
// unification pass: types are assigned bottom-up during lowering.
package gir

import "strings"

// Type is the base interface for every GIR type. Unlike the teacher's
// types.Type (which carries unification metavariables), a gir.Type is
// always fully resolved -- GIR construction has no "infer me later"
// placeholder.
type Type interface {
	isType()
	String() string
}

// Primitive is a built-in scalar type: the fixed-width integers,
// floats, bool, char, Str, Any, Unit, Never.
type Primitive struct {
	Name string
}

func (*Primitive) isType()          {}
func (p *Primitive) String() string { return p.Name }

var primitiveNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"f32": true, "f64": true,
	"bool": true, "char": true, "Str": true,
	"Any": true, "Unit": true, "Never": true,
}

// IsPrimitiveName reports whether name denotes a built-in scalar type
// rather than a user-declared ADT.
func IsPrimitiveName(name string) bool { return primitiveNames[name] }

// Instance is a declaration applied to a (possibly empty) list of type
// arguments -- the thing internal/generics walks to build its
// monomorphization worklist.
type Instance struct {
	Decl     DeclId
	TypeArgs []Type
}

func (i Instance) String() string {
	if len(i.TypeArgs) == 0 {
		return string(i.Decl)
	}
	parts := make([]string, len(i.TypeArgs))
	for idx, t := range i.TypeArgs {
		parts[idx] = t.String()
	}
	return string(i.Decl) + "<" + strings.Join(parts, ", ") + ">"
}

// AdtType is a reference to a declared class/interface/enum/enum-case,
// instantiated with concrete type arguments.
type AdtType struct {
	Inst Instance
}

func (*AdtType) isType()          {}
func (a *AdtType) String() string { return a.Inst.String() }

// StrongRef is an owning reference to a reference-type value.
type StrongRef struct{ Elem Type }

func (*StrongRef) isType()          {}
func (s *StrongRef) String() string { return "&" + s.Elem.String() }

// WeakRef is a non-owning reference that does not keep its referent
// alive; dereferencing a dead weak ref is a runtime failure the
// backend is responsible for, not this front end.
type WeakRef struct{ Elem Type }

func (*WeakRef) isType()          {}
func (w *WeakRef) String() string { return "~" + w.Elem.String() }

// FunctionType is a plain (non-closure) function signature: a
// top-level or static function, or a method once bound to its
// receiver's type.
type FunctionType struct {
	Params []Type
	Ret    Type
}

func (*FunctionType) isType() {}
func (f *FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Ret.String()
}

// ClosureType is a function value plus the captured-environment record
// it closes over. Two closures with identical parameter/return shapes
// but different captures are different ClosureTypes, because the
// captured record is part of the call ABI (it rides as the closure's
// synthesized first argument).
type ClosureType struct {
	Params   []Type
	Ret      Type
	Captured *ClosureCapturedType
}

func (*ClosureType) isType() {}
func (c *ClosureType) String() string {
	parts := make([]string, len(c.Params))
	for i, p := range c.Params {
		parts[i] = p.String()
	}
	return "closure(" + strings.Join(parts, ", ") + ") -> " + c.Ret.String()
}

// CapturedField is one variable a closure lifts out of its enclosing
// scope into its captured-environment record.
type CapturedField struct {
	Name string
	Type Type
}

// ClosureCapturedType is the synthesized struct type carrying a
// closure's captured outer-scope variables. internal/lower builds one
// per closure literal during capture analysis; internal/generics never
// monomorphizes it directly since it has no type parameters of its
// own (captured types are already concrete at the closure's
// allocation site).
type ClosureCapturedType struct {
	Fields []CapturedField
}

func (*ClosureCapturedType) isType() {}
func (c *ClosureCapturedType) String() string {
	parts := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "ClosureCaptured{" + strings.Join(parts, ", ") + "}"
}

// ReifiedType is the type of a first-class `Type<T>` value produced by
// a TypeGet expression (e.g. passing a class's runtime type descriptor
// as an ordinary argument).
type ReifiedType struct{ Of Type }

func (*ReifiedType) isType()          {}
func (r *ReifiedType) String() string { return "Type<" + r.Of.String() + ">" }

// TypeParamRef is an unresolved reference to one of the enclosing
// declaration's own type parameters -- the identity type argument used
// inside a generic declaration's own body, before instantiation
// substitutes a concrete Type in its place.
type TypeParamRef struct{ Name string }

func (*TypeParamRef) isType()          {}
func (t *TypeParamRef) String() string { return t.Name }

// Substitute recursively replaces every TypeParamRef named in env with
// its bound concrete type. This is the core operation
// internal/generics performs when specializing a generic declaration
// for one Instance on its monomorphization worklist.
func Substitute(t Type, env map[string]Type) Type {
	switch v := t.(type) {
	case *TypeParamRef:
		if repl, ok := env[v.Name]; ok {
			return repl
		}
		return v
	case *StrongRef:
		return &StrongRef{Elem: Substitute(v.Elem, env)}
	case *WeakRef:
		return &WeakRef{Elem: Substitute(v.Elem, env)}
	case *AdtType:
		args := make([]Type, len(v.Inst.TypeArgs))
		for i, a := range v.Inst.TypeArgs {
			args[i] = Substitute(a, env)
		}
		return &AdtType{Inst: Instance{Decl: v.Inst.Decl, TypeArgs: args}}
	case *FunctionType:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = Substitute(p, env)
		}
		return &FunctionType{Params: params, Ret: Substitute(v.Ret, env)}
	case *ClosureType:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = Substitute(p, env)
		}
		return &ClosureType{Params: params, Ret: Substitute(v.Ret, env), Captured: v.Captured}
	case *ReifiedType:
		return &ReifiedType{Of: Substitute(v.Of, env)}
	default:
		return t
	}
}

// Equal reports whether two types denote the same GIR type, used by
// phi-type unification and argument-type checking in internal/lower.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case *Primitive:
		bv, ok := b.(*Primitive)
		return ok && av.Name == bv.Name
	case *AdtType:
		bv, ok := b.(*AdtType)
		if !ok || av.Inst.Decl != bv.Inst.Decl || len(av.Inst.TypeArgs) != len(bv.Inst.TypeArgs) {
			return false
		}
		for i := range av.Inst.TypeArgs {
			if !Equal(av.Inst.TypeArgs[i], bv.Inst.TypeArgs[i]) {
				return false
			}
		}
		return true
	case *StrongRef:
		bv, ok := b.(*StrongRef)
		return ok && Equal(av.Elem, bv.Elem)
	case *WeakRef:
		bv, ok := b.(*WeakRef)
		return ok && Equal(av.Elem, bv.Elem)
	case *TypeParamRef:
		bv, ok := b.(*TypeParamRef)
		return ok && av.Name == bv.Name
	case *ReifiedType:
		bv, ok := b.(*ReifiedType)
		return ok && Equal(av.Of, bv.Of)
	default:
		return a.String() == b.String()
	}
}

// Any is the top type every reference type widens to.
func Any() Type { return &Primitive{Name: "Any"} }

// Unit is the value-less result type of statements-as-expressions.
func Unit() Type { return &Primitive{Name: "Unit"} }

// Never is the result type of an expression that never completes
// normally (return, break, an unconditional panic path).
func Never() Type { return &Primitive{Name: "Never"} }

// Bool is the condition/comparison result type.
func Bool() Type { return &Primitive{Name: "bool"} }
