package gir

import "github.com/gelixlang/gelix/internal/sid"

// DeclId is a stable identifier for a declaration, derived the same
// way the teacher's internal/sid derives identity for its surface/core
// nodes: a hash of (canonical file path, source span, node kind, child
// path), not a raw arena index. That means a declaration keeps its
// identity across a second resolution pass over the same source (an
// incremental rebuild, an IDE re-check) even though the arena itself
// is rebuilt from scratch each time. Synthetic declarations minted
// during the fill pass (new-instance, free-sr, free-wr, enum-case
// constructors) have no direct source span of their own, so they are
// derived from their owner's DeclId plus a suffix instead (see
// NewSyntheticDeclId).
type DeclId = sid.SID

// LocalId is a stable identifier for a local variable or parameter
// within one function body, scoped to that function's own arena
// rather than the module's.
type LocalId = sid.SID

// NewDeclId derives a DeclId from a source position. kind distinguishes
// node categories ("adt", "func", "impl", "enumcase") that could
// otherwise collide at the same span; idx disambiguates declarations
// that share a position can't happen in practice, but multiple
// declarations in one file share canonicalPath so idx is the file's
// top-level declaration index.
func NewDeclId(file string, offset int, kind string, idx int) DeclId {
	return sid.NewSID(file, offset, offset, kind, []int{idx})
}

// NewSyntheticDeclId derives a DeclId for a declaration that the fill
// pass synthesizes rather than reads from source -- a constructor, a
// destructor, an enum-case factory. Deriving it from the owner's own
// DeclId keeps it stable across re-resolution without needing a
// source span of its own.
func NewSyntheticDeclId(owner DeclId, suffix string) DeclId {
	return sid.NewSID(string(owner)+"#"+suffix, 0, 0, "synthetic", nil)
}

// Visibility is a declaration's accessibility, checked during fill and
// again (for call/field-access targets) during lowering.
type Visibility int

const (
	VisPrivate Visibility = iota
	VisModule
	VisPublic
)

func (v Visibility) String() string {
	switch v {
	case VisPrivate:
		return "private"
	case VisModule:
		return "module"
	case VisPublic:
		return "public"
	default:
		return "unknown"
	}
}

// ADTKind distinguishes the four declaration shapes SPEC_FULL's data
// model treats as ADTs: classes and interfaces are reference types by
// default (Modifiers.Value switches a class to value layout); enums
// are a closed sum of their cases; an EnumCase is itself an ADT (it
// can carry fields and be the target of an impl block) whose
// EnumParent names the owning enum.
type ADTKind int

const (
	ADTClass ADTKind = iota
	ADTInterface
	ADTEnum
	ADTEnumCase
)

func (k ADTKind) String() string {
	switch k {
	case ADTClass:
		return "class"
	case ADTInterface:
		return "interface"
	case ADTEnum:
		return "enum"
	case ADTEnumCase:
		return "enum-case"
	default:
		return "unknown"
	}
}

// Field is one field of a class/interface/enum-case. Init is the
// lowered default-value expression, nil when the field has none (it
// must then be set by the constructor before use, tracked by
// internal/lower's uninitialized_this_members analysis).
type Field struct {
	Name       string
	Type       Type
	Mutable    bool
	Visibility Visibility
	Init       Expr
}

// ADT is a declared class, interface, enum, or enum-case. Type
// parameters are carried by name; internal/generics substitutes them
// with concrete Types when it specializes an Instance.
type ADT struct {
	Id         DeclId
	Kind       ADTKind
	Name       string
	Module     string
	Visibility Visibility
	TypeParams []string
	Value      bool // value-type layout instead of reference-type
	Fields     []*Field
	Methods    []DeclId // gir.Function decls, in declaration order

	// EnumParent is the owning enum's DeclId when Kind == ADTEnumCase,
	// "" otherwise.
	EnumParent DeclId
	// Cases holds the EnumCase DeclIds when Kind == ADTEnum.
	Cases []DeclId
}

// MethodNamed looks up one of the ADT's own methods by name against a
// module's declaration arena.
func (a *ADT) MethodNamed(m *Module, name string) (*Function, bool) {
	for _, id := range a.Methods {
		if d, ok := m.Decl(id); ok && d.Func != nil && d.Func.Name == name {
			return d.Func, true
		}
	}
	return nil, false
}

// Param is one parameter of a function declaration.
type Param struct {
	Name     string
	Type     Type
	Variadic bool
}

// LocalVariable is one local binding (a `val`/`var`, or a bound
// parameter) inside a function body, recorded in the function's Locals
// map by internal/lower as it walks the body.
type LocalVariable struct {
	Id      LocalId
	Name    string
	Type    Type
	Mutable bool
}

// Function is a declared top-level function or a class/interface/
// enum-case method. Body is nil for an interface's abstract methods,
// an `external` function, and an interface-abstract method stub;
// Synthetic marks a fill-pass-generated constructor/destructor whose
// Body lowering is deferred to the backend (construction/destruction
// semantics are a backend concern per SPEC_FULL's Non-goals -- GIR
// only records that the synthetic method exists and its signature).
type Function struct {
	Id         DeclId
	Name       string
	Module     string
	Visibility Visibility
	TypeParams []string
	Params     []*Param
	RetType    Type
	Body       Expr
	Locals     map[LocalId]*LocalVariable

	IsMethod  bool
	Receiver  DeclId // owning ADT's DeclId, "" if not a method
	Synthetic bool
	Abstract  bool // true for an interface's undefined method
}

// ImplBlock records one `impl Iface<...> for Target<...> { ... }`.
// Method DeclIds point at gir.Function decls (the impl block's own
// function bodies, declared as methods of Target during fill).
type ImplBlock struct {
	Id         DeclId
	Iface      DeclId
	IfaceArgs  []Type
	Target     DeclId
	TargetArgs []Type
	Methods    map[string]DeclId
}

// Declaration is one arena entry. Exactly one of ADT/Func/Impl is set,
// tagged by Kind.
type Declaration struct {
	Id   DeclId
	Kind string // "adt" | "function" | "impl"
	ADT  *ADT
	Func *Function
	Impl *ImplBlock
}

// Module is one compiled module's declaration arena plus its top-level
// name table. It plays the role the teacher's core.Program arena plays
// for AILANG, but keyed by the stable DeclId scheme instead of
// sequential indices.
type Module struct {
	Path    string
	Imports []string

	decls  map[DeclId]*Declaration
	order  []DeclId
	ByName map[string]DeclId
}

// NewModule creates an empty declaration arena for the module at path.
func NewModule(path string) *Module {
	return &Module{
		Path:   path,
		decls:  map[DeclId]*Declaration{},
		ByName: map[string]DeclId{},
	}
}

// AddDecl inserts a declaration into the arena, preserving insertion
// order for deterministic iteration (diagnostics, codegen, dumps).
func (m *Module) AddDecl(d *Declaration) {
	if _, exists := m.decls[d.Id]; !exists {
		m.order = append(m.order, d.Id)
	}
	m.decls[d.Id] = d
}

// Decl looks up a declaration by id.
func (m *Module) Decl(id DeclId) (*Declaration, bool) {
	d, ok := m.decls[id]
	return d, ok
}

// Decls returns every declaration in insertion order.
func (m *Module) Decls() []*Declaration {
	out := make([]*Declaration, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.decls[id])
	}
	return out
}

// Lookup resolves a top-level name (function, class, interface, enum,
// or enum-case) to its DeclId.
func (m *Module) Lookup(name string) (DeclId, bool) {
	id, ok := m.ByName[name]
	return id, ok
}
