// Package ast holds the thin abstract syntax tree produced by lowering
// the parser's concrete syntax tree (internal/cst). Offsets are
// preserved from the CST so later passes can still report precise
// diagnostics; the AST itself is the input to GIR construction.
package ast

import "fmt"

// Pos is a source position carried on every AST node.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Node is the base interface implemented by every AST node.
type Node interface {
	Position() Pos
}

// File is one parsed source file.
type File struct {
	Module  string // dotted/slashed module path, "" if absent
	Imports []*Import
	Decls   []Decl
	Path    string
	Pos     Pos
}

func (f *File) Position() Pos { return f.Pos }

// Import is a single import declaration.
type Import struct {
	Path    string
	Symbols []string // empty = whole-module import
	Pos     Pos
}

func (i *Import) Position() Pos { return i.Pos }

// Modifiers captures the modifier keywords attached to a declaration.
type Modifiers struct {
	Pub      bool
	Priv     bool
	Val      bool
	Var      bool
	Value    bool // ADT layout switch: value type instead of reference
	External bool
}

// RefKind distinguishes a plain nominal type from a strong/weak
// reference to one.
type RefKind int

const (
	RefNone RefKind = iota
	RefStrong
	RefWeak
)

// TypeRef is a reference to a type by name with optional type
// arguments and reference-kind sigil.
type TypeRef struct {
	Name string
	Args []*TypeRef
	Ref  RefKind
	Pos  Pos
}

func (t *TypeRef) Position() Pos { return t.Pos }

func (t *TypeRef) String() string {
	prefix := ""
	switch t.Ref {
	case RefStrong:
		prefix = "&"
	case RefWeak:
		prefix = "~"
	}
	s := prefix + t.Name
	if len(t.Args) > 0 {
		s += "<"
		for i, a := range t.Args {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		s += ">"
	}
	return s
}

// TypeParam is one entry of a declaration's generic parameter list.
type TypeParam struct {
	Name  string
	Bound *TypeRef // nil = unbounded
	Pos   Pos
}

func (t *TypeParam) Position() Pos { return t.Pos }

// Param is one function/closure parameter.
type Param struct {
	Name     string
	Type     *TypeRef // nil if omitted (inferred, e.g. closure params)
	Variadic bool
	Pos      Pos
}

func (p *Param) Position() Pos { return p.Pos }

// Decl is the base interface for top-level and member declarations.
type Decl interface {
	Node
	declNode()
}

// FuncDecl is a function or method declaration.
type FuncDecl struct {
	Name       string
	Mods       Modifiers
	TypeParams []*TypeParam
	Params     []*Param
	RetType    *TypeRef // nil = unspecified (None)
	Body       Expr     // nil for external/interface-abstract methods
	Pos        Pos
}

func (f *FuncDecl) Position() Pos { return f.Pos }
func (f *FuncDecl) declNode()     {}

// FieldDecl is a class/interface field.
type FieldDecl struct {
	Name string
	Mods Modifiers
	Type *TypeRef // nil = inferred from Init
	Init Expr     // nil if no initializer
	Pos  Pos
}

func (f *FieldDecl) Position() Pos { return f.Pos }
func (f *FieldDecl) declNode()     {}

// ClassDecl declares a class ADT.
type ClassDecl struct {
	Name       string
	Mods       Modifiers
	TypeParams []*TypeParam
	Members    []Decl // *FuncDecl | *FieldDecl
	Pos        Pos
}

func (c *ClassDecl) Position() Pos { return c.Pos }
func (c *ClassDecl) declNode()     {}

// InterfaceDecl declares an interface ADT.
type InterfaceDecl struct {
	Name       string
	Mods       Modifiers
	TypeParams []*TypeParam
	Members    []Decl
	Pos        Pos
}

func (i *InterfaceDecl) Position() Pos { return i.Pos }
func (i *InterfaceDecl) declNode()     {}

// EnumCaseDecl is one arm of an enum.
type EnumCaseDecl struct {
	Name   string
	Params []*Param // nil = Simple singleton case
	Pos    Pos
}

func (e *EnumCaseDecl) Position() Pos { return e.Pos }
func (e *EnumCaseDecl) declNode()     {}

// EnumDecl declares an enum ADT: a sum of named case ADTs.
type EnumDecl struct {
	Name       string
	Mods       Modifiers
	TypeParams []*TypeParam
	Cases      []*EnumCaseDecl
	Members    []Decl // shared methods, if any
	Pos        Pos
}

func (e *EnumDecl) Position() Pos { return e.Pos }
func (e *EnumDecl) declNode()     {}

// ImplDecl declares `impl Iface<Args> for Ty<Args> { methods }`.
type ImplDecl struct {
	Iface   *TypeRef
	Target  *TypeRef
	Methods []*FuncDecl
	Pos     Pos
}

func (i *ImplDecl) Position() Pos { return i.Pos }
func (i *ImplDecl) declNode()     {}

// Expr is the base interface for every expression node.
type Expr interface {
	Node
	exprNode()
}

// LiteralKind tags the kind of value a Literal node carries.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	CharLit
	BoolLit
	NoneLit
)

// Literal is a literal value, with an optional numeric width suffix
// (e.g. "42i32" -> Width="i32").
type Literal struct {
	Kind  LiteralKind
	Value any
	Width string
	Pos   Pos
}

func (l *Literal) Position() Pos { return l.Pos }
func (l *Literal) exprNode()     {}

// Ident is a bare name reference: a variable, `this`, or (pending
// resolution) a type name used as a value (enum-case static access).
type Ident struct {
	Name string
	Pos  Pos
}

func (i *Ident) Position() Pos { return i.Pos }
func (i *Ident) exprNode()     {}

// Binary is a binary operator application.
type Binary struct {
	Left  Expr
	Op    string
	Right Expr
	Pos   Pos
}

func (b *Binary) Position() Pos { return b.Pos }
func (b *Binary) exprNode()     {}

// Unary is a unary operator application.
type Unary struct {
	Op  string
	X   Expr
	Pos Pos
}

func (u *Unary) Position() Pos { return u.Pos }
func (u *Unary) exprNode()     {}

// Call is a function/method/constructor invocation.
type Call struct {
	Callee Expr
	Args   []Expr
	Pos    Pos
}

func (c *Call) Position() Pos { return c.Pos }
func (c *Call) exprNode()     {}

// Get is field/method access: `object.name`.
type Get struct {
	Object Expr
	Name   string
	Pos    Pos
}

func (g *Get) Position() Pos { return g.Pos }
func (g *Get) exprNode()     {}

// Set is field assignment: `object.name = value`.
type Set struct {
	Object Expr
	Name   string
	Value  Expr
	Pos    Pos
}

func (s *Set) Position() Pos { return s.Pos }
func (s *Set) exprNode()     {}

// IndexGet is `object[index]`.
type IndexGet struct {
	Object Expr
	Index  Expr
	Pos    Pos
}

func (g *IndexGet) Position() Pos { return g.Pos }
func (g *IndexGet) exprNode()     {}

// IndexSet is `object[index] = value`.
type IndexSet struct {
	Object Expr
	Index  Expr
	Value  Expr
	Pos    Pos
}

func (s *IndexSet) Position() Pos { return s.Pos }
func (s *IndexSet) exprNode()     {}

// If is `if cond then else_?`.
type If struct {
	Cond Expr
	Then Expr
	Else Expr // nil if absent
	Pos  Pos
}

func (i *If) Position() Pos { return i.Pos }
func (i *If) exprNode()     {}

// WhenArm is one arm of a `when` expression. Pattern is nil for the
// `else` arm.
type WhenArm struct {
	Pattern Expr // an `is T` expr, an equality value, or nil for else
	Body    Expr
	Pos     Pos
}

func (w *WhenArm) Position() Pos { return w.Pos }

// When is `when v { p1 -> e1; ...; else -> e_default }`.
type When struct {
	Subject Expr
	Arms    []*WhenArm
	Pos     Pos
}

func (w *When) Position() Pos { return w.Pos }
func (w *When) exprNode()     {}

// For is the `for cond body else_?` while-loop expression.
type For struct {
	Cond Expr
	Body Expr
	Else Expr // nil if absent
	Pos  Pos
}

func (f *For) Position() Pos { return f.Pos }
func (f *For) exprNode()     {}

// Closure is a `{ params -> body }` closure literal.
type Closure struct {
	Params []*Param
	Body   Expr
	Pos    Pos
}

func (c *Closure) Position() Pos { return c.Pos }
func (c *Closure) exprNode()     {}

// Is is the `x is T` runtime type test.
type Is struct {
	X    Expr
	Type *TypeRef
	Pos  Pos
}

func (i *Is) Position() Pos { return i.Pos }
func (i *Is) exprNode()     {}

// As is the `x as T` cast expression.
type As struct {
	X    Expr
	Type *TypeRef
	Pos  Pos
}

func (a *As) Position() Pos { return a.Pos }
func (a *As) exprNode()     {}

// Return is `return e?`.
type Return struct {
	Value Expr // nil = no value
	Pos   Pos
}

func (r *Return) Position() Pos { return r.Pos }
func (r *Return) exprNode()     {}

// Break is `break e?`.
type Break struct {
	Value Expr // nil = no value
	Pos   Pos
}

func (b *Break) Position() Pos { return b.Pos }
func (b *Break) exprNode()     {}

// Block is `{ e1; e2; ...; en }`, a sequence executed in order whose
// value is the last expression's value.
type Block struct {
	Exprs []Expr
	Pos   Pos
}

func (b *Block) Position() Pos { return b.Pos }
func (b *Block) exprNode()     {}

// LocalBinding is `val name: T? = init` or `var name: T? = init`.
type LocalBinding struct {
	Name    string
	Mutable bool
	Type    *TypeRef // nil = inferred from Init
	Init    Expr
	Pos     Pos
}

func (l *LocalBinding) Position() Pos { return l.Pos }
func (l *LocalBinding) exprNode()     {}

// Array is an array literal `[e1, e2, ...]`.
type Array struct {
	Elems []Expr
	Pos   Pos
}

func (a *Array) Position() Pos { return a.Pos }
func (a *Array) exprNode()     {}
