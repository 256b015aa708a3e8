package lower

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

// lower dispatches on the ast.Expr's concrete type. Every branch
// always returns a non-nil gir.Expr, even on error (typed Any), so a
// caller never has to special-case a lowering failure -- the error is
// recorded in fc.errs and surfaces through Run's returned list.
func (fc *funcCtx) lower(e ast.Expr) gir.Expr {
	switch n := e.(type) {
	case *ast.Literal:
		return fc.lowerLiteral(n)
	case *ast.Ident:
		return fc.lowerIdent(n)
	case *ast.Binary:
		return fc.lowerBinary(n)
	case *ast.Unary:
		return fc.lowerUnary(n)
	case *ast.Call:
		return fc.lowerCall(n)
	case *ast.Get:
		return fc.lowerGet(n)
	case *ast.Set:
		return fc.lowerSet(n)
	case *ast.IndexGet:
		return fc.lowerIndexGet(n)
	case *ast.IndexSet:
		return fc.lowerIndexSet(n)
	case *ast.If:
		return fc.lowerIf(n)
	case *ast.When:
		return fc.lowerWhen(n)
	case *ast.For:
		return fc.lowerFor(n)
	case *ast.Closure:
		return fc.lowerClosure(n)
	case *ast.Is:
		return fc.lowerIs(n)
	case *ast.As:
		return fc.lowerAs(n)
	case *ast.Return:
		return fc.lowerReturn(n)
	case *ast.Break:
		return fc.lowerBreak(n)
	case *ast.Block:
		return fc.lowerBlock(n)
	case *ast.LocalBinding:
		return fc.lowerLocalBinding(n)
	case *ast.Array:
		return fc.lowerArray(n)
	default:
		fc.errorf(errors.TYP007, e.Position(), "cannot lower expression of type %T", e)
		return gir.NewLiteral(toPos(e.Position()), gir.Any(), nil)
	}
}

func (fc *funcCtx) lowerLiteral(n *ast.Literal) gir.Expr {
	var typ gir.Type
	switch n.Kind {
	case ast.IntLit:
		width := n.Width
		if width == "" {
			width = "i32"
		}
		typ = &gir.Primitive{Name: width}
	case ast.FloatLit:
		width := n.Width
		if width == "" {
			width = "f64"
		}
		typ = &gir.Primitive{Name: width}
	case ast.StringLit:
		typ = &gir.Primitive{Name: "Str"}
	case ast.CharLit:
		typ = &gir.Primitive{Name: "char"}
	case ast.BoolLit:
		typ = gir.Bool()
	default:
		typ = gir.Unit()
	}
	return gir.NewLiteral(toPos(n.Pos), typ, n.Value)
}

func (fc *funcCtx) lowerIdent(n *ast.Ident) gir.Expr {
	if n.Name == "this" {
		if fc.thisType == nil {
			fc.errorf(errors.TYP007, n.Pos, "'this' used outside a method")
			return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
		}
		id, _ := fc.lookupLocal("this")
		return gir.NewLoad(toPos(n.Pos), fc.thisType, id, "this")
	}
	if id, ok := fc.lookupLocal(n.Name); ok {
		local := fc.locals[id]
		return gir.NewLoad(toPos(n.Pos), fc.refine(n.Name, local.Type), id, n.Name)
	}
	if fc.parent != nil {
		if typ, ok := fc.lookupOuter(n.Name); ok {
			envLoad := gir.NewLoad(toPos(n.Pos), fc.envLoadType(), fc.envLocal, "__env")
			return gir.NewFieldLoad(toPos(n.Pos), fc.refine(n.Name, typ), envLoad, n.Name)
		}
	}
	if fc.thisADT != nil {
		if field := findField(fc.thisADT, n.Name); field != nil {
			thisId, _ := fc.lookupLocal("this")
			thisLoad := gir.NewLoad(toPos(n.Pos), fc.thisType, thisId, "this")
			return gir.NewFieldLoad(toPos(n.Pos), fc.refine(n.Name, field.Type), thisLoad, n.Name)
		}
	}
	if id, ok := fc.c.Module.Lookup(n.Name); ok {
		decl, _ := fc.c.Module.Decl(id)
		if decl.ADT != nil && decl.ADT.Kind == gir.ADTEnumCase && len(decl.ADT.Fields) == 0 {
			return gir.NewAllocate(toPos(n.Pos), &gir.StrongRef{Elem: &gir.AdtType{Inst: gir.Instance{Decl: id}}}, id, nil, nil)
		}
		var of gir.Type
		if decl.ADT != nil {
			of = &gir.AdtType{Inst: gir.Instance{Decl: id}}
		} else {
			of = &gir.FunctionType{}
		}
		return gir.NewTypeGet(toPos(n.Pos), &gir.ReifiedType{Of: of}, id, nil)
	}
	fc.errorf(errors.TYP007, n.Pos, "unresolved name %q", n.Name)
	return gir.NewLiteral(toPos(n.Pos), gir.Any(), nil)
}

func (fc *funcCtx) envLoadType() gir.Type {
	if fc.envLocal == "" {
		return gir.Any()
	}
	return fc.locals[fc.envLocal].Type
}

func findField(adt *gir.ADT, name string) *gir.Field {
	for _, f := range adt.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
