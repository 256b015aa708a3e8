package lower

import (
	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/gir"
)

// operatorInterfaces maps a binary operator symbol to the well-known
// interface name SPEC_FULL's operator-overload rule resolves it to
// when neither operand is a primitive: `a + b` on two ADTs looks for
// `impl Add for <type of a>`, mirroring how the teacher's own
// typeclass-dictionary resolution picks a method by a canonical name
// rather than the literal operator token.
var operatorInterfaces = map[string]string{
	"+": "Add", "-": "Sub", "*": "Mul", "/": "Div", "%": "Mod",
	"==": "Eq", "!=": "Eq", "<": "Ord", "<=": "Ord", ">": "Ord", ">=": "Ord",
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

func isPrimitive(t gir.Type) bool {
	_, ok := t.(*gir.Primitive)
	return ok
}

func isNumeric(t gir.Type) bool {
	p, ok := t.(*gir.Primitive)
	if !ok {
		return false
	}
	switch p.Name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "f32", "f64":
		return true
	}
	return false
}

func (fc *funcCtx) lowerBinary(n *ast.Binary) gir.Expr {
	if n.Op == "and" || n.Op == "or" {
		return fc.lowerLogical(n)
	}

	left := fc.lower(n.Left)
	right := fc.lower(n.Right)
	leftType, rightType := left.ExprType(), right.ExprType()

	if isNumeric(leftType) && isNumeric(rightType) {
		resultType := leftType
		if comparisonOps[n.Op] {
			resultType = gir.Bool()
		} else if !gir.Equal(leftType, rightType) {
			fc.errorf(errors.TYP001, n.Pos, "operand type mismatch: %s vs %s", leftType, rightType)
		}
		return gir.NewBinary(toPos(n.Pos), resultType, n.Op, left, right, "")
	}
	if _, ok := leftType.(*gir.Primitive); ok && leftType.(*gir.Primitive).Name == "bool" {
		if (n.Op == "==" || n.Op == "!=") && isPrimitive(rightType) {
			return gir.NewBinary(toPos(n.Pos), gir.Bool(), n.Op, left, right, "")
		}
	}

	ifaceName, hasOverload := operatorInterfaces[n.Op]
	if !hasOverload {
		fc.errorf(errors.TYP002, n.Pos, "no overload for operator %q", n.Op)
		return gir.NewBinary(toPos(n.Pos), gir.Any(), n.Op, left, right, "")
	}
	ifaceId, ok := fc.c.Module.Lookup(ifaceName)
	leftDecl := adtDeclOf(leftType)
	if !ok || leftDecl == "" {
		fc.errorf(errors.TYP002, n.Pos, "no operator overload found for %q on %s", n.Op, leftType)
		return gir.NewBinary(toPos(n.Pos), gir.Any(), n.Op, left, right, "")
	}
	methodId, ok := fc.c.Iface.MethodFor(ifaceId, leftDecl, operatorMethodName(n.Op))
	if !ok {
		fc.errorf(errors.TYP002, n.Pos, "%s does not implement %s for operator %q", leftType, ifaceName, n.Op)
		return gir.NewBinary(toPos(n.Pos), gir.Any(), n.Op, left, right, "")
	}
	resultType := gir.Any()
	if comparisonOps[n.Op] {
		resultType = gir.Bool()
	} else if md, ok := fc.c.Module.Decl(methodId); ok && md.Func != nil {
		resultType = md.Func.RetType
	}
	return gir.NewBinary(toPos(n.Pos), resultType, n.Op, left, right, methodId)
}

// operatorMethodName is the conventional method name an `impl Add for
// T` block must define for `+` to resolve against T.
func operatorMethodName(op string) string {
	switch op {
	case "+":
		return "add"
	case "-":
		return "sub"
	case "*":
		return "mul"
	case "/":
		return "div"
	case "%":
		return "mod"
	case "==", "!=":
		return "eq"
	case "<", "<=", ">", ">=":
		return "compare"
	default:
		return op
	}
}

func adtDeclOf(t gir.Type) gir.DeclId {
	switch v := t.(type) {
	case *gir.AdtType:
		return v.Inst.Decl
	case *gir.StrongRef:
		return adtDeclOf(v.Elem)
	case *gir.WeakRef:
		return adtDeclOf(v.Elem)
	default:
		return ""
	}
}

// lowerLogical lowers `and`/`or`, threading smart-cast refinements
// from an `is` on the left operand into the right operand's lowering
// -- `x is T and x.useT()` must see x: T while lowering the right side.
func (fc *funcCtx) lowerLogical(n *ast.Binary) gir.Expr {
	left := fc.lower(n.Left)
	var restore func()
	if n.Op == "and" {
		if is, ok := n.Left.(*ast.Is); ok {
			if ident, ok := is.X.(*ast.Ident); ok {
				restore = fc.pushSmartCast(ident.Name, fc.resolveSmartCastType(is.Type))
			}
		}
	}
	right := fc.lower(n.Right)
	if restore != nil {
		restore()
	}
	if !gir.Equal(left.ExprType(), gir.Bool()) {
		fc.errorf(errors.TYP003, n.Left.Position(), "left operand of %q is not bool", n.Op)
	}
	if !gir.Equal(right.ExprType(), gir.Bool()) {
		fc.errorf(errors.TYP003, n.Right.Position(), "right operand of %q is not bool", n.Op)
	}
	return gir.NewBinary(toPos(n.Pos), gir.Bool(), n.Op, left, right, "")
}

func (fc *funcCtx) pushSmartCast(name string, typ gir.Type) func() {
	prev, had := fc.smartCast[name]
	fc.smartCast[name] = typ
	return func() {
		if had {
			fc.smartCast[name] = prev
		} else {
			delete(fc.smartCast, name)
		}
	}
}

// resolveSmartCastType turns a type reference appearing in expression
// position (`is T`, `as T`, a local binding's annotation, a closure
// param annotation) into a gir.Type, the same shape
// resolve.Context.resolveType builds for declaration-position types.
func (fc *funcCtx) resolveSmartCastType(t *ast.TypeRef) gir.Type {
	var base gir.Type
	switch {
	case gir.IsPrimitiveName(t.Name):
		base = &gir.Primitive{Name: t.Name}
	case fc.fn != nil && contains(fc.typeParamNames(), t.Name):
		base = &gir.TypeParamRef{Name: t.Name}
	default:
		id, ok := fc.c.Module.Lookup(t.Name)
		if !ok {
			fc.errorf(errors.RSV001, t.Pos, "unresolved type name %q", t.Name)
			return gir.Any()
		}
		args := make([]gir.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = fc.resolveSmartCastType(a)
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

func (fc *funcCtx) lowerUnary(n *ast.Unary) gir.Expr {
	x := fc.lower(n.X)
	if isNumeric(x.ExprType()) || (n.Op == "!" && gir.Equal(x.ExprType(), gir.Bool())) {
		return gir.NewUnary(toPos(n.Pos), x.ExprType(), n.Op, x, "")
	}
	fc.errorf(errors.TYP001, n.Pos, "operator %q not defined for %s", n.Op, x.ExprType())
	return gir.NewUnary(toPos(n.Pos), gir.Any(), n.Op, x, "")
}
