package lower

import (
	"fmt"

	"github.com/gelixlang/gelix/internal/ast"
	"github.com/gelixlang/gelix/internal/gir"
)

// lowerClosure synthesizes a top-level function to hold the closure's
// lowered body and returns a ClosureLit referencing it. The function's
// first parameter, __env, has envType (the closure's
// *gir.ClosureCapturedType record) as its type; the closure's own
// parameters follow it. Capture analysis happens inline during the
// body's own lowering: lookupOuter records each free variable in
// captured/capOrder the first time it is seen, and once the body is
// lowered envType.Fields is filled from capOrder. The __env parameter
// and local share that one envType pointer, so both see the final
// field list -- no second pass over the tree is needed to know what
// was captured.
func (fc *funcCtx) lowerClosure(n *ast.Closure) gir.Expr {
	fc.c.synthCounter++
	fnId := gir.NewSyntheticDeclId(fc.ownerId(), fmt.Sprintf("closure#%d", fc.c.synthCounter))

	envType := &gir.ClosureCapturedType{}
	child := &funcCtx{
		c:         fc.c,
		scopes:    []map[string]gir.LocalId{{}},
		locals:    map[gir.LocalId]*gir.LocalVariable{},
		smartCast: map[string]gir.Type{},
		thisType:  fc.thisType,
		thisADT:   fc.thisADT,
		parent:    fc,
		captured:  map[string]gir.Type{},
		envType:   envType,
	}

	fn := &gir.Function{
		Id:        fnId,
		Name:      "closure",
		Module:    fc.c.Module.Path,
		Synthetic: true,
		Locals:    map[gir.LocalId]*gir.LocalVariable{},
	}
	child.fn = fn
	child.envLocal = child.declare("__env", envType, false)
	fn.Params = append(fn.Params, &gir.Param{Name: "__env", Type: envType})

	for _, p := range n.Params {
		var typ gir.Type = gir.Any()
		if p.Type != nil {
			typ = child.resolveSmartCastType(p.Type)
		}
		child.declare(p.Name, typ, false)
		fn.Params = append(fn.Params, &gir.Param{Name: p.Name, Type: typ, Variadic: p.Variadic})
	}

	body := child.lower(n.Body)
	fc.errs = append(fc.errs, child.errs...)
	fn.Body = body
	fn.RetType = body.ExprType()

	// envType.Fields was empty at child.declare("__env", ...) time;
	// lookupOuter recorded each capture in capOrder while the body was
	// lowered, so fill the record's fields from it now.
	for _, name := range child.capOrder {
		envType.Fields = append(envType.Fields, gir.CapturedField{Name: name, Type: child.captured[name]})
	}

	fc.c.Module.AddDecl(&gir.Declaration{Id: fnId, Kind: "function", Func: fn})

	captures := make([]gir.CapturedValue, len(child.capOrder))
	for i, name := range child.capOrder {
		var value gir.Expr
		if id, ok := fc.lookupLocal(name); ok {
			value = gir.NewLoad(toPos(n.Pos), fc.locals[id].Type, id, name)
		} else if outerTyp, ok := fc.lookupOuter(name); ok {
			envLoad := gir.NewLoad(toPos(n.Pos), fc.envLoadType(), fc.envLocal, "__env")
			value = gir.NewFieldLoad(toPos(n.Pos), outerTyp, envLoad, name)
		}
		captures[i] = gir.CapturedValue{Name: name, Value: value}
	}

	closureType := &gir.ClosureType{Ret: fn.RetType, Captured: envType}
	for _, p := range fn.Params[1:] {
		closureType.Params = append(closureType.Params, p.Type)
	}
	return gir.NewClosureLit(toPos(n.Pos), closureType, fnId, captures)
}
