package ast

import (
	"strconv"
	"strings"

	"github.com/gelixlang/gelix/internal/cst"
	"github.com/gelixlang/gelix/internal/errors"
	"github.com/gelixlang/gelix/internal/lexer"
)

// Lower walks a parsed green tree and produces the thin AST that later
// GIR passes consume. src is the original file text, needed only to
// recover line/column positions (the CST itself only carries byte
// offsets).
func Lower(tree *cst.GreenNode, file, src string) (*File, errors.List) {
	l := newLowerer(file, src)
	f := &File{Path: file, Pos: l.pos(0)}
	for _, nd := range tree.NodeChildren() {
		switch nd.Kind {
		case cst.ModuleDecl:
			f.Module = l.lowerModuleDecl(nd)
		case cst.ImportDecl:
			f.Imports = append(f.Imports, l.lowerImportDecl(nd))
		case cst.FuncDecl:
			f.Decls = append(f.Decls, l.lowerFuncDecl(nd))
		case cst.ClassDecl:
			f.Decls = append(f.Decls, l.lowerClassDecl(nd))
		case cst.InterfaceDecl:
			f.Decls = append(f.Decls, l.lowerInterfaceDecl(nd))
		case cst.EnumDecl:
			f.Decls = append(f.Decls, l.lowerEnumDecl(nd))
		case cst.ImplDecl:
			f.Decls = append(f.Decls, l.lowerImplDecl(nd))
		case cst.ErrorNode:
			// recovered parse error: nothing to lower
		}
	}
	return f, l.errs
}

// lowerer threads file-level state (position lookup, collected
// lowering errors) through the recursive walk.
type lowerer struct {
	file       string
	lineStarts []int
	errs       errors.List
}

func newLowerer(file, src string) *lowerer {
	l := &lowerer{file: file, lineStarts: []int{0}}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			l.lineStarts = append(l.lineStarts, i+1)
		}
	}
	return l
}

// pos maps a byte offset to a 1-based line/column position via binary
// search over precomputed line-start offsets.
func (l *lowerer) pos(offset int) Pos {
	lo, hi := 0, len(l.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Pos{File: l.file, Line: lo + 1, Column: offset - l.lineStarts[lo] + 1, Offset: offset}
}

// directTokens returns the significant (non-trivia) token children
// attached directly to n, skipping nested composite nodes.
func directTokens(n *cst.GreenNode) []*cst.GreenToken {
	var out []*cst.GreenToken
	for _, c := range n.Children {
		if t, ok := c.(*cst.GreenToken); ok && !t.Kind.ShouldSkip() {
			out = append(out, t)
		}
	}
	return out
}

func firstIdent(toks []*cst.GreenToken) string {
	for _, t := range toks {
		if t.Kind == lexer.IDENT {
			return t.Text
		}
	}
	return ""
}

// --- declarations -----------------------------------------------------------

func (l *lowerer) lowerModuleDecl(n *cst.GreenNode) string {
	var parts []string
	for _, t := range directTokens(n) {
		if t.Kind == lexer.IDENT {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, "/")
}

func (l *lowerer) lowerImportDecl(n *cst.GreenNode) *Import {
	var pathParts, symbols []string
	inParens := false
	for _, c := range n.Children {
		t, ok := c.(*cst.GreenToken)
		if !ok {
			continue
		}
		switch t.Kind {
		case lexer.LPAREN:
			inParens = true
		case lexer.RPAREN:
			inParens = false
		case lexer.IDENT:
			if inParens {
				symbols = append(symbols, t.Text)
			} else {
				pathParts = append(pathParts, t.Text)
			}
		}
	}
	return &Import{Path: strings.Join(pathParts, "/"), Symbols: symbols, Pos: l.pos(n.Offset)}
}

func lowerModifiers(n *cst.GreenNode) Modifiers {
	var m Modifiers
	ml := n.FirstChild(cst.ModifierList)
	if ml == nil {
		return m
	}
	for _, t := range directTokens(ml) {
		switch t.Kind {
		case lexer.KW_PUB:
			m.Pub = true
		case lexer.KW_PRIV:
			m.Priv = true
		case lexer.KW_VAL:
			m.Val = true
		case lexer.KW_VAR:
			m.Var = true
		case lexer.KW_VALUE:
			m.Value = true
		case lexer.KW_EXTERNAL:
			m.External = true
		}
	}
	return m
}

func (l *lowerer) lowerTypeParam(n *cst.GreenNode) *TypeParam {
	toks := directTokens(n)
	tp := &TypeParam{Name: firstIdent(toks), Pos: l.pos(n.Offset)}
	if b := n.FirstChild(cst.TypeRef); b != nil {
		tp.Bound = l.lowerType(b)
	}
	return tp
}

func (l *lowerer) lowerType(n *cst.GreenNode) *TypeRef {
	toks := directTokens(n)
	ref := RefNone
	start := 0
	if len(toks) > 0 {
		switch toks[0].Kind {
		case lexer.AMP:
			ref = RefStrong
			start = 1
		case lexer.TILDE:
			ref = RefWeak
			start = 1
		}
	}
	name := ""
	if start < len(toks) {
		name = toks[start].Text
	}
	t := &TypeRef{Name: name, Ref: ref, Pos: l.pos(n.Offset)}
	for _, arg := range n.NodeChildren() {
		if arg.Kind == cst.TypeRef {
			t.Args = append(t.Args, l.lowerType(arg))
		}
	}
	return t
}

func (l *lowerer) lowerParam(n *cst.GreenNode) *Param {
	toks := directTokens(n)
	variadic := false
	idx := 0
	if len(toks) > 0 && toks[0].Kind == lexer.ELLIPSIS {
		variadic = true
		idx = 1
	}
	name := ""
	if idx < len(toks) {
		name = toks[idx].Text
	}
	p := &Param{Name: name, Variadic: variadic, Pos: l.pos(n.Offset)}
	if tr := n.FirstChild(cst.TypeRef); tr != nil {
		p.Type = l.lowerType(tr)
	}
	return p
}

// lowerParamList reads a ParamList node's Param children in order.
func (l *lowerer) lowerParamList(n *cst.GreenNode) []*Param {
	var out []*Param
	for _, p := range n.NodeChildren() {
		out = append(out, l.lowerParam(p))
	}
	return out
}

func (l *lowerer) lowerFuncDecl(n *cst.GreenNode) *FuncDecl {
	mods := lowerModifiers(n)
	toks := directTokens(n)
	name := ""
	if len(toks) > 1 {
		name = toks[1].Text
	}
	f := &FuncDecl{Name: name, Mods: mods, Pos: l.pos(n.Offset)}
	for _, nd := range n.NodeChildren() {
		switch nd.Kind {
		case cst.ModifierList:
		case cst.TypeParamList:
			for _, tp := range nd.NodeChildren() {
				f.TypeParams = append(f.TypeParams, l.lowerTypeParam(tp))
			}
		case cst.ParamList:
			f.Params = l.lowerParamList(nd)
		case cst.TypeRef:
			f.RetType = l.lowerType(nd)
		default:
			f.Body = l.lowerExpr(nd)
		}
	}
	return f
}

func (l *lowerer) lowerFieldDecl(n *cst.GreenNode) *FieldDecl {
	mods := lowerModifiers(n)
	toks := directTokens(n)
	fd := &FieldDecl{Name: firstIdent(toks), Mods: mods, Pos: l.pos(n.Offset)}
	for _, nd := range n.NodeChildren() {
		switch nd.Kind {
		case cst.ModifierList:
		case cst.TypeRef:
			if fd.Type == nil {
				fd.Type = l.lowerType(nd)
			}
		default:
			fd.Init = l.lowerExpr(nd)
		}
	}
	return fd
}

func (l *lowerer) lowerMember(nd *cst.GreenNode) Decl {
	switch nd.Kind {
	case cst.FuncDecl:
		return l.lowerFuncDecl(nd)
	case cst.FieldDecl:
		return l.lowerFieldDecl(nd)
	}
	return nil
}

func (l *lowerer) lowerClassDecl(n *cst.GreenNode) *ClassDecl {
	mods := lowerModifiers(n)
	toks := directTokens(n)
	name := ""
	if len(toks) > 1 {
		name = toks[1].Text
	}
	c := &ClassDecl{Name: name, Mods: mods, Pos: l.pos(n.Offset)}
	for _, nd := range n.NodeChildren() {
		switch nd.Kind {
		case cst.ModifierList:
		case cst.TypeParamList:
			for _, tp := range nd.NodeChildren() {
				c.TypeParams = append(c.TypeParams, l.lowerTypeParam(tp))
			}
		case cst.FuncDecl, cst.FieldDecl:
			if m := l.lowerMember(nd); m != nil {
				c.Members = append(c.Members, m)
			}
		}
	}
	return c
}

func (l *lowerer) lowerInterfaceDecl(n *cst.GreenNode) *InterfaceDecl {
	mods := lowerModifiers(n)
	toks := directTokens(n)
	name := ""
	if len(toks) > 1 {
		name = toks[1].Text
	}
	i := &InterfaceDecl{Name: name, Mods: mods, Pos: l.pos(n.Offset)}
	for _, nd := range n.NodeChildren() {
		switch nd.Kind {
		case cst.ModifierList:
		case cst.TypeParamList:
			for _, tp := range nd.NodeChildren() {
				i.TypeParams = append(i.TypeParams, l.lowerTypeParam(tp))
			}
		case cst.FuncDecl, cst.FieldDecl:
			if m := l.lowerMember(nd); m != nil {
				i.Members = append(i.Members, m)
			}
		}
	}
	return i
}

func (l *lowerer) lowerEnumCase(n *cst.GreenNode) *EnumCaseDecl {
	toks := directTokens(n)
	name := ""
	if len(toks) > 0 {
		name = toks[0].Text
	}
	ec := &EnumCaseDecl{Name: name, Pos: l.pos(n.Offset)}
	if pl := n.FirstChild(cst.ParamList); pl != nil {
		ec.Params = l.lowerParamList(pl)
	}
	return ec
}

func (l *lowerer) lowerEnumDecl(n *cst.GreenNode) *EnumDecl {
	mods := lowerModifiers(n)
	toks := directTokens(n)
	name := ""
	if len(toks) > 1 {
		name = toks[1].Text
	}
	e := &EnumDecl{Name: name, Mods: mods, Pos: l.pos(n.Offset)}
	for _, nd := range n.NodeChildren() {
		switch nd.Kind {
		case cst.ModifierList:
		case cst.TypeParamList:
			for _, tp := range nd.NodeChildren() {
				e.TypeParams = append(e.TypeParams, l.lowerTypeParam(tp))
			}
		case cst.EnumCaseDecl:
			e.Cases = append(e.Cases, l.lowerEnumCase(nd))
		case cst.FuncDecl, cst.FieldDecl:
			if m := l.lowerMember(nd); m != nil {
				e.Members = append(e.Members, m)
			}
		}
	}
	return e
}

func (l *lowerer) lowerImplDecl(n *cst.GreenNode) *ImplDecl {
	impl := &ImplDecl{Pos: l.pos(n.Offset)}
	seen := 0
	for _, nd := range n.NodeChildren() {
		switch nd.Kind {
		case cst.ModifierList:
		case cst.TypeRef:
			if seen == 0 {
				impl.Iface = l.lowerType(nd)
			} else {
				impl.Target = l.lowerType(nd)
			}
			seen++
		case cst.FuncDecl:
			impl.Methods = append(impl.Methods, l.lowerFuncDecl(nd))
		}
	}
	return impl
}

// --- expressions --------------------------------------------------------

func (l *lowerer) lowerExpr(n *cst.GreenNode) Expr {
	switch n.Kind {
	case cst.LocalBinding:
		toks := directTokens(n)
		mutable := len(toks) > 0 && toks[0].Kind == lexer.KW_VAR
		name := ""
		if len(toks) > 1 {
			name = toks[1].Text
		}
		lb := &LocalBinding{Name: name, Mutable: mutable, Pos: l.pos(n.Offset)}
		for _, nd := range n.NodeChildren() {
			if nd.Kind == cst.TypeRef {
				lb.Type = l.lowerType(nd)
			} else {
				lb.Init = l.lowerExpr(nd)
			}
		}
		return lb

	case cst.BinaryExpr:
		nodes := n.NodeChildren()
		toks := directTokens(n)
		op := ""
		if len(toks) > 0 {
			op = toks[0].Text
		}
		b := &Binary{Op: op, Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			b.Left = l.lowerExpr(nodes[0])
		}
		if len(nodes) > 1 {
			b.Right = l.lowerExpr(nodes[1])
		}
		return b

	case cst.UnaryExpr:
		toks := directTokens(n)
		op := ""
		if len(toks) > 0 {
			op = toks[0].Text
		}
		u := &Unary{Op: op, Pos: l.pos(n.Offset)}
		if nodes := n.NodeChildren(); len(nodes) > 0 {
			u.X = l.lowerExpr(nodes[0])
		}
		return u

	case cst.IsExpr:
		nodes := n.NodeChildren()
		is := &Is{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			is.X = l.lowerExpr(nodes[0])
		}
		if len(nodes) > 1 {
			is.Type = l.lowerType(nodes[1])
		}
		return is

	case cst.AsExpr:
		nodes := n.NodeChildren()
		as := &As{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			as.X = l.lowerExpr(nodes[0])
		}
		if len(nodes) > 1 {
			as.Type = l.lowerType(nodes[1])
		}
		return as

	case cst.CallExpr:
		nodes := n.NodeChildren()
		c := &Call{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			c.Callee = l.lowerExpr(nodes[0])
		}
		if len(nodes) > 1 {
			for _, a := range nodes[1].NodeChildren() {
				c.Args = append(c.Args, l.lowerExpr(a))
			}
		}
		return c

	case cst.GetExpr:
		nodes := n.NodeChildren()
		g := &Get{Name: firstIdent(directTokens(n)), Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			g.Object = l.lowerExpr(nodes[0])
		}
		return g

	case cst.SetExpr:
		nodes := n.NodeChildren()
		s := &Set{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			if g, ok := l.lowerExpr(nodes[0]).(*Get); ok {
				s.Object, s.Name = g.Object, g.Name
			}
		}
		if len(nodes) > 1 {
			s.Value = l.lowerExpr(nodes[1])
		}
		return s

	case cst.IndexGetExpr:
		nodes := n.NodeChildren()
		ig := &IndexGet{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			ig.Object = l.lowerExpr(nodes[0])
		}
		if len(nodes) > 1 {
			ig.Index = l.lowerExpr(nodes[1])
		}
		return ig

	case cst.IndexSetExpr:
		nodes := n.NodeChildren()
		is := &IndexSet{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			if ig, ok := l.lowerExpr(nodes[0]).(*IndexGet); ok {
				is.Object, is.Index = ig.Object, ig.Index
			}
		}
		if len(nodes) > 1 {
			is.Value = l.lowerExpr(nodes[1])
		}
		return is

	case cst.IfExpr:
		nodes := n.NodeChildren()
		f := &If{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			f.Cond = l.lowerExpr(nodes[0])
		}
		if len(nodes) > 1 {
			f.Then = l.lowerExpr(nodes[1])
		}
		if len(nodes) > 2 {
			f.Else = l.lowerExpr(nodes[2])
		}
		return f

	case cst.WhenExpr:
		nodes := n.NodeChildren()
		w := &When{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			w.Subject = l.lowerExpr(nodes[0])
		}
		for _, arm := range nodes[minInt(1, len(nodes)):] {
			w.Arms = append(w.Arms, l.lowerWhenArm(arm))
		}
		return w

	case cst.ForExpr:
		nodes := n.NodeChildren()
		f := &For{Pos: l.pos(n.Offset)}
		if len(nodes) > 0 {
			f.Cond = l.lowerExpr(nodes[0])
		}
		if len(nodes) > 1 {
			f.Body = l.lowerExpr(nodes[1])
		}
		if len(nodes) > 2 {
			f.Else = l.lowerExpr(nodes[2])
		}
		return f

	case cst.ClosureExpr:
		var params []*Param
		var bodyExprs []Expr
		for _, nd := range n.NodeChildren() {
			if nd.Kind == cst.ParamList {
				params = l.lowerParamList(nd)
			} else {
				bodyExprs = append(bodyExprs, l.lowerExpr(nd))
			}
		}
		var body Expr
		switch len(bodyExprs) {
		case 0:
		case 1:
			body = bodyExprs[0]
		default:
			body = &Block{Exprs: bodyExprs, Pos: l.pos(n.Offset)}
		}
		return &Closure{Params: params, Body: body, Pos: l.pos(n.Offset)}

	case cst.ReturnExpr:
		r := &Return{Pos: l.pos(n.Offset)}
		if nodes := n.NodeChildren(); len(nodes) > 0 {
			r.Value = l.lowerExpr(nodes[0])
		}
		return r

	case cst.BreakExpr:
		b := &Break{Pos: l.pos(n.Offset)}
		if nodes := n.NodeChildren(); len(nodes) > 0 {
			b.Value = l.lowerExpr(nodes[0])
		}
		return b

	case cst.VarExpr:
		toks := directTokens(n)
		name := ""
		if len(toks) > 0 {
			name = toks[0].Text
		}
		return &Ident{Name: name, Pos: l.pos(n.Offset)}

	case cst.LiteralExpr:
		toks := directTokens(n)
		if len(toks) == 0 {
			return &Literal{Kind: NoneLit, Pos: l.pos(n.Offset)}
		}
		return l.lowerLiteral(toks[0], n.Offset)

	case cst.ParenExpr:
		if nodes := n.NodeChildren(); len(nodes) > 0 {
			return l.lowerExpr(nodes[0])
		}
		return &Literal{Kind: NoneLit, Pos: l.pos(n.Offset)}

	case cst.ArrayExpr:
		a := &Array{Pos: l.pos(n.Offset)}
		for _, nd := range n.NodeChildren() {
			a.Elems = append(a.Elems, l.lowerExpr(nd))
		}
		return a

	case cst.Block:
		b := &Block{Pos: l.pos(n.Offset)}
		for _, nd := range n.NodeChildren() {
			b.Exprs = append(b.Exprs, l.lowerExpr(nd))
		}
		return b

	case cst.ErrorNode:
		return &Literal{Kind: NoneLit, Pos: l.pos(n.Offset)}
	}

	l.errs = append(l.errs, errors.New(errors.PAR001, "lower", errors.Position{
		File: l.file, Offset: n.Offset,
	}, "internal: no lowering for CST node kind %s", n.Kind))
	return &Literal{Kind: NoneLit, Pos: l.pos(n.Offset)}
}

func (l *lowerer) lowerWhenArm(n *cst.GreenNode) *WhenArm {
	nodes := n.NodeChildren()
	toks := directTokens(n)
	isElse := len(toks) > 0 && toks[0].Kind == lexer.KW_ELSE
	arm := &WhenArm{Pos: l.pos(n.Offset)}
	if isElse {
		if len(nodes) > 0 {
			arm.Body = l.lowerExpr(nodes[0])
		}
		return arm
	}
	if len(nodes) > 0 {
		arm.Pattern = l.lowerExpr(nodes[0])
	}
	if len(nodes) > 1 {
		arm.Body = l.lowerExpr(nodes[1])
	}
	return arm
}

// lowerLiteral decodes a raw token lexeme into a typed literal value.
// Numeric lexemes carry an optional width suffix (see lexer.readNumber);
// string/char lexemes carry their surrounding quotes and raw escapes
// (see lexer.readString) which are decoded here rather than at lex
// time, so the CST stays lossless.
func (l *lowerer) lowerLiteral(t *cst.GreenToken, offset int) *Literal {
	pos := l.pos(offset)
	switch t.Kind {
	case lexer.INT:
		digits, width := splitWidthSuffix(t.Text)
		v, _ := strconv.ParseInt(digits, 10, 64)
		return &Literal{Kind: IntLit, Value: v, Width: width, Pos: pos}
	case lexer.FLOAT:
		digits, width := splitWidthSuffix(t.Text)
		v, _ := strconv.ParseFloat(digits, 64)
		return &Literal{Kind: FloatLit, Value: v, Width: width, Pos: pos}
	case lexer.STRING:
		return &Literal{Kind: StringLit, Value: decodeEscapes(trimQuote(t.Text, '"')), Pos: pos}
	case lexer.CHAR:
		decoded := decodeEscapes(trimQuote(t.Text, '\''))
		var r rune
		for _, c := range decoded {
			r = c
			break
		}
		return &Literal{Kind: CharLit, Value: r, Pos: pos}
	case lexer.KW_TRUE:
		return &Literal{Kind: BoolLit, Value: true, Pos: pos}
	case lexer.KW_FALSE:
		return &Literal{Kind: BoolLit, Value: false, Pos: pos}
	case lexer.KW_NONE:
		return &Literal{Kind: NoneLit, Pos: pos}
	}
	return &Literal{Kind: NoneLit, Pos: pos}
}

// splitWidthSuffix separates a numeric lexeme's digits from a trailing
// i8/i16/i32/i64/u8/u16/u32/u64/f32/f64 width suffix, if present.
func splitWidthSuffix(lexeme string) (digits, width string) {
	for i := 0; i < len(lexeme); i++ {
		c := lexeme[i]
		if c == 'i' || c == 'u' || c == 'f' {
			return lexeme[:i], lexeme[i:]
		}
	}
	return lexeme, ""
}

func trimQuote(s string, q byte) string {
	if len(s) >= 2 && s[0] == q && s[len(s)-1] == q {
		return s[1 : len(s)-1]
	}
	return s
}

func decodeEscapes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			b.WriteRune(lexer.Unescape(rune(s[i])))
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
