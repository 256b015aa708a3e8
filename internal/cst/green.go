package cst

import (
	"strings"

	"github.com/gelixlang/gelix/internal/lexer"
)

// GreenToken is an immutable leaf: one lexeme, verbatim, including
// whitespace and comments. Once emitted by the Sink it is never
// mutated -- the "immutable once emitted" lifecycle from the data
// model.
type GreenToken struct {
	Kind   lexer.Kind
	Text   string
	Offset int
}

// GreenNode is an immutable composite node: a SyntaxKind tag plus an
// ordered list of children, each either a *GreenNode or a *GreenToken.
type GreenNode struct {
	Kind     SyntaxKind
	Children []any // *GreenNode | *GreenToken
	Offset   int   // byte offset of the first token under this node
}

// Text reconstructs the exact source text spanned by this node by
// concatenating every token leaf in order -- the basis of the
// round-trip testable property.
func (n *GreenNode) Text() string {
	var b strings.Builder
	writeText(n, &b)
	return b.String()
}

func writeText(n *GreenNode, b *strings.Builder) {
	for _, c := range n.Children {
		switch v := c.(type) {
		case *GreenNode:
			writeText(v, b)
		case *GreenToken:
			b.WriteString(v.Text)
		}
	}
}

// Len returns the byte length of the node's source span.
func (n *GreenNode) Len() int {
	return len(n.Text())
}

// Tokens returns every token leaf directly or transitively under n, in
// order, including trivia.
func (n *GreenNode) Tokens() []*GreenToken {
	var out []*GreenToken
	var walk func(any)
	walk = func(c any) {
		switch v := c.(type) {
		case *GreenNode:
			for _, child := range v.Children {
				walk(child)
			}
		case *GreenToken:
			out = append(out, v)
		}
	}
	walk(n)
	return out
}

// NodeChildren returns only the composite-node children, skipping tokens.
func (n *GreenNode) NodeChildren() []*GreenNode {
	var out []*GreenNode
	for _, c := range n.Children {
		if gn, ok := c.(*GreenNode); ok {
			out = append(out, gn)
		}
	}
	return out
}

// FirstChild returns the first composite child of the given kind, or
// nil if none exists.
func (n *GreenNode) FirstChild(kind SyntaxKind) *GreenNode {
	for _, c := range n.Children {
		if gn, ok := c.(*GreenNode); ok && gn.Kind == kind {
			return gn
		}
	}
	return nil
}
