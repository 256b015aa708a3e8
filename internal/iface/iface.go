// Package iface is the interface-implementation table: for every
// `impl Iface for Target` block the fill pass discovers, it records
// which concrete method implements which interface method, so
// internal/lower can turn a call through an interface-typed receiver
// into a gir.CallDyn and the (eventual) backend can build a vtable.
//
// This plays a similar structural role to the teacher's own
// internal/iface package -- a builder that accumulates entries during
// one compiler phase and freezes to an immutable snapshot consumed by
// a later phase -- but the content is unrelated: the teacher's Iface
// is a cross-module *export* interface for AILANG's separate
// compilation (function types, constructors, type exports keyed by
// name, for a different module to import). Gelix's interface table
// tracks ADT-implements-interface conformance for dynamic dispatch
// within a single compiled program; nothing is exported across module
// boundaries by this package.
package iface

import "github.com/gelixlang/gelix/internal/gir"

// Entry is one impl block's contribution to the table: which concrete
// methods on Target realize Iface's abstract methods.
type Entry struct {
	Iface   gir.DeclId
	Target  gir.DeclId
	Impl    gir.DeclId            // the gir.ImplBlock's own DeclId
	Methods map[string]gir.DeclId // interface method name -> Target's implementing function
}

type key struct {
	Iface, Target gir.DeclId
}

// Table is the frozen, read-only interface-implementation table
// produced by Builder.Freeze. It is threaded explicitly through
// resolve.Context and lower.Context rather than held in a package
// global, so multiple modules (or repeated test runs) never share
// mutable state.
type Table struct {
	entries map[key]*Entry
}

// Lookup returns the Entry recording how target implements iface, if
// any impl block declared that conformance.
func (t *Table) Lookup(iface, target gir.DeclId) (*Entry, bool) {
	e, ok := t.entries[key{iface, target}]
	return e, ok
}

// Implements reports whether target has a conformance entry for iface.
func (t *Table) Implements(iface, target gir.DeclId) bool {
	_, ok := t.Lookup(iface, target)
	return ok
}

// MethodFor resolves the concrete function implementing method on
// target's conformance to iface.
func (t *Table) MethodFor(iface, target gir.DeclId, method string) (gir.DeclId, bool) {
	e, ok := t.Lookup(iface, target)
	if !ok {
		return "", false
	}
	id, ok := e.Methods[method]
	return id, ok
}

// Entries returns every recorded conformance, for diagnostics/dumps.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}
