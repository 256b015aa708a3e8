package iface

import "github.com/gelixlang/gelix/internal/gir"

// Builder accumulates interface-implementation entries during the
// fill pass (pass b) and freezes to an immutable Table before lowering
// (pass c) begins, the same builder/freeze split the teacher's own
// interface builder uses between construction and consumption.
type Builder struct {
	entries map[key]*Entry
	frozen  bool
}

// NewBuilder creates an empty, mutable interface table builder.
func NewBuilder() *Builder {
	return &Builder{entries: map[key]*Entry{}}
}

// Add records that target implements iface via impl (the originating
// ImplBlock's DeclId), with methods mapping each interface method name
// to the concrete function that realizes it.
func (b *Builder) Add(iface, target, impl gir.DeclId, methods map[string]gir.DeclId) {
	if b.frozen {
		panic("iface: Add called on a frozen Builder")
	}
	b.entries[key{iface, target}] = &Entry{
		Iface:   iface,
		Target:  target,
		Impl:    impl,
		Methods: methods,
	}
}

// Implements reports a conformance already recorded in this builder,
// useful for the fill pass to detect duplicate impl blocks for the
// same (iface, target) pair before freezing.
func (b *Builder) Implements(iface, target gir.DeclId) bool {
	_, ok := b.entries[key{iface, target}]
	return ok
}

// Freeze returns an immutable Table snapshot and marks the builder
// closed to further Add calls. Lowering receives only the frozen
// Table, never the Builder, so it cannot observe a table still being
// mutated by a concurrent fill pass over another module.
func (b *Builder) Freeze() *Table {
	b.frozen = true
	snapshot := make(map[key]*Entry, len(b.entries))
	for k, v := range b.entries {
		snapshot[k] = v
	}
	return &Table{entries: snapshot}
}
