package model

import "tabi/src/syntax"

// Context is a named group of globally addressable variables that require explicit capture by
// each function that uses them (spec.md GLOSSARY).
type Context struct {
	Name     string
	HostSlab *Slab
	Node     syntax.Node // declaring tree node, left for the elaborator to revisit; nil once resolved
	Members  map[string]*Variable
	Order    []*Variable // declaration order, for deterministic init/destroy lowering
}

// NewContext returns an empty Context.
func NewContext(name string, hostSlab *Slab) *Context {
	return &Context{Name: name, HostSlab: hostSlab, Members: make(map[string]*Variable)}
}

// AddMember appends v to c, recording it in both the lookup map and the declaration-order slice.
func (c *Context) AddMember(v *Variable) {
	c.Members[v.Name] = v
	c.Order = append(c.Order, v)
}

// Dump is a named group of globally addressable variables that require no capture (spec.md
// GLOSSARY) — a convenience escape hatch over Context.
type Dump struct {
	Name     string
	HostSlab *Slab
	Node     syntax.Node
	Members  map[string]*Variable
	Order    []*Variable
}

// NewDump returns an empty Dump.
func NewDump(name string, hostSlab *Slab) *Dump {
	return &Dump{Name: name, HostSlab: hostSlab, Members: make(map[string]*Variable)}
}

// AddMember appends v to d.
func (d *Dump) AddMember(v *Variable) {
	d.Members[v.Name] = v
	d.Order = append(d.Order, v)
}
