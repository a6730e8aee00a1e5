package model

import "tabi/src/syntax"

// Block is a lexical scope (spec.md §3): an ordered statement list plus the variables declared
// directly within it. Blocks nest; name lookup walks Parent up to the enclosing function's
// argument list.
type Block struct {
	Node         syntax.Node
	Parent       *Block
	HostFunction *Function
	Statements   []Statement
	Variables    map[string]*Variable
}

// NewBlock returns an empty Block nested under parent (nil for a function's top-level block).
func NewBlock(node syntax.Node, parent *Block, hostFunction *Function) *Block {
	return &Block{
		Node:         node,
		Parent:       parent,
		HostFunction: hostFunction,
		Variables:    make(map[string]*Variable),
	}
}

// Lookup searches this block and its enclosing blocks, then the host function's argument list,
// for a stacked/heaped variable named name. Returns nil if not found.
func (b *Block) Lookup(name string) *Variable {
	for blk := b; blk != nil; blk = blk.Parent {
		if v, ok := blk.Variables[name]; ok {
			return v
		}
	}
	if b != nil && b.HostFunction != nil {
		for _, a := range b.HostFunction.Args {
			if a.Name == name {
				return a
			}
		}
	}
	return nil
}

// Declare adds v to b's own scope. Returns false if name is already declared directly in b
// (the caller is expected to raise a diagnostic in that case).
func (b *Block) Declare(v *Variable) bool {
	if _, exists := b.Variables[v.Name]; exists {
		return false
	}
	b.Variables[v.Name] = v
	return true
}
