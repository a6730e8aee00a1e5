package model

import "tabi/src/syntax"

// Slab is one source file and its derived per-file compilation unit (spec.md §3). Within one
// slab each alias and each declared name is unique — enforced by whatever is populating the
// maps (package bundle for Attachments, the create pass for Functions/Types/Contexts/Dumps).
type Slab struct {
	ID     string // canonical id: "LOCAL_<resolved-path>" or "EXTERNAL_<relative-id>"
	Name   string // short name, e.g. the base file name without extension
	Path   string // resolved filesystem path, used to resolve sibling local attachments
	Source string // preprocessed source text
	Tree   syntax.Node

	Attachments map[string]*Slab // alias -> attached slab
	Functions   map[string]*Function
	Types       map[string]*Type
	Contexts    map[string]*Context
	Dumps       map[string]*Dump

	IRModule any // opaque *llvm.Module handle, set during lowering
}

// NewSlab returns an empty Slab ready to receive declarations from the create pass.
func NewSlab(id, name, path, source string, tree syntax.Node) *Slab {
	return &Slab{
		ID:          id,
		Name:        name,
		Path:        path,
		Source:      source,
		Tree:        tree,
		Attachments: make(map[string]*Slab),
		Functions:   make(map[string]*Function),
		Types:       make(map[string]*Type),
		Contexts:    make(map[string]*Context),
		Dumps:       make(map[string]*Dump),
	}
}
