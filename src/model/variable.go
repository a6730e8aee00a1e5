package model

// VarKind tags which storage class a Variable belongs to (spec.md §3).
type VarKind int

const (
	VarStacked VarKind = iota
	VarHeaped
	VarContext
	VarDump
)

// Variable is a named, typed storage location. Its Store field is set by the lowerer to an
// opaque handle (an llvm.Value, in package lower) whose meaning depends on Kind: for Stacked,
// Context and Dump variables it is the direct storage address; for Heaped variables it is the
// address of the slot that itself holds the heap payload pointer, so loading it twice is needed
// to reach the payload (spec.md §3).
type Variable struct {
	Kind VarKind
	Name string
	Type *Type
	Pos

	HostBlock   *Block   // VarStacked, VarHeaped
	HostContext *Context // VarContext
	HostDump    *Dump    // VarDump

	Initializer Expression // VarContext, VarDump: must be a static expression

	Store any // opaque IR storage handle, set during lowering
}
