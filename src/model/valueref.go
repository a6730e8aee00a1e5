package model

// ValueRef is a tagged variant over the ways a storage location can be named: a bare variable,
// a member of a collection, an element of a vector, or a row of a table keyed by id. References
// chain through Parent so `a.b[3].field` elaborates to a RowRef whose Parent is an ElementRef
// whose Parent is a MemberRef whose Parent is a VariableRef.
type ValueRef interface {
	Common() *RefCommon
}

// RefCommon holds the fields shared by all ValueRef variants (spec.md §3).
type RefCommon struct {
	Parent ValueRef // nil for VariableRef
	Type   *Type     // type of the value this reference addresses
	Query  bool       // true when the query operator `@` was applied

	Store any // opaque IR address handle, set during lowering
}

func (c *RefCommon) Common() *RefCommon { return c }

// VariableRef names a Variable directly, either a local or a captured Context/Dump member.
type VariableRef struct {
	RefCommon
	Variable *Variable
	HostSlab *Slab
}

// MemberRef addresses a named member of a CollectionType.
type MemberRef struct {
	RefCommon
	MemberName  string
	MemberIndex int
}

// ElementRef addresses an indexed element of a VectorType.
type ElementRef struct {
	RefCommon
	Index Expression
}

// RowRef addresses a named field of a table row keyed by a runtime id expression.
type RowRef struct {
	RefCommon
	FieldName  string
	ID         Expression
	FieldIndex int
}
