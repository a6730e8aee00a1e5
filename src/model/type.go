package model

import "tabi/src/syntax"

// PrimitiveKind enumerates tabi's foundational types (spec.md §3).
type PrimitiveKind int

const (
	PInt PrimitiveKind = iota
	PShort
	PLong
	PSize
	PFloat
	PDouble
	PChar
	PTruth
	PNone
)

var primitiveNames = [...]string{
	"Int", "Short", "Long", "Size", "Float", "Double", "Char", "Truth", "None",
}

func (p PrimitiveKind) String() string {
	if int(p) < 0 || int(p) >= len(primitiveNames) {
		return "?"
	}
	return primitiveNames[p]
}

// EquivClass groups primitives that share an arithmetic lowering family (spec.md §4.3's
// "primitive-equivalence classes INT/FLOAT/CHAR"), used by the lowerer to pick the right LLVM
// instruction family for a binary operation.
type EquivClass int

const (
	EquivInt EquivClass = iota
	EquivFloat
	EquivChar
	EquivTruth
	EquivNone
)

func (p PrimitiveKind) equivClass() EquivClass {
	switch p {
	case PInt, PShort, PLong, PSize:
		return EquivInt
	case PFloat, PDouble:
		return EquivFloat
	case PChar:
		return EquivChar
	case PTruth:
		return EquivTruth
	default:
		return EquivNone
	}
}

// TypeKind tags which variant of the Type union is populated.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindCollection
	KindAddress
	KindVector
	KindTable
	KindAlias
)

// Member is one field of a CollectionType, in declared order.
type Member struct {
	Name  string
	Type  *Type
	Index int
}

// TableField is one column of a TableType, including the two synthetic leading fields "id" and
// "use" which always occupy indices 0 and 1.
type TableField struct {
	Name  string
	Type  *Type
	Index int
}

// Type is a tagged variant over every type former spec.md §3 names. Only top-level named types
// (declared collections and aliases) carry cleanup ownership via TopLevel; anonymous composite
// types (an inline Vec[...] in a signature, say) do not.
type Type struct {
	Kind TypeKind

	// Named, top-level types (collections and aliases declared at slab scope).
	Name     string
	TopLevel bool
	HostSlab *Slab
	Node     syntax.Node // declaring tree node, left for the elaborator to revisit; nil once resolved

	// KindPrimitive
	Primitive PrimitiveKind

	// KindCollection
	Members []Member

	// KindAddress, KindVector: the pointee / element type.
	Inner *Type

	// KindVector: nil NumElem means a "fuzzy" vector (a bare pointer with no owned storage).
	NumElem Expression

	// KindTable
	Fields  []TableField
	NumRows Expression

	// KindAlias: transparent indirection. Never mutated in place once set; typesMatch and every
	// other consumer follow Alias rather than overwriting the slot (spec.md §9 design note).
	Alias *Type
}

// Process-wide primitive singletons (spec.md §3: "Primitive singletons are shared
// process-wide"), confirmed against original_source/include/tabic/model/type.hpp's
// SupportedPrimitives table. Kept as package-level values rather than mutable global state: they
// are immutable after init, so sharing them introduces no hidden coupling between bundles.
var (
	Int    = &Type{Kind: KindPrimitive, Primitive: PInt, Name: "Int"}
	Short  = &Type{Kind: KindPrimitive, Primitive: PShort, Name: "Short"}
	Long   = &Type{Kind: KindPrimitive, Primitive: PLong, Name: "Long"}
	Size   = &Type{Kind: KindPrimitive, Primitive: PSize, Name: "Size"}
	Float  = &Type{Kind: KindPrimitive, Primitive: PFloat, Name: "Float"}
	Double = &Type{Kind: KindPrimitive, Primitive: PDouble, Name: "Double"}
	Char   = &Type{Kind: KindPrimitive, Primitive: PChar, Name: "Char"}
	Truth  = &Type{Kind: KindPrimitive, Primitive: PTruth, Name: "Truth"}
	None   = &Type{Kind: KindPrimitive, Primitive: PNone, Name: "None"}
)

// primitivesByName resolves the grammar's primitive type tokens to their singleton.
var primitivesByName = map[string]*Type{
	"Int": Int, "Short": Short, "Long": Long, "Size": Size,
	"Float": Float, "Double": Double, "Char": Char, "Truth": Truth, "None": None,
}

// PrimitiveByName returns the shared singleton for a primitive type token, and false if name
// does not name a primitive.
func PrimitiveByName(name string) (*Type, bool) {
	t, ok := primitivesByName[name]
	return t, ok
}

// Resolve follows a chain of aliases down to the first non-alias type. Every other part of the
// model that needs to know a type's "real" shape (typesMatch, the lowerer's type table, member
// lookup) must go through Resolve rather than assume t is already non-alias.
func Resolve(t *Type) *Type {
	for t != nil && t.Kind == KindAlias {
		t = t.Alias
	}
	return t
}

// IsAddress reports whether t resolves (through aliases) to an address type.
func IsAddress(t *Type) bool {
	r := Resolve(t)
	return r != nil && r.Kind == KindAddress
}

// StripAddress walks through alias and (one level of) address indirection, used when a `.field`
// or `[index]` subreference lands on an address-to-collection/vector (spec.md §4.3: "the parent
// type must be a collection (or an address chain ending in one, auto-stripped)").
func StripAddress(t *Type) *Type {
	r := Resolve(t)
	for r != nil && r.Kind == KindAddress {
		r = Resolve(r.Inner)
	}
	return r
}

// TypesMatch reports whether a and b describe the same type, resolving aliases transparently.
// Primitive and Collection kinds are compared nominally (pointer identity on the resolved type,
// collections being declared-not-structural). Address types recurse into their pointee. Vector
// and Table kinds match on Kind alone once resolved — per the source's observed behavior, see
// DESIGN.md's Open Question resolution — without comparing element/field type or count, so two
// separately allocated `Vec[Int,3]` occurrences (e.g. a call-site argument's anonymous type and
// a formal parameter's) match even though they are distinct *Type values.
func TypesMatch(a, b *Type) bool {
	ra, rb := Resolve(a), Resolve(b)
	if ra == nil || rb == nil {
		return ra == rb
	}
	if ra.Kind != rb.Kind {
		return false
	}
	switch ra.Kind {
	case KindPrimitive:
		return ra.Primitive == rb.Primitive
	case KindAddress:
		return TypesMatch(ra.Inner, rb.Inner)
	case KindVector, KindTable:
		return true
	default:
		return ra == rb
	}
}

// EquivClassOf returns the primitive-equivalence class of t (resolved through aliases), or
// EquivNone if t does not resolve to a primitive.
func EquivClassOf(t *Type) EquivClass {
	r := Resolve(t)
	if r == nil || r.Kind != KindPrimitive {
		return EquivNone
	}
	return r.Primitive.equivClass()
}

// IsNone reports whether t is the None primitive (through aliases). A None-typed argument — the
// literal null — is admitted against any formal parameter type regardless of want (spec.md §4.3).
func IsNone(t *Type) bool {
	r := Resolve(t)
	return r != nil && r.Kind == KindPrimitive && r.Primitive == PNone
}
