package lower

import (
	"tinygo.org/x/go-llvm"

	"tabi/src/model"
)

// intType returns the 32-bit integer type (the lowering of Int) used for counts, indices, sizes
// and table ids, the same way vslc's transform.go picks a single `i` for its one integer type.
// Short/Long/Truth keep their own bit widths (see primitiveType).
func (l *Lowerer) intType() llvm.Type { return l.Ctx.Int32Type() }

func (l *Lowerer) sizeType() llvm.Type {
	if l.sizeBits == 64 {
		return l.Ctx.Int64Type()
	}
	return l.Ctx.Int32Type()
}

// primitiveType returns the machine type for a primitive kind.
func (l *Lowerer) primitiveType(p model.PrimitiveKind) llvm.Type {
	switch p {
	case model.PInt:
		return l.Ctx.Int32Type()
	case model.PShort:
		return l.Ctx.Int16Type()
	case model.PLong:
		return l.Ctx.Int64Type()
	case model.PSize:
		return l.sizeType()
	case model.PFloat:
		return l.Ctx.FloatType()
	case model.PDouble:
		return l.Ctx.DoubleType()
	case model.PChar:
		return l.Ctx.Int8Type()
	case model.PTruth:
		return l.Ctx.Int1Type()
	default: // PNone
		return l.Ctx.VoidType()
	}
}

// lowerType maps a model.Type to its LLVM representation, memoizing composite types by pointer
// identity: two distinct *model.Type values never share a cache entry even if structurally
// identical (they still lower to structurally-equal llvm.Type values, so this only costs a
// redundant rebuild, never a wrong one — unlike model.TypesMatch, which is a type-checking
// equality and treats same-kind vectors/tables as equal regardless of shape).
func (l *Lowerer) lowerType(t *model.Type) llvm.Type {
	r := model.Resolve(t)
	if r == nil {
		return l.Ctx.VoidType()
	}
	l.typesMu.Lock()
	if cached, ok := l.types[r]; ok {
		l.typesMu.Unlock()
		return cached
	}
	l.typesMu.Unlock()

	var built llvm.Type
	switch r.Kind {
	case model.KindPrimitive:
		built = l.primitiveType(r.Primitive)
	case model.KindAddress:
		built = llvm.PointerType(l.lowerType(r.Inner), 0)
	case model.KindVector:
		// A vector lowers to a bare pointer to its element type; owned storage (count, if any)
		// is a property of the allocation site, not the type (spec.md §4.4: "pointer to element
		// (element allocation is separate)").
		built = llvm.PointerType(l.lowerType(r.Inner), 0)
	case model.KindCollection:
		named := l.Ctx.StructCreateNamed(r.Name)
		l.typesMu.Lock()
		l.types[r] = named
		l.typesMu.Unlock()
		members := make([]llvm.Type, len(r.Members))
		for i, m := range r.Members {
			members[i] = l.lowerType(m.Type)
		}
		named.StructSetBody(members, false)
		return named
	case model.KindTable:
		fields := make([]llvm.Type, len(r.Fields))
		for i, f := range r.Fields {
			fields[i] = llvm.PointerType(l.lowerType(f.Type), 0)
		}
		built = l.Ctx.StructType(fields, false)
	default:
		built = l.Ctx.VoidType()
	}

	l.typesMu.Lock()
	l.types[r] = built
	l.typesMu.Unlock()
	return built
}

// isDynamic reports whether a variable of type t owns heap storage that must be allocated and
// freed explicitly: a sized vector, a table, or a collection containing either (spec.md §4.4's
// stack/heap/context allocation matrix and context-initialization rule share this predicate).
func isDynamic(t *model.Type) bool {
	r := model.Resolve(t)
	if r == nil {
		return false
	}
	switch r.Kind {
	case model.KindVector:
		return r.NumElem != nil
	case model.KindTable:
		return true
	case model.KindCollection:
		for _, m := range r.Members {
			if isDynamic(m.Type) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
