package lower

import (
	"tinygo.org/x/go-llvm"

	"tabi/src/model"
)

// lowerRefAddr returns the address of the storage location ref names — its Common().Type, minus
// any trailing query indirection (handled separately by lowerRefValue/lowerRefLocate). Grounded on
// vslc's transform.go pattern of a single recursive "get the lvalue address" helper feeding both
// loads and stores.
func (l *Lowerer) lowerRefAddr(ref model.ValueRef) llvm.Value {
	switch rr := ref.(type) {
	case *model.VariableRef:
		store, _ := rr.Variable.Store.(llvm.Value)
		if rr.Variable.Kind == model.VarHeaped {
			return l.Builder.CreateLoad(store, "")
		}
		return store

	case *model.MemberRef:
		parentAddr := l.lowerParentAddr(rr.Parent)
		return l.Builder.CreateStructGEP(parentAddr, rr.MemberIndex, "")

	case *model.ElementRef:
		parentAddr := l.lowerParentAddr(rr.Parent)
		vecPtr := l.Builder.CreateLoad(parentAddr, "")
		idx := l.Builder.CreateIntCast(l.lowerExpr(rr.Index), l.intType(), "")
		return l.Builder.CreateGEP(vecPtr, []llvm.Value{idx}, "")

	case *model.RowRef:
		parentAddr := l.lowerParentAddr(rr.Parent)
		tableType := model.StripAddress(rr.Parent.Common().Type)
		nFields := llvm.ConstInt(l.intType(), uint64(len(tableType.Fields)), false)
		id := l.Builder.CreateIntCast(l.lowerExpr(rr.ID), l.intType(), "")
		castedTable := l.Builder.CreateBitCast(parentAddr, llvm.PointerType(l.ptrToInt8(), 0), "")
		rowIdx := l.Builder.CreateCall(l.runtime.tableGetRowByID, []llvm.Value{castedTable, nFields, id}, "")
		colAddr := l.Builder.CreateStructGEP(parentAddr, rr.FieldIndex, "")
		col := l.Builder.CreateLoad(colAddr, "")
		return l.Builder.CreateGEP(col, []llvm.Value{rowIdx}, "")

	default:
		return llvm.Value{}
	}
}

// lowerParentAddr resolves a sub-reference's Parent to the address of its own storage, honouring
// any query (`@`) indirection the elaborator recorded on it (spec.md §4.3: a queried reference's
// "value" is already the address it points to, one level of pointer-ness removed).
func (l *Lowerer) lowerParentAddr(parent model.ValueRef) llvm.Value {
	addr := l.lowerRefAddr(parent)
	if parent.Common().Query {
		return l.Builder.CreateLoad(addr, "")
	}
	return addr
}

// lowerRefValue loads the value ref addresses, honouring its own trailing query indirection.
func (l *Lowerer) lowerRefValue(ref model.ValueRef) llvm.Value {
	addr := l.lowerRefAddr(ref)
	if ref.Common().Query {
		addr = l.Builder.CreateLoad(addr, "")
	}
	return l.Builder.CreateLoad(addr, "")
}

// lowerRefLocate returns the address ref names, honouring its own trailing query indirection —
// used for the `?` locate operator and for assignment/table/vector-set targets.
func (l *Lowerer) lowerRefLocate(ref model.ValueRef) llvm.Value {
	addr := l.lowerRefAddr(ref)
	if ref.Common().Query {
		return l.Builder.CreateLoad(addr, "")
	}
	return addr
}
