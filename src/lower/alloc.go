package lower

import (
	"tinygo.org/x/go-llvm"

	"tabi/src/model"
)

// ptrToInt8 is the generic byte-pointer type core_alloc/core_dealloc/core_memcpy traffic in.
func (l *Lowerer) ptrToInt8() llvm.Type {
	return llvm.PointerType(l.Ctx.Int8Type(), 0)
}

// forEachIndex emits a counted loop over [0, count) at the current insertion point, invoking body
// with the loop's current index value. Used by emitAlloc/emitUnheap to walk a sized vector's
// elements when the element type itself owns storage (spec.md §4.4's "structure-aware recursive
// unheap"). Grounded on vslc's pattern of lowering loops as condition/body/exit basic blocks
// linked by explicit branches.
func (l *Lowerer) forEachIndex(fn llvm.Value, count llvm.Value, body func(idx llvm.Value)) {
	i := l.intType()
	slot := l.Builder.CreateAlloca(i, l.Labeler.Next("idx"))
	l.Builder.CreateStore(llvm.ConstInt(i, 0, false), slot)

	condBlock := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("loop_cond"))
	bodyBlock := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("loop_body"))
	exitBlock := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("loop_exit"))

	l.Builder.CreateBr(condBlock)

	l.Builder.SetInsertPointAtEnd(condBlock)
	cur := l.Builder.CreateLoad(slot, "")
	cond := l.Builder.CreateICmp(llvm.IntSLT, cur, count, "")
	l.Builder.CreateCondBr(cond, bodyBlock, exitBlock)

	l.Builder.SetInsertPointAtEnd(bodyBlock)
	idx := l.Builder.CreateLoad(slot, "")
	body(idx)
	next := l.Builder.CreateAdd(idx, llvm.ConstInt(i, 1, false), "")
	l.Builder.CreateStore(next, slot)
	l.Builder.CreateBr(condBlock)

	l.Builder.SetInsertPointAtEnd(exitBlock)
}

// currentFunction returns the function the builder's insertion point currently belongs to.
func (l *Lowerer) currentFunction() llvm.Value {
	return l.Builder.GetInsertBlock().Parent()
}

// emitAlloc allocates owned storage for a dynamic type t into addr, the address of t's own
// storage slot (a T* slot for a vector, the struct itself for a table or collection). Grounded on
// spec.md §4.4's allocation matrix: sized vectors call core_alloc sized by element count (then
// allocate each element's own storage when the element type owns any), tables core_alloc one
// column per field sized by row count and then call core_table_init with their column count, and
// collections recurse member-by-member.
func (l *Lowerer) emitAlloc(addr llvm.Value, t *model.Type) {
	r := model.Resolve(t)
	if r == nil {
		return
	}
	switch r.Kind {
	case model.KindVector:
		if r.NumElem == nil {
			return // fuzzy vector: no owned storage to allocate
		}
		elemType := l.lowerType(r.Inner)
		count := l.lowerExpr(r.NumElem)
		count = l.Builder.CreateIntCast(count, l.intType(), "")
		size := l.Builder.CreateTrunc(llvm.SizeOf(elemType), l.intType(), "")
		total := l.Builder.CreateMul(count, size, "")
		raw := l.Builder.CreateCall(l.runtime.alloc, []llvm.Value{total}, "")
		casted := l.Builder.CreateBitCast(raw, llvm.PointerType(elemType, 0), "")
		l.Builder.CreateStore(casted, addr)
		if isDynamic(r.Inner) {
			fn := l.currentFunction()
			l.forEachIndex(fn, count, func(idx llvm.Value) {
				elemAddr := l.Builder.CreateGEP(casted, []llvm.Value{idx}, "")
				l.emitAlloc(elemAddr, r.Inner)
			})
		}

	case model.KindTable:
		if r.NumElem != nil {
			rows := l.Builder.CreateIntCast(l.lowerExpr(r.NumElem), l.intType(), "")
			for i, f := range r.Fields {
				colType := l.lowerType(f.Type)
				size := l.Builder.CreateTrunc(llvm.SizeOf(colType), l.intType(), "")
				raw := l.Builder.CreateCall(l.runtime.alloc, []llvm.Value{l.Builder.CreateMul(rows, size, "")}, "")
				col := l.Builder.CreateBitCast(raw, llvm.PointerType(colType, 0), "")
				l.Builder.CreateStore(col, l.Builder.CreateStructGEP(addr, i, ""))
			}
		}
		castedAddr := l.Builder.CreateBitCast(addr, llvm.PointerType(l.ptrToInt8(), 0), "")
		nFields := llvm.ConstInt(l.intType(), uint64(len(r.Fields)), false)
		l.Builder.CreateCall(l.runtime.tableInit, []llvm.Value{castedAddr, nFields}, "")

	case model.KindCollection:
		for i, m := range r.Members {
			if !isDynamic(m.Type) {
				continue
			}
			memberAddr := l.Builder.CreateStructGEP(addr, i, "")
			l.emitAlloc(memberAddr, m.Type)
		}
	}
}

// deepCopyValue returns a fresh owned copy of v (a value of dynamic type t) suitable for passing
// by value into a callee (spec.md §4.4's "Argument passing"): a vector gets a freshly allocated
// element array memcpy'd from the source, recursing into owned sub-elements; a collection gets a
// memberwise copy with the same recursive treatment for any dynamic member. Aliasing of owned
// storage between caller and callee is never allowed.
func (l *Lowerer) deepCopyValue(v llvm.Value, t *model.Type) llvm.Value {
	r := model.Resolve(t)
	if r == nil {
		return v
	}
	switch r.Kind {
	case model.KindVector:
		if r.NumElem == nil {
			return v // fuzzy vector: no owned storage to copy
		}
		elemType := l.lowerType(r.Inner)
		count := l.Builder.CreateIntCast(l.lowerExpr(r.NumElem), l.intType(), "")
		size := l.Builder.CreateTrunc(llvm.SizeOf(elemType), l.intType(), "")
		total := l.Builder.CreateMul(count, size, "")
		raw := l.Builder.CreateCall(l.runtime.alloc, []llvm.Value{total}, "")
		dst := l.Builder.CreateBitCast(raw, llvm.PointerType(elemType, 0), "")
		srcBytes := l.Builder.CreateBitCast(v, l.ptrToInt8(), "")
		dstBytes := l.Builder.CreateBitCast(dst, l.ptrToInt8(), "")
		l.Builder.CreateCall(l.runtime.memcpy, []llvm.Value{dstBytes, srcBytes, total}, "")
		if isDynamic(r.Inner) {
			fn := l.currentFunction()
			l.forEachIndex(fn, count, func(idx llvm.Value) {
				elemAddr := l.Builder.CreateGEP(dst, []llvm.Value{idx}, "")
				copied := l.deepCopyValue(l.Builder.CreateLoad(elemAddr, ""), r.Inner)
				l.Builder.CreateStore(copied, elemAddr)
			})
		}
		return dst

	case model.KindCollection:
		slot := l.Builder.CreateAlloca(l.lowerType(r), l.Labeler.Next("argcopy"))
		l.Builder.CreateStore(v, slot)
		for i, m := range r.Members {
			if !isDynamic(m.Type) {
				continue
			}
			memberAddr := l.Builder.CreateStructGEP(slot, i, "")
			copied := l.deepCopyValue(l.Builder.CreateLoad(memberAddr, ""), m.Type)
			l.Builder.CreateStore(copied, memberAddr)
		}
		return l.Builder.CreateLoad(slot, "")

	default:
		return v
	}
}

// emitUnheap frees owned storage for a dynamic type t addressed by addr, recursing into nested
// owned elements/members before freeing the outer allocation (spec.md §4.4's unheap statement and
// the context-teardown rule share this routine).
func (l *Lowerer) emitUnheap(addr llvm.Value, t *model.Type) {
	r := model.Resolve(t)
	if r == nil {
		return
	}
	switch r.Kind {
	case model.KindVector:
		if r.NumElem == nil {
			return
		}
		loaded := l.Builder.CreateLoad(addr, "")
		if isDynamic(r.Inner) {
			count := l.lowerExpr(r.NumElem)
			count = l.Builder.CreateIntCast(count, l.intType(), "")
			fn := l.currentFunction()
			l.forEachIndex(fn, count, func(idx llvm.Value) {
				elemAddr := l.Builder.CreateGEP(loaded, []llvm.Value{idx}, "")
				l.emitUnheap(elemAddr, r.Inner)
			})
		}
		casted := l.Builder.CreateBitCast(loaded, l.ptrToInt8(), "")
		l.Builder.CreateCall(l.runtime.dealloc, []llvm.Value{casted}, "")

	case model.KindTable:
		for i := range r.Fields {
			colAddr := l.Builder.CreateStructGEP(addr, i, "")
			col := l.Builder.CreateLoad(colAddr, "")
			casted := l.Builder.CreateBitCast(col, l.ptrToInt8(), "")
			l.Builder.CreateCall(l.runtime.dealloc, []llvm.Value{casted}, "")
		}

	case model.KindCollection:
		for i, m := range r.Members {
			if !isDynamic(m.Type) {
				continue
			}
			memberAddr := l.Builder.CreateStructGEP(addr, i, "")
			l.emitUnheap(memberAddr, m.Type)
		}
	}
}
