package lower

import (
	"tinygo.org/x/go-llvm"

	"tabi/src/model"
)

// lowerBlock lowers every statement of b in order, stopping early if a statement already left the
// current insertion block terminated (a return nested inside an always-taken conditional, say) —
// emitting anything past a terminator would violate spec.md §8's one-terminator-per-block
// invariant.
func (l *Lowerer) lowerBlock(b *model.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		if l.blockTerminated() {
			return
		}
		l.lowerStatement(stmt)
	}
}

// lowerStatement dispatches one statement to its lowering routine (spec.md §4.4).
func (l *Lowerer) lowerStatement(stmt model.Statement) {
	switch s := stmt.(type) {
	case *model.ReturnStmt:
		l.lowerReturn(s)
	case *model.StackedDeclStmt:
		l.lowerStackedDecl(s)
	case *model.HeapedDeclStmt:
		l.lowerHeapedDecl(s)
	case *model.AssignmentStmt:
		l.lowerAssignment(s)
	case *model.ConditionalStmt:
		l.lowerConditional(s)
	case *model.BranchStmt:
		l.lowerBranch(s)
	case *model.LoopStmt:
		l.lowerLoop(s)
	case *model.ProcedureCallStmt:
		l.lowerProcedureCall(s)
	case *model.VectorSetStmt:
		l.lowerVectorSet(s)
	case *model.TableInsertStmt:
		l.lowerTableInsert(s)
	case *model.TableDeleteStmt:
		l.lowerTableDelete(s)
	case *model.TableMeasureStmt:
		l.lowerTableMeasure(s)
	case *model.TableCrunchStmt:
		l.lowerTableCrunch(s)
	case *model.LabelStmt:
		l.lowerLabel(s)
	case *model.UnheapStmt:
		l.lowerUnheap(s)
	}
}

// lowerReturn gives the caller a value (if any), restoring the function's saved stack marker
// first (spec.md §5: the stack pointer save at entry is matched by a restore "before every
// return").
func (l *Lowerer) lowerReturn(s *model.ReturnStmt) {
	if s.Expression == nil {
		l.emitStackRestoreReturn(l.curStackSlot, model.None)
		return
	}
	val := l.lowerExpr(s.Expression)
	saved := l.Builder.CreateLoad(l.curStackSlot, "")
	l.Builder.CreateCall(l.runtime.stackRestore, []llvm.Value{saved}, "")
	l.Builder.CreateRet(val)
}

// lowerStackedDecl initializes a stack-allocated variable's slot (already created by
// allocateBlockVariables): dynamic types get their owned storage allocated, then any initializer
// expression is stored.
func (l *Lowerer) lowerStackedDecl(s *model.StackedDeclStmt) {
	slot, ok := s.Variable.Store.(llvm.Value)
	if !ok {
		return
	}
	if isDynamic(s.Variable.Type) {
		l.emitAlloc(slot, s.Variable.Type)
	}
	if s.Initializer != nil {
		l.Builder.CreateStore(l.lowerExprAs(s.Initializer, s.Variable.Type), slot)
	}
}

// lowerHeapedDecl allocates the heap payload for a heaped variable and stores its pointer into
// the stack-resident handle slot (spec.md GLOSSARY: "a variable whose handle lives on the stack
// but whose payload is heap-allocated").
func (l *Lowerer) lowerHeapedDecl(s *model.HeapedDeclStmt) {
	slot, ok := s.Variable.Store.(llvm.Value)
	if !ok {
		return
	}
	payloadType := l.lowerType(s.Variable.Type)
	size := l.Builder.CreateTrunc(llvm.SizeOf(payloadType), l.intType(), "")
	raw := l.Builder.CreateCall(l.runtime.alloc, []llvm.Value{size}, "")
	payloadPtr := l.Builder.CreateBitCast(raw, llvm.PointerType(payloadType, 0), "")
	l.Builder.CreateStore(payloadPtr, slot)

	if isDynamic(s.Variable.Type) {
		l.emitAlloc(payloadPtr, s.Variable.Type)
	}
	if s.Initializer != nil {
		l.Builder.CreateStore(l.lowerExprAs(s.Initializer, s.Variable.Type), payloadPtr)
	}
}

// lowerAssignment stores Expression's value at the location Ref addresses.
func (l *Lowerer) lowerAssignment(s *model.AssignmentStmt) {
	target := l.lowerRefLocate(s.Ref)
	l.Builder.CreateStore(l.lowerExprAs(s.Expression, s.Ref.Common().Type), target)
}

// lowerConditional lowers a single-condition/body statement (spec.md §4.4): a condition_eval
// block evaluates the guard, consequence_start lowers the body, and a terminator-less exit falls
// through to consequence_end.
func (l *Lowerer) lowerConditional(s *model.ConditionalStmt) {
	fn := l.currentFunction()
	cond := l.lowerExpr(s.Pair.Condition)
	consStart := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("consequence_start"))
	consEnd := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("consequence_end"))
	l.Builder.CreateCondBr(cond, consStart, consEnd)

	l.Builder.SetInsertPointAtEnd(consStart)
	l.lowerBlock(s.Pair.Block)
	if !l.blockTerminated() {
		l.Builder.CreateBr(consEnd)
	}
	l.Builder.SetInsertPointAtEnd(consEnd)
}

// lowerBranch lowers an ordered list of condition/block twigs plus an optional default block
// (spec.md §4.4): each twig conditionally branches to its own start block or falls through to the
// next twig's condition-eval; every terminator-less exit (twig or default) joins branch_end.
func (l *Lowerer) lowerBranch(s *model.BranchStmt) {
	fn := l.currentFunction()
	branchEnd := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("branch_end"))

	for _, twig := range s.Twigs {
		cond := l.lowerExpr(twig.Condition)
		twigStart := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("twig_start"))
		nextCond := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("twig_cond"))
		l.Builder.CreateCondBr(cond, twigStart, nextCond)

		l.Builder.SetInsertPointAtEnd(twigStart)
		l.lowerBlock(twig.Block)
		if !l.blockTerminated() {
			l.Builder.CreateBr(branchEnd)
		}
		l.Builder.SetInsertPointAtEnd(nextCond)
	}

	if s.Otherwise != nil {
		l.lowerBlock(s.Otherwise)
	}
	if !l.blockTerminated() {
		l.Builder.CreateBr(branchEnd)
	}
	l.Builder.SetInsertPointAtEnd(branchEnd)
}

// lowerLoop lowers a condition-checked-first loop (spec.md §4.4): loop_condition evaluates; a
// true result saves the machine stack pointer, lowers the body, restores the stack pointer and
// branches back to loop_condition; a false result exits. The per-iteration save/restore is what
// makes it safe to declare stacked variables inside the body without unbounded stack growth.
func (l *Lowerer) lowerLoop(s *model.LoopStmt) {
	fn := l.currentFunction()
	condBlock := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("loop_condition"))
	bodyBlock := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("loop_direction_start"))
	exitBlock := l.Ctx.AddBasicBlock(fn, l.Labeler.Next("loop_exit"))

	saveSlot := l.Builder.CreateAlloca(l.ptrToInt8(), l.Labeler.Next("loop_stack"))
	l.Builder.CreateBr(condBlock)
	l.Builder.SetInsertPointAtEnd(condBlock)
	cond := l.lowerExpr(s.Condition)
	l.Builder.CreateCondBr(cond, bodyBlock, exitBlock)

	l.Builder.SetInsertPointAtEnd(bodyBlock)
	saved := l.Builder.CreateCall(l.runtime.stackSave, nil, "")
	l.Builder.CreateStore(saved, saveSlot)

	l.lowerBlock(s.Body)

	if !l.blockTerminated() {
		restore := l.Builder.CreateLoad(saveSlot, "")
		l.Builder.CreateCall(l.runtime.stackRestore, []llvm.Value{restore}, "")
		l.Builder.CreateBr(condBlock)
	}
	l.Builder.SetInsertPointAtEnd(exitBlock)
}

// lowerProcedureCall lowers a function call for effect, deep-copying any argument whose formal
// type owns storage (spec.md §4.4's argument-passing rule, shared with expression calls) and
// discarding the result.
func (l *Lowerer) lowerProcedureCall(s *model.ProcedureCallStmt) {
	fn, ok := s.Callee.Store.(llvm.Value)
	if !ok || fn.IsNil() {
		return
	}
	args := make([]llvm.Value, len(s.Args))
	for i, a := range s.Args {
		want := s.Callee.ArgType(i)
		v := l.lowerExprAs(a, want)
		if want != nil && isDynamic(want) {
			v = l.deepCopyValue(v, want)
		}
		args[i] = v
	}
	l.Builder.CreateCall(fn, args, "")
}

// lowerVectorBase resolves a vector-typed ValueRef to its runtime representation: the address of
// its own storage, honouring any query indirection, loaded once to yield the element pointer
// (mirrors ElementRef lowering in ref.go, since a vector's own storage slot always holds a bare
// element pointer — spec.md §4.4: "A vector lowers to a bare pointer to its element type").
func (l *Lowerer) lowerVectorBase(ref model.ValueRef) llvm.Value {
	storage := l.lowerParentAddr(ref)
	return l.Builder.CreateLoad(storage, "")
}

// lowerVectorSet overwrites a contiguous run of VectorRef's elements starting at From with
// Elements' values (spec.md §3's vector-set statement).
func (l *Lowerer) lowerVectorSet(s *model.VectorSetStmt) {
	base := l.lowerVectorBase(s.VectorRef)
	from := l.Builder.CreateIntCast(l.lowerExpr(s.From), l.intType(), "")
	var elemType *model.Type
	if vecType := model.StripAddress(s.VectorRef.Common().Type); vecType != nil {
		elemType = vecType.Inner
	}
	for i, el := range s.Elements {
		offset := llvm.ConstInt(l.intType(), uint64(i), false)
		idx := l.Builder.CreateAdd(from, offset, "")
		addr := l.Builder.CreateGEP(base, []llvm.Value{idx}, "")
		l.Builder.CreateStore(l.lowerExprAs(el, elemType), addr)
	}
}

// lowerTableInsert lowers a table-insert statement (spec.md §4.4's table-operation contract):
// core_table_insertRow claims the first free row and the chosen id, then each element is stored
// into its field's column at that row.
func (l *Lowerer) lowerTableInsert(s *model.TableInsertStmt) {
	tableAddr := l.lowerParentAddr(s.TableRef)
	tableType := model.StripAddress(s.TableRef.Common().Type)
	if tableType == nil {
		return
	}
	nFields := llvm.ConstInt(l.intType(), uint64(len(tableType.Fields)), false)
	castedTable := l.Builder.CreateBitCast(tableAddr, llvm.PointerType(l.ptrToInt8(), 0), "")

	idSlot := l.Builder.CreateAlloca(l.intType(), l.Labeler.Next("new_id"))
	rowIdx := l.Builder.CreateCall(l.runtime.tableInsertRow, []llvm.Value{castedTable, nFields, idSlot}, l.Labeler.Next("row"))

	for i, el := range s.Elements {
		fieldIndex := i + 2 // skip the synthetic leading id/use columns
		colAddr := l.Builder.CreateStructGEP(tableAddr, fieldIndex, "")
		col := l.Builder.CreateLoad(colAddr, "")
		elemAddr := l.Builder.CreateGEP(col, []llvm.Value{rowIdx}, "")
		var fieldType *model.Type
		if fieldIndex < len(tableType.Fields) {
			fieldType = tableType.Fields[fieldIndex].Type
		}
		l.Builder.CreateStore(l.lowerExprAs(el, fieldType), elemAddr)
	}

	if s.IDRef != nil {
		idVal := l.Builder.CreateLoad(idSlot, "")
		l.Builder.CreateStore(idVal, l.lowerRefLocate(s.IDRef))
	}
}

// lowerTableDelete clears the `use` flag of the row with the given id.
func (l *Lowerer) lowerTableDelete(s *model.TableDeleteStmt) {
	tableAddr := l.lowerParentAddr(s.TableRef)
	tableType := model.StripAddress(s.TableRef.Common().Type)
	if tableType == nil {
		return
	}
	nFields := llvm.ConstInt(l.intType(), uint64(len(tableType.Fields)), false)
	castedTable := l.Builder.CreateBitCast(tableAddr, llvm.PointerType(l.ptrToInt8(), 0), "")
	id := l.Builder.CreateIntCast(l.lowerExpr(s.ID), l.intType(), "")
	l.Builder.CreateCall(l.runtime.tableDeleteByID, []llvm.Value{castedTable, nFields, id}, "")
}

// lowerTableMeasure stores the table's used-row count through UsedRef.
func (l *Lowerer) lowerTableMeasure(s *model.TableMeasureStmt) {
	tableAddr := l.lowerParentAddr(s.TableRef)
	tableType := model.StripAddress(s.TableRef.Common().Type)
	if tableType == nil {
		return
	}
	nFields := llvm.ConstInt(l.intType(), uint64(len(tableType.Fields)), false)
	castedTable := l.Builder.CreateBitCast(tableAddr, llvm.PointerType(l.ptrToInt8(), 0), "")
	used := l.Builder.CreateCall(l.runtime.tableGetNumUsed, []llvm.Value{castedTable, nFields}, l.Labeler.Next("used"))
	l.Builder.CreateStore(used, l.lowerRefLocate(s.UsedRef))
}

// lowerTableCrunch compacts the table's used rows to the front via core_table_crunch, storing the
// next free id through IDRef when requested (spec.md §4.4: "Crunch compacts used rows to the top
// of every field's storage ... it returns the topmost id via an optional out slot").
func (l *Lowerer) lowerTableCrunch(s *model.TableCrunchStmt) {
	tableAddr := l.lowerParentAddr(s.TableRef)
	tableType := model.StripAddress(s.TableRef.Common().Type)
	if tableType == nil {
		return
	}
	nFields := llvm.ConstInt(l.intType(), uint64(len(tableType.Fields)), false)
	castedTable := l.Builder.CreateBitCast(tableAddr, llvm.PointerType(l.ptrToInt8(), 0), "")

	var capacity llvm.Value
	if tableType.NumRows != nil {
		capacity = l.Builder.CreateIntCast(l.lowerExpr(tableType.NumRows), l.intType(), "")
	} else {
		capacity = llvm.ConstInt(l.intType(), 0, false)
	}
	remap := l.Builder.CreateArrayAlloca(l.intType(), capacity, l.Labeler.Next("remap"))
	usedSlot := l.Builder.CreateAlloca(l.intType(), l.Labeler.Next("crunch_used"))

	l.Builder.CreateCall(l.runtime.tableCrunch, []llvm.Value{castedTable, nFields, capacity, remap, usedSlot}, "")

	if s.IDRef != nil {
		idVal := l.Builder.CreateLoad(usedSlot, "")
		l.Builder.CreateStore(idVal, l.lowerRefLocate(s.IDRef))
	}
}

// lowerLabel stores Address into FuzzyRef's own storage slot, tying a fuzzy vector to existing
// memory (spec.md GLOSSARY: "a vector type with no owned length, used to alias externally managed
// storage").
func (l *Lowerer) lowerLabel(s *model.LabelStmt) {
	target := l.lowerRefLocate(s.FuzzyRef)
	l.Builder.CreateStore(l.lowerExprAs(s.Address, s.FuzzyRef.Common().Type), target)
}

// lowerUnheap frees the heap memory Address addresses: any owned nested storage first
// (structure-aware, via emitUnheap), then the root handle itself — Address always evaluates to
// exactly the pointer HeapedDeclStmt allocated via core_alloc (spec.md §4.4: "A final
// core_dealloc of the root handle is emitted unless suppressed by the caller").
func (l *Lowerer) lowerUnheap(s *model.UnheapStmt) {
	addr := l.lowerExpr(s.Address)
	if s.Structure != nil && isDynamic(s.Structure) {
		l.emitUnheap(addr, s.Structure)
	}
	casted := l.Builder.CreateBitCast(addr, l.ptrToInt8(), "")
	l.Builder.CreateCall(l.runtime.dealloc, []llvm.Value{casted}, "")
}
