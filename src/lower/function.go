package lower

import (
	"tinygo.org/x/go-llvm"

	"tabi/src/model"
)

// registerFunction creates fn's IR handle and signature in m, computing its fully qualified
// symbol name (spec.md §4.4's "Function lowering order", step one: "register every function ...
// then lower every local function body").
func (l *Lowerer) registerFunction(fn *model.Function, m llvm.Module) {
	if fn.Kind == model.FuncCore {
		return // core runtime helpers are declared once via declareRuntime, not per-slab
	}
	name := l.QualifyFunction(fn)
	retType := l.lowerType(fn.ReturnType)

	var params []llvm.Type
	switch fn.Kind {
	case model.FuncLocal:
		params = make([]llvm.Type, len(fn.Args))
		for i, a := range fn.Args {
			params[i] = l.lowerType(a.Type)
		}
	case model.FuncExternal:
		params = make([]llvm.Type, len(fn.ArgTypes))
		for i, t := range fn.ArgTypes {
			params[i] = l.lowerType(t)
		}
	}

	fnType := llvm.FunctionType(retType, params, false)
	if existing := m.NamedFunction(name); !existing.IsNil() {
		fn.Store = existing
		return
	}
	irFn := llvm.AddFunction(m, name, fnType)
	irFn.SetFunctionCallConv(l.callingConvention())
	fn.Store = irFn
}

// callingConvention chooses the platform calling convention spec.md §4.4 calls for ("Windows
// x64 vs. System V x86-64"); both resolve to LLVM's default C convention, which go-llvm's target
// machine already lowers per the host triple, so tabi only needs to name the choice, not hand-
// encode it.
func (l *Lowerer) callingConvention() llvm.CallConv {
	return llvm.CCallConv
}

// lowerFunctionBody emits fn's IR body (spec.md §4.4's "Local function body"): a dedicated
// stack_alloc entry block that saves the machine stack pointer, stack slots for every argument
// (deep-copying any that own vector/collection storage) and every stacked/heaped variable
// declared anywhere beneath the entry, then the body proper in a fresh block.
func (l *Lowerer) lowerFunctionBody(fn *model.Function) {
	irFn, ok := fn.Store.(llvm.Value)
	if !ok || irFn.IsNil() {
		return
	}
	entry := l.Ctx.AddBasicBlock(irFn, "stack_alloc")
	l.Builder.SetInsertPointAtEnd(entry)

	stackSlot := l.Builder.CreateAlloca(l.ptrToInt8(), "saved_stack")
	saved := l.Builder.CreateCall(l.runtime.stackSave, nil, "")
	l.Builder.CreateStore(saved, stackSlot)

	for i, a := range fn.Args {
		argType := l.lowerType(a.Type)
		slot := l.Builder.CreateAlloca(argType, a.Name)
		incoming := irFn.Param(i)
		if isDynamic(a.Type) {
			incoming = l.deepCopyValue(incoming, a.Type)
		}
		l.Builder.CreateStore(incoming, slot)
		a.Store = slot
	}

	if fn.Body != nil {
		l.allocateBlockVariables(irFn, fn.Body)
	}

	body := l.Ctx.AddBasicBlock(irFn, "entry")
	l.Builder.CreateBr(body)
	l.Builder.SetInsertPointAtEnd(body)

	l.curStackSlot, l.curRetType = stackSlot, fn.ReturnType
	if fn.Body != nil {
		l.lowerBlock(fn.Body)
	}
	l.terminateIfOpen(irFn, stackSlot, fn.ReturnType)
}

// allocateBlockVariables walks b and every block nested beneath it (conditional/branch/loop
// bodies) creating a stack slot for each stacked variable and a separate pointer-holding slot for
// each heaped variable's handle, up front (spec.md §4.4: "heaped handles declared inside loops
// must survive iteration" — the one-time stack save at entry would otherwise reclaim a loop-local
// alloca on the very first backedge).
func (l *Lowerer) allocateBlockVariables(fn llvm.Value, b *model.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *model.StackedDeclStmt:
			l.allocateVariable(s.Variable)
		case *model.HeapedDeclStmt:
			l.allocateVariable(s.Variable)
		case *model.ConditionalStmt:
			l.allocateBlockVariables(fn, s.Pair.Block)
		case *model.BranchStmt:
			for _, twig := range s.Twigs {
				l.allocateBlockVariables(fn, twig.Block)
			}
			l.allocateBlockVariables(fn, s.Otherwise)
		case *model.LoopStmt:
			l.allocateBlockVariables(fn, s.Body)
		}
	}
}

// allocateVariable gives v a stack slot sized to its type: a pointer-holding slot for a heaped
// variable's handle (spec.md §3: "for Heaped variables [Store] is the address of the slot that
// itself holds the heap payload pointer"), a direct slot otherwise. Not initialized here —
// initialization happens when the corresponding declaration statement lowers (spec.md §4.4's
// stack/heap allocation matrix).
func (l *Lowerer) allocateVariable(v *model.Variable) {
	t := l.lowerType(v.Type)
	if v.Kind == model.VarHeaped {
		t = llvm.PointerType(t, 0)
	}
	slot := l.Builder.CreateAlloca(t, v.Name)
	v.Store = slot
}

// blockTerminated reports whether the current insertion block already ends in a terminator
// instruction, used throughout control-flow lowering to decide whether a terminator-less exit
// point needs an explicit fallthrough branch (spec.md §8: "every basic block ends in exactly one
// terminator").
func (l *Lowerer) blockTerminated() bool {
	cur := l.Builder.GetInsertBlock()
	last := cur.LastInstruction()
	return !last.IsNil() && !last.IsATerminatorInst().IsNil()
}

// terminateIfOpen emits the implicit exit spec.md §4.4 requires of every terminator-less path: a
// stack restore of the marker saved at entry, then a zero-of-return-type return (void for a
// None-returning function).
func (l *Lowerer) terminateIfOpen(fn llvm.Value, stackSlot llvm.Value, retType *model.Type) {
	if l.blockTerminated() {
		return
	}
	l.emitStackRestoreReturn(stackSlot, retType)
}

// emitStackRestoreReturn restores the saved stack pointer and returns from the current insertion
// point, used both for the function's implicit fallthrough exit and for every explicit return
// statement (spec.md §5: "scoped acquisition of the machine stack pointer brackets every local
// function").
func (l *Lowerer) emitStackRestoreReturn(stackSlot llvm.Value, retType *model.Type) {
	saved := l.Builder.CreateLoad(stackSlot, "")
	l.Builder.CreateCall(l.runtime.stackRestore, []llvm.Value{saved}, "")
	r := model.Resolve(retType)
	if r != nil && r.Kind == model.KindPrimitive && r.Primitive == model.PNone {
		l.Builder.CreateRetVoid()
		return
	}
	l.Builder.CreateRet(llvm.ConstNull(l.lowerType(retType)))
}
