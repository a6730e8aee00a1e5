package lower

import (
	"tinygo.org/x/go-llvm"

	"tabi/src/model"
)

// lowerInitDestroy gives every slab its own "<slabID>_init"/"<slabID>_destroy" pair that
// allocates/frees its Context and Dump globals, then has the root module's _tabi_init/_tabi_destroy
// call every slab's pair in attachment-dependency order (spec.md §4.4: "the bundle exposes a single
// _tabi_init/_tabi_destroy that the linker-supplied entry point calls before/after _tabi_main").
// Each slab keeps its own pair, rather than folding every global into the root module, because a
// slab is compiled to its own object file (spec.md §4.5) and must not reach into another module's
// IR to build its globals.
func (l *Lowerer) lowerInitDestroy(root *model.Slab, rootModule llvm.Module) {
	order := topoOrder(root)
	for _, slab := range order {
		l.lowerSlabInitDestroy(slab)
	}

	void := l.Ctx.VoidType()
	fnType := llvm.FunctionType(void, nil, false)

	tabiInit := llvm.AddFunction(rootModule, "_tabi_init", fnType)
	tabiDestroy := llvm.AddFunction(rootModule, "_tabi_destroy", fnType)

	initEntry := l.Ctx.AddBasicBlock(tabiInit, "entry")
	l.Builder.SetInsertPointAtEnd(initEntry)
	for _, slab := range order {
		callee := l.declareExternalVoidFunc(rootModule, slab.ID+"_init")
		l.Builder.CreateCall(callee, nil, "")
	}
	l.Builder.CreateRetVoid()

	destroyEntry := l.Ctx.AddBasicBlock(tabiDestroy, "entry")
	l.Builder.SetInsertPointAtEnd(destroyEntry)
	for i := len(order) - 1; i >= 0; i-- {
		callee := l.declareExternalVoidFunc(rootModule, order[i].ID+"_destroy")
		l.Builder.CreateCall(callee, nil, "")
	}
	l.Builder.CreateRetVoid()
}

// declareExternalVoidFunc declares (or returns the existing declaration for) a niladic void
// function by name in m, used for the calls _tabi_init/_tabi_destroy make across module
// boundaries.
func (l *Lowerer) declareExternalVoidFunc(m llvm.Module, name string) llvm.Value {
	if existing := m.NamedFunction(name); !existing.IsNil() {
		return existing
	}
	return llvm.AddFunction(m, name, llvm.FunctionType(l.Ctx.VoidType(), nil, false))
}

// lowerSlabInitDestroy emits slab's own "<id>_init"/"<id>_destroy" functions, each a sequence of
// global-variable initializations/allocations (init) and structure-aware frees (destroy) over
// every member of every Context and Dump the slab declares. Members of one context or dump are
// handled in declaration order; the order across contexts and dumps is not defined.
func (l *Lowerer) lowerSlabInitDestroy(slab *model.Slab) {
	m := l.modules[slab.ID]
	void := l.Ctx.VoidType()
	fnType := llvm.FunctionType(void, nil, false)

	initFn := llvm.AddFunction(m, slab.ID+"_init", fnType)
	destroyFn := llvm.AddFunction(m, slab.ID+"_destroy", fnType)

	initEntry := l.Ctx.AddBasicBlock(initFn, "entry")
	destroyEntry := l.Ctx.AddBasicBlock(destroyFn, "entry")

	var members []*model.Variable
	for _, ctx := range slab.Contexts {
		members = append(members, ctx.Order...)
	}
	for _, dump := range slab.Dumps {
		members = append(members, dump.Order...)
	}

	l.Builder.SetInsertPointAtEnd(initEntry)
	for _, v := range members {
		l.lowerGlobalInit(m, v)
	}
	l.Builder.CreateRetVoid()

	l.Builder.SetInsertPointAtEnd(destroyEntry)
	for _, v := range members {
		l.lowerGlobalDestroy(v)
	}
	l.Builder.CreateRetVoid()
}

// globalName computes the linkage name for a Context/Dump member, qualified by its host slab so
// that identically named contexts in different slabs never collide.
func globalName(v *model.Variable) string {
	switch {
	case v.HostContext != nil:
		return v.HostContext.HostSlab.ID + "::" + v.HostContext.Name + "." + v.Name
	case v.HostDump != nil:
		return v.HostDump.HostSlab.ID + "::" + v.HostDump.Name + "." + v.Name
	default:
		return v.Name
	}
}

// lowerGlobalInit declares v's backing global and, inside the current insertion point (the
// owning slab's _init body), stores its static initializer and allocates any owned heap storage
// isDynamic types need (spec.md §4.4's context-initialization rule).
func (l *Lowerer) lowerGlobalInit(m llvm.Module, v *model.Variable) {
	t := l.lowerType(v.Type)
	g := llvm.AddGlobal(m, t, globalName(v))
	g.SetInitializer(llvm.ConstNull(t))
	v.Store = g

	if v.Initializer != nil {
		val := l.lowerExpr(v.Initializer)
		l.Builder.CreateStore(val, g)
	}
	if isDynamic(v.Type) {
		l.emitAlloc(g, v.Type)
	}
}

// lowerGlobalDestroy mirrors lowerGlobalInit: recursively frees v's owned storage, if any, inside
// the current insertion point (the owning slab's _destroy body).
func (l *Lowerer) lowerGlobalDestroy(v *model.Variable) {
	if !isDynamic(v.Type) {
		return
	}
	g, _ := v.Store.(llvm.Value)
	l.emitUnheap(g, v.Type)
}
