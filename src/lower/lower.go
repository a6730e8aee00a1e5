// Package lower implements spec.md §4.4's IR lowerer ("build" pass): it walks the fully
// elaborated model and emits one LLVM module per slab, plus the two bundle-wide functions
// _tabi_init and _tabi_destroy. It and emit are the only packages that import tinygo.org/x/go-llvm — every
// upstream package (model, bundle, elaborate) carries IR handles only as opaque `any` fields, so
// that swapping backends would touch only this package and emit.
//
// Grounded on vslc's ir/llvm/transform.go: a single llvm.Context/Builder pair threaded through
// the whole pass, one llvm.Module per compilation unit, and a symbol table mapping names to
// llvm.Value. tabi generalizes this to per-slab modules, a richer type lattice, and the
// structured stack/heap/context allocation discipline spec.md §4.4 describes.
package lower

import (
	"fmt"
	"sync"

	"tinygo.org/x/go-llvm"

	"tabi/src/bundle"
	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/util"
)

// Lowerer carries every piece of state shared across slabs during one compilation: the LLVM
// context/builder pair (spec.md §5: "single-threaded and synchronous throughout" — one builder,
// its insertion point restored explicitly around any recursion that moves it), the machine
// pointer width, the runtime helper declarations, and a memoized type cache keyed by *model.Type
// pointer identity (a cache-granularity choice distinct from model.TypesMatch's type-checking
// equality, which treats same-kind vectors/tables as equal regardless of shape).
type Lowerer struct {
	Bundle *bundle.Bundle
	Diags  *diag.Collector

	Ctx     llvm.Context
	Builder llvm.Builder
	Labeler *util.Labeler

	sizeBits int // 32 or 64, chosen to match the host pointer width

	types   map[*model.Type]llvm.Type
	typesMu sync.Mutex

	modules map[string]llvm.Module // slab ID -> module

	runtime runtimeFuncs

	// curStackSlot/curRetType track the function currently being lowered, so that any return
	// statement nested arbitrarily deep in its body can restore the right stack marker and return
	// the right type without threading them through every statement-lowering call.
	curStackSlot llvm.Value
	curRetType   *model.Type
}

// New returns a Lowerer ready to process b. sizeBits selects the machine width for model.Size
// (spec.md §4.4: "choosing 32- or 64-bit Size to match host pointer size").
func New(b *bundle.Bundle, diags *diag.Collector, sizeBits int) *Lowerer {
	ctx := llvm.NewContext()
	return &Lowerer{
		Bundle:   b,
		Diags:    diags,
		Ctx:      ctx,
		Builder:  ctx.NewBuilder(),
		Labeler:  util.NewLabeler(),
		sizeBits: sizeBits,
		types:    make(map[*model.Type]llvm.Type, 64),
		modules:  make(map[string]llvm.Module, len(b.Slabs)),
	}
}

// Dispose releases the underlying LLVM context and builder.
func (l *Lowerer) Dispose() {
	l.Builder.Dispose()
	l.Ctx.Dispose()
}

// Module returns the lowered module for a slab ID, panicking if Run has not produced it yet —
// a programmer error, never a user-facing one.
func (l *Lowerer) Module(slabID string) llvm.Module {
	m, ok := l.modules[slabID]
	if !ok {
		panic(fmt.Sprintf("lower: no module for slab %q", slabID))
	}
	return m
}

// Run lowers the whole bundle: one module per slab, then the bundle-wide init/destroy anchors,
// then every function signature, then every local function body (spec.md §4.4's fixed order).
func (l *Lowerer) Run() error {
	for id, slab := range l.Bundle.Slabs {
		m := l.Ctx.NewModule(moduleName(slab.Name))
		l.modules[id] = m
		slab.IRModule = &m
	}
	root := l.Bundle.Root()
	if root == nil {
		return fmt.Errorf("lower: bundle has no root slab")
	}
	rootModule := l.modules[root.ID]
	l.runtime = declareRuntime(l.Ctx, rootModule, l.intType())

	l.lowerInitDestroy(root, rootModule)

	for _, slab := range l.Bundle.Slabs {
		m := l.modules[slab.ID]
		for _, fn := range slab.Functions {
			l.registerFunction(fn, m)
		}
	}
	for _, slab := range l.Bundle.Slabs {
		for _, fn := range slab.Functions {
			if fn.Kind == model.FuncLocal {
				l.lowerFunctionBody(fn)
			}
		}
	}
	return nil
}

func moduleName(slabName string) string {
	if slabName == "" {
		return "tabi_module"
	}
	return slabName
}

// QualifyFunction computes a function's fully qualified IR symbol name (spec.md §4.4): the root
// slab's local "main" becomes "_tabi_main"; everything else is "<slab-id>::<name>".
func (l *Lowerer) QualifyFunction(fn *model.Function) string {
	if fn.Kind != model.FuncLocal {
		return fn.ExternalName
	}
	if fn.HostSlab != nil && fn.HostSlab.ID == l.Bundle.RootID && fn.Name == "main" {
		return "_tabi_main"
	}
	return fn.HostSlab.ID + "::" + fn.Name
}
