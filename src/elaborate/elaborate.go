// Package elaborate implements spec.md §4.3's semantic elaborator: the pass that runs after every
// slab in a bundle has been shallowly created, resolving every name, typing every expression and
// checking every statement against the now-fully-visible cross-slab declaration graph. It depends
// on both model (the declarations it fills in) and bundle (the slab graph it walks), which is why
// it is a separate package from bundle: model must not import bundle, so the create pass that
// bundle performs cannot also house elaboration without an import cycle.
package elaborate

import (
	"tabi/src/bundle"
	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/util"
)

// Elaborator carries the bundle-wide state threaded through every elaboration step: the
// diagnostic sink, and the set of types currently being elaborated, used
// to detect the "cycles are not expected" case spec.md §4.3 calls out for alias resolution.
// typeStack mirrors inProgress's membership test but preserves descent order, so a detected cycle
// can name the whole alias chain rather than just the type that closed the loop.
type Elaborator struct {
	Bundle *bundle.Bundle
	Diags  *diag.Collector

	inProgress map[*model.Type]bool
	typeStack  *util.NameStack
}

// New returns an Elaborator ready to process b.
func New(b *bundle.Bundle, diags *diag.Collector) *Elaborator {
	return &Elaborator{Bundle: b, Diags: diags, inProgress: make(map[*model.Type]bool), typeStack: &util.NameStack{}}
}

// Run elaborates every slab in the bundle: types first, then contexts and dumps, then functions
// (spec.md §4.3: "Processes types, then contexts and dumps, then functions").
func (e *Elaborator) Run() {
	for _, slab := range e.Bundle.Slabs {
		for _, t := range slab.Types {
			e.elaborateType(t)
		}
	}
	for _, slab := range e.Bundle.Slabs {
		for _, ctx := range slab.Contexts {
			e.elaborateContext(ctx)
		}
		for _, dump := range slab.Dumps {
			e.elaborateDump(dump)
		}
	}
	for _, slab := range e.Bundle.Slabs {
		for _, fn := range slab.Functions {
			e.elaborateFunction(fn)
		}
	}
}

func (e *Elaborator) report(line, col int, kind diag.Kind, message, detail string) {
	if e.Diags == nil {
		return
	}
	e.Diags.Append(diag.Diagnostic{Line: line, Col: col, Kind: kind, Message: message, Detail: detail})
}
