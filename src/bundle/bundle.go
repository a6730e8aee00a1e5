// Package bundle owns the whole-compilation unit: the set of slabs reachable from a root file,
// and the loader/attachment-resolution/declaration-creation logic that populates it (spec.md
// §4.1-§4.2). It depends on model for the declaration types it creates but knows nothing of
// elaboration or IR lowering, so model never needs to import it back.
package bundle

import (
	"github.com/google/uuid"

	"tabi/src/model"
)

// Bundle is the top-level compilation unit: every slab reachable from RootID, keyed by its
// canonical identifier (spec.md §3).
type Bundle struct {
	Slabs  map[string]*model.Slab
	RootID string

	// RunID tags one compiler invocation, printed in --show-ast/--show-ir banners so multiple
	// runs piped to the same log can be told apart.
	RunID string

	// InitFunc and DestroyFunc are the bundle-wide _tabi_init/_tabi_destroy lowering anchors.
	// They are opaque handles set by package lower; bundle never inspects them.
	InitFunc    any
	DestroyFunc any
}

// New returns an empty Bundle with a fresh run identifier.
func New() *Bundle {
	return &Bundle{
		Slabs: make(map[string]*model.Slab, 8),
		RunID: uuid.NewString(),
	}
}

// Root returns the root slab, or nil if the bundle has not been loaded yet.
func (b *Bundle) Root() *model.Slab {
	return b.Slabs[b.RootID]
}

// Add registers slab under its own ID. It is a no-op if a slab with that ID already exists,
// matching the loader's "return the cached slab" tolerance for repeated attachment references.
func (b *Bundle) Add(slab *model.Slab) *model.Slab {
	if existing, ok := b.Slabs[slab.ID]; ok {
		return existing
	}
	b.Slabs[slab.ID] = slab
	return slab
}
