package elaborate

import (
	"testing"

	"tabi/src/bundle"
	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

func newTestSlab(id string) *model.Slab {
	s := model.NewSlab(id, id, "/"+id+".tabi", "", nil)
	return s
}

func TestElaborateTypeAliasToPrimitive(t *testing.T) {
	slab := newTestSlab("s")
	ref := syntax.New(syntax.KindNamedType, "Int", 1, 1)
	aliasNode := syntax.New(syntax.KindAliasDecl, "MyInt", 1, 1, ref)
	ty := &model.Type{Kind: model.KindAlias, Name: "MyInt", HostSlab: slab, Node: aliasNode}
	slab.Types["MyInt"] = ty

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateType(ty)
	diags.Stop()

	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Diagnostics())
	}
	if ty.Node != nil {
		t.Fatal("Node should be cleared once resolved")
	}
	if model.Resolve(ty) != model.Int {
		t.Fatalf("Resolve(MyInt) = %v, want Int", model.Resolve(ty))
	}
}

func TestElaborateTypeCollection(t *testing.T) {
	slab := newTestSlab("s")
	namedInt := syntax.New(syntax.KindNamedType, "Int", 1, 1)
	namedFloat := syntax.New(syntax.KindNamedType, "Float", 1, 1)
	memberX := syntax.New(syntax.KindMember, "x", 1, 1, namedInt)
	memberY := syntax.New(syntax.KindMember, "y", 1, 1, namedFloat)
	typeDecl := syntax.New(syntax.KindTypeDecl, "Point", 1, 1, memberX, memberY)
	ty := &model.Type{Name: "Point", TopLevel: true, HostSlab: slab, Node: typeDecl}
	slab.Types["Point"] = ty

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateType(ty)
	diags.Stop()

	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Diagnostics())
	}
	if ty.Kind != model.KindCollection {
		t.Fatalf("Kind = %v, want KindCollection", ty.Kind)
	}
	if len(ty.Members) != 2 || ty.Members[0].Name != "x" || ty.Members[0].Type != model.Int ||
		ty.Members[1].Name != "y" || ty.Members[1].Type != model.Float {
		t.Fatalf("Members = %+v, want [x:Int y:Float]", ty.Members)
	}
}

func TestElaborateTypeAddress(t *testing.T) {
	slab := newTestSlab("s")
	namedInt := syntax.New(syntax.KindNamedType, "Int", 1, 1)
	addrShape := syntax.New(syntax.KindAddress, "", 1, 1, namedInt)
	typeDecl := syntax.New(syntax.KindTypeDecl, "PtrInt", 1, 1, addrShape)
	ty := &model.Type{Name: "PtrInt", TopLevel: true, HostSlab: slab, Node: typeDecl}
	slab.Types["PtrInt"] = ty

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateType(ty)
	diags.Stop()

	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Diagnostics())
	}
	if ty.Kind != model.KindAddress || ty.Inner != model.Int {
		t.Fatalf("ty = %+v, want Kind=Address Inner=Int", ty)
	}
}

func TestElaborateTypeCyclicAliasReportsWholeChain(t *testing.T) {
	slab := newTestSlab("s")
	refB := syntax.New(syntax.KindNamedType, "B", 1, 1)
	aliasA := syntax.New(syntax.KindAliasDecl, "A", 1, 1, refB)
	refA := syntax.New(syntax.KindNamedType, "A", 2, 1)
	aliasB := syntax.New(syntax.KindAliasDecl, "B", 2, 1, refA)

	typeA := &model.Type{Kind: model.KindAlias, Name: "A", HostSlab: slab, Node: aliasA}
	typeB := &model.Type{Kind: model.KindAlias, Name: "B", HostSlab: slab, Node: aliasB}
	slab.Types["A"] = typeA
	slab.Types["B"] = typeB

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateType(typeA)
	diags.Stop()

	if diags.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %+v", diags.Diagnostics())
	}
	d := diags.Diagnostics()[0]
	if d.Kind != diag.TypeNotFound {
		t.Fatalf("Kind = %v, want TypeNotFound", d.Kind)
	}
	if want := "A -> B -> A"; d.Detail != want {
		t.Fatalf("Detail = %q, want %q", d.Detail, want)
	}
}

func bundleWith(slabs ...*model.Slab) *bundle.Bundle {
	b := bundle.New()
	for _, s := range slabs {
		b.Add(s)
	}
	return b
}
