package elaborate

import (
	"testing"

	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

func TestElaborateContextResolvesMembersAndInitializers(t *testing.T) {
	slab := newTestSlab("s")
	namedInt := syntax.New(syntax.KindNamedType, "Int", 1, 1)
	initLit := syntax.New(syntax.KindIntLit, "7", 1, 1)
	decl := syntax.New(syntax.KindArg, "count", 1, 1, namedInt, initLit)
	ctxNode := syntax.New(syntax.KindContextDecl, "Shared", 1, 1, decl)

	ctx := model.NewContext("Shared", slab)
	ctx.Node = ctxNode
	slab.Contexts["Shared"] = ctx

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateContext(ctx)
	diags.Stop()

	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Diagnostics())
	}
	if ctx.Node != nil {
		t.Fatal("Node should be cleared once elaborated")
	}
	v, ok := ctx.Members["count"]
	if !ok {
		t.Fatal("expected member \"count\" to be created")
	}
	if v.Kind != model.VarContext || v.Type != model.Int || v.HostContext != ctx {
		t.Fatalf("v = %+v, want Kind=VarContext Type=Int HostContext=ctx", v)
	}
	lit, ok := v.Initializer.(*model.IntLit)
	if !ok || lit.Value != 7 {
		t.Fatalf("Initializer = %+v, want IntLit(7)", v.Initializer)
	}
}

func TestElaborateDumpResolvesMembers(t *testing.T) {
	slab := newTestSlab("s")
	namedFloat := syntax.New(syntax.KindNamedType, "Float", 1, 1)
	decl := syntax.New(syntax.KindArg, "scratch", 1, 1, namedFloat)
	dumpNode := syntax.New(syntax.KindDumpDecl, "Scratch", 1, 1, decl)

	d := model.NewDump("Scratch", slab)
	d.Node = dumpNode
	slab.Dumps["Scratch"] = d

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateDump(d)
	diags.Stop()

	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Diagnostics())
	}
	v, ok := d.Members["scratch"]
	if !ok || v.Kind != model.VarDump || v.Type != model.Float {
		t.Fatalf("Members[scratch] = %+v, want Kind=VarDump Type=Float", v)
	}
}
