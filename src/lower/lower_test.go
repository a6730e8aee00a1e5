package lower

import (
	"testing"

	"tabi/src/bundle"
	"tabi/src/model"
)

func TestQualifyFunctionRootMainGetsTabiPrefix(t *testing.T) {
	b := bundle.New()
	root := model.NewSlab("LOCAL_root", "root", "/root.tabi", "", nil)
	b.Add(root)
	b.RootID = root.ID

	l := &Lowerer{Bundle: b}
	fn := &model.Function{Kind: model.FuncLocal, Name: "main", HostSlab: root}
	if got, want := l.QualifyFunction(fn), "_tabi_main"; got != want {
		t.Fatalf("QualifyFunction(root main) = %q, want %q", got, want)
	}
}

func TestQualifyFunctionNonRootIsSlabQualified(t *testing.T) {
	b := bundle.New()
	root := model.NewSlab("LOCAL_root", "root", "/root.tabi", "", nil)
	b.Add(root)
	b.RootID = root.ID
	other := model.NewSlab("LOCAL_other", "other", "/other.tabi", "", nil)
	b.Add(other)

	l := &Lowerer{Bundle: b}
	fn := &model.Function{Kind: model.FuncLocal, Name: "helper", HostSlab: other}
	if got, want := l.QualifyFunction(fn), "LOCAL_other::helper"; got != want {
		t.Fatalf("QualifyFunction(other.helper) = %q, want %q", got, want)
	}

	rootHelper := &model.Function{Kind: model.FuncLocal, Name: "helper", HostSlab: root}
	if got, want := l.QualifyFunction(rootHelper), "LOCAL_root::helper"; got != want {
		t.Fatalf("QualifyFunction(root.helper) = %q, want %q (only root's own \"main\" is special-cased)", got, want)
	}
}

func TestQualifyFunctionExternalUsesExternalName(t *testing.T) {
	l := &Lowerer{Bundle: bundle.New()}
	fn := &model.Function{Kind: model.FuncExternal, Name: "write", ExternalName: "c_write"}
	if got, want := l.QualifyFunction(fn), "c_write"; got != want {
		t.Fatalf("QualifyFunction(external) = %q, want %q", got, want)
	}
}

func TestModuleNameDefaultsWhenEmpty(t *testing.T) {
	if got, want := moduleName(""), "tabi_module"; got != want {
		t.Fatalf("moduleName(\"\") = %q, want %q", got, want)
	}
	if got, want := moduleName("foo"), "foo"; got != want {
		t.Fatalf("moduleName(foo) = %q, want %q", got, want)
	}
}
