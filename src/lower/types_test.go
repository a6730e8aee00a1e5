package lower

import (
	"testing"

	"tabi/src/model"
)

func TestGlobalNamePlainVariable(t *testing.T) {
	v := &model.Variable{Name: "counter"}
	if got, want := globalName(v), "counter"; got != want {
		t.Fatalf("globalName(plain) = %q, want %q", got, want)
	}
}

func TestGlobalNameContextMember(t *testing.T) {
	slab := model.NewSlab("LOCAL_s", "s", "/s.tabi", "", nil)
	ctx := model.NewContext("Shared", slab)
	v := &model.Variable{Name: "count", HostContext: ctx}
	if got, want := globalName(v), "LOCAL_s::Shared.count"; got != want {
		t.Fatalf("globalName(context member) = %q, want %q", got, want)
	}
}

func TestGlobalNameDumpMember(t *testing.T) {
	slab := model.NewSlab("LOCAL_s", "s", "/s.tabi", "", nil)
	dump := model.NewDump("Scratch", slab)
	v := &model.Variable{Name: "buf", HostDump: dump}
	if got, want := globalName(v), "LOCAL_s::Scratch.buf"; got != want {
		t.Fatalf("globalName(dump member) = %q, want %q", got, want)
	}
}

func TestIsDynamicPrimitiveIsFalse(t *testing.T) {
	if isDynamic(model.Int) {
		t.Fatal("a primitive must never be dynamic")
	}
}

func TestIsDynamicFuzzyVectorIsFalse(t *testing.T) {
	fuzzy := &model.Type{Kind: model.KindVector, Inner: model.Int, NumElem: nil}
	if isDynamic(fuzzy) {
		t.Fatal("a fuzzy (lengthless) vector owns no storage and must not be dynamic")
	}
}

func TestIsDynamicSizedVectorIsTrue(t *testing.T) {
	sized := &model.Type{Kind: model.KindVector, Inner: model.Int, NumElem: &model.IntLit{Value: 4}}
	if !isDynamic(sized) {
		t.Fatal("a sized vector owns heap storage and must be dynamic")
	}
}

func TestIsDynamicTableIsAlwaysTrue(t *testing.T) {
	table := &model.Type{Kind: model.KindTable}
	if !isDynamic(table) {
		t.Fatal("a table always owns row storage and must be dynamic")
	}
}

func TestIsDynamicCollectionRecursesIntoMembers(t *testing.T) {
	sized := &model.Type{Kind: model.KindVector, Inner: model.Int, NumElem: &model.IntLit{Value: 4}}
	withDynamicMember := &model.Type{
		Kind:    model.KindCollection,
		Members: []model.Member{{Name: "a", Type: model.Int}, {Name: "b", Type: sized}},
	}
	if !isDynamic(withDynamicMember) {
		t.Fatal("a collection containing a dynamic member must itself be dynamic")
	}

	allStatic := &model.Type{
		Kind:    model.KindCollection,
		Members: []model.Member{{Name: "a", Type: model.Int}, {Name: "b", Type: model.Float}},
	}
	if isDynamic(allStatic) {
		t.Fatal("a collection of only static members must not be dynamic")
	}
}

func TestIsDynamicFollowsAlias(t *testing.T) {
	table := &model.Type{Kind: model.KindTable}
	alias := &model.Type{Kind: model.KindAlias, Name: "RowSet", Alias: table}
	if !isDynamic(alias) {
		t.Fatal("isDynamic must resolve through aliases")
	}
}

func TestIsDynamicNilIsFalse(t *testing.T) {
	if isDynamic(nil) {
		t.Fatal("nil type must not be dynamic")
	}
}
