package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"tabi/src/diag"
	"tabi/src/syntax"
)

// fakeParser maps the exact preprocessed source text seen to a prebuilt tree, since no real PEG
// parser ships in this repository (spec.md §1) and tests must supply their own trees.
type fakeParser struct {
	trees map[string]syntax.Node
}

func (p *fakeParser) Parse(source string) (syntax.Node, error) {
	return p.trees[source], nil
}

func newLoaderFixture(t *testing.T, dir string, trees map[string]syntax.Node) (*Bundle, *Loader, *diag.Collector) {
	t.Helper()
	b := New()
	diags := diag.NewCollector(8)
	loader := NewLoader(b, &fakeParser{trees: trees}, dir, nil, dir, diags)
	return b, loader, diags
}

func TestLoaderLoadRootCreatesDeclarations(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "root.tabi")
	if err := os.WriteFile(rootPath, []byte("root-simple"), 0644); err != nil {
		t.Fatal(err)
	}

	fnNode := syntax.New(syntax.KindFunction, "main", 1, 1)
	typeNode := syntax.New(syntax.KindTypeDecl, "Point", 2, 1)
	tree := syntax.New(syntax.KindProgram, "", 1, 1, fnNode, typeNode)

	_, loader, diags := newLoaderFixture(t, dir, map[string]syntax.Node{"root-simple": tree})
	slab, err := loader.LoadRoot("root.tabi")
	diags.Stop()
	if err != nil {
		t.Fatalf("LoadRoot error: %v", err)
	}
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Diagnostics())
	}
	if _, ok := slab.Functions["main"]; !ok {
		t.Fatal("expected function \"main\" to be created")
	}
	if ty, ok := slab.Types["Point"]; !ok || ty.Name != "Point" {
		t.Fatal("expected type \"Point\" to be created")
	}
	if loader.Bundle.RootID != slab.ID {
		t.Fatalf("RootID = %q, want %q", loader.Bundle.RootID, slab.ID)
	}
}

func TestLoaderDoubleAliasReported(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "root.tabi")
	if err := os.WriteFile(rootPath, []byte("root-dup"), 0644); err != nil {
		t.Fatal(err)
	}

	fn1 := syntax.New(syntax.KindFunction, "main", 1, 1)
	fn2 := syntax.New(syntax.KindFunction, "main", 5, 1)
	tree := syntax.New(syntax.KindProgram, "", 1, 1, fn1, fn2)

	_, loader, diags := newLoaderFixture(t, dir, map[string]syntax.Node{"root-dup": tree})
	_, err := loader.LoadRoot("root.tabi")
	diags.Stop()
	if err == nil {
		t.Fatal("expected an error for a duplicate declaration")
	}
	if diags.Len() != 1 || diags.Diagnostics()[0].Kind != diag.DoubleAlias {
		t.Fatalf("expected one DoubleAlias diagnostic, got %+v", diags.Diagnostics())
	}
}

func TestLoaderResolvesLocalAttachment(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "root.tabi")
	libPath := filepath.Join(dir, "lib.tabi")
	if err := os.WriteFile(rootPath, []byte("root-attach"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(libPath, []byte("lib-source"), 0644); err != nil {
		t.Fatal(err)
	}

	ref := syntax.New(syntax.KindLocalRef, "lib.tabi", 1, 1)
	attach := syntax.New(syntax.KindAttachment, "lib", 1, 1, ref)
	rootTree := syntax.New(syntax.KindProgram, "", 1, 1, attach)

	libType := syntax.New(syntax.KindTypeDecl, "Foo", 1, 1)
	libTree := syntax.New(syntax.KindProgram, "", 1, 1, libType)

	b, loader, diags := newLoaderFixture(t, dir, map[string]syntax.Node{
		"root-attach": rootTree,
		"lib-source":  libTree,
	})
	slab, err := loader.LoadRoot("root.tabi")
	diags.Stop()
	if err != nil {
		t.Fatalf("LoadRoot error: %v", err)
	}
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Diagnostics())
	}
	attached, ok := slab.Attachments["lib"]
	if !ok {
		t.Fatal("expected attachment \"lib\" to be resolved")
	}
	if _, ok := attached.Types["Foo"]; !ok {
		t.Fatal("expected the attached slab's type \"Foo\" to be visible")
	}
	if len(b.Slabs) != 2 {
		t.Fatalf("len(Slabs) = %d, want 2 (root + attachment)", len(b.Slabs))
	}
}

func TestLoaderExternalAttachmentNotFound(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "root.tabi")
	if err := os.WriteFile(rootPath, []byte("root-ext"), 0644); err != nil {
		t.Fatal(err)
	}

	ref := syntax.New(syntax.KindExternalRef, "missing", 1, 1)
	attach := syntax.New(syntax.KindAttachment, "ext", 1, 1, ref)
	rootTree := syntax.New(syntax.KindProgram, "", 1, 1, attach)

	_, loader, diags := newLoaderFixture(t, dir, map[string]syntax.Node{"root-ext": rootTree})
	loader.LibPath = []string{dir}
	_, err := loader.LoadRoot("root.tabi")
	diags.Stop()
	if err == nil {
		t.Fatal("expected an error for an unresolvable external attachment")
	}
}
