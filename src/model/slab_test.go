package model

import "testing"

func TestNewSlabInitializesMaps(t *testing.T) {
	s := NewSlab("LOCAL_/a/b.tabi", "b", "/a/b.tabi", "source text", nil)
	if s.ID != "LOCAL_/a/b.tabi" || s.Name != "b" || s.Path != "/a/b.tabi" || s.Source != "source text" {
		t.Fatalf("NewSlab did not preserve its scalar fields: %+v", s)
	}
	if s.Attachments == nil || s.Functions == nil || s.Types == nil || s.Contexts == nil || s.Dumps == nil {
		t.Fatal("NewSlab must initialize every declaration map so the create pass can write into them directly")
	}
	s.Types["Foo"] = &Type{Kind: KindCollection, Name: "Foo"}
	if _, ok := s.Types["Foo"]; !ok {
		t.Fatal("Types map should be writable immediately after construction")
	}
}
