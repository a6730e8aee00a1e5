package syntax

import "testing"

func TestTreeAccessors(t *testing.T) {
	leaf := New(KindIntLit, "42", 3, 8)
	if leaf.Name() != KindIntLit {
		t.Fatalf("Name() = %q, want %q", leaf.Name(), KindIntLit)
	}
	if leaf.Token() != "42" {
		t.Fatalf("Token() = %q, want 42", leaf.Token())
	}
	if leaf.Line() != 3 || leaf.Col() != 8 {
		t.Fatalf("Line/Col = %d/%d, want 3/8", leaf.Line(), leaf.Col())
	}
	if len(leaf.Children()) != 0 {
		t.Fatalf("leaf.Children() = %v, want empty", leaf.Children())
	}
}

func TestTreeChildren(t *testing.T) {
	lhs := New(KindIntLit, "1", 1, 1)
	rhs := New(KindIntLit, "2", 1, 5)
	bin := New(KindBinary, "+", 1, 3, lhs, rhs)

	kids := bin.Children()
	if len(kids) != 2 {
		t.Fatalf("len(Children()) = %d, want 2", len(kids))
	}
	if kids[0] != Node(lhs) || kids[1] != Node(rhs) {
		t.Fatal("Children() did not preserve insertion order")
	}
}

func TestChildHelper(t *testing.T) {
	lhs := New(KindIntLit, "1", 1, 1)
	bin := New(KindBinary, "+", 1, 3, lhs)

	if got := Child(bin, 0); got != Node(lhs) {
		t.Fatalf("Child(bin, 0) = %v, want lhs", got)
	}
	if got := Child(bin, 1); got != nil {
		t.Fatalf("Child(bin, 1) = %v, want nil (out of range)", got)
	}
	if got := Child(bin, -1); got != nil {
		t.Fatalf("Child(bin, -1) = %v, want nil (negative index)", got)
	}
	if got := Child(nil, 0); got != nil {
		t.Fatalf("Child(nil, 0) = %v, want nil", got)
	}
}
