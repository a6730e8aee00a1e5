package model

import "testing"

func TestContextAddMemberOrderPreserved(t *testing.T) {
	c := NewContext("Shared", nil)
	a := &Variable{Name: "a", Type: Int}
	b := &Variable{Name: "b", Type: Float}
	c.AddMember(a)
	c.AddMember(b)

	if len(c.Order) != 2 || c.Order[0] != a || c.Order[1] != b {
		t.Fatalf("Order = %v, want [a b] in declaration order", c.Order)
	}
	if c.Members["a"] != a || c.Members["b"] != b {
		t.Fatal("Members map must reflect both added variables")
	}
}

func TestDumpAddMemberOrderPreserved(t *testing.T) {
	d := NewDump("Scratch", nil)
	a := &Variable{Name: "a", Type: Int}
	d.AddMember(a)
	if len(d.Order) != 1 || d.Order[0] != a {
		t.Fatalf("Order = %v, want [a]", d.Order)
	}
}
