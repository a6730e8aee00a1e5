package util

import "testing"

func TestNameStackPushPop(t *testing.T) {
	var s NameStack
	if s.Size() != 0 {
		t.Fatalf("new stack size = %d, want 0", s.Size())
	}
	if v := s.Pop(); v != "" {
		t.Fatalf("Pop on empty stack = %q, want \"\"", v)
	}

	s.Push("a")
	s.Push("b")
	s.Push("c")
	if s.Size() != 3 {
		t.Fatalf("size = %d, want 3", s.Size())
	}
	if v := s.Peek(); v != "c" {
		t.Fatalf("Peek = %q, want c", v)
	}
	if v := s.Pop(); v != "c" {
		t.Fatalf("Pop = %q, want c", v)
	}
	if s.Size() != 2 {
		t.Fatalf("size after pop = %d, want 2", s.Size())
	}
	if v := s.Pop(); v != "b" {
		t.Fatalf("Pop = %q, want b", v)
	}
	if v := s.Pop(); v != "a" {
		t.Fatalf("Pop = %q, want a", v)
	}
	if s.Size() != 0 {
		t.Fatalf("size after draining = %d, want 0", s.Size())
	}
}

func TestNameStackPushEmptyIgnored(t *testing.T) {
	var s NameStack
	s.Push("")
	if s.Size() != 0 {
		t.Fatalf("pushing an empty name changed size to %d, want 0", s.Size())
	}
}

func TestNameStackGet(t *testing.T) {
	var s NameStack
	s.Push("bottom")
	s.Push("middle")
	s.Push("top")

	if v := s.Get(1); v != "top" {
		t.Fatalf("Get(1) = %q, want top", v)
	}
	if v := s.Get(3); v != "bottom" {
		t.Fatalf("Get(3) = %q, want bottom", v)
	}
	if v := s.Get(2); v != "middle" {
		t.Fatalf("Get(2) = %q, want middle", v)
	}
	if v := s.Get(0); v != "" {
		t.Fatalf("Get(0) = %q, want \"\"", v)
	}
	if v := s.Get(4); v != "" {
		t.Fatalf("Get(4) = %q, want \"\"", v)
	}
	if v := s.Get(-1); v != "" {
		t.Fatalf("Get(-1) = %q, want \"\"", v)
	}
}
