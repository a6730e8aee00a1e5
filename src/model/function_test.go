package model

import "testing"

func TestFunctionArityAndArgType(t *testing.T) {
	local := &Function{Kind: FuncLocal, Args: []*Variable{
		{Name: "a", Type: Int},
		{Name: "b", Type: Float},
	}}
	if got := local.Arity(); got != 2 {
		t.Fatalf("local.Arity() = %d, want 2", got)
	}
	if got := local.ArgType(0); got != Int {
		t.Fatalf("local.ArgType(0) = %v, want Int", got)
	}
	if got := local.ArgType(1); got != Float {
		t.Fatalf("local.ArgType(1) = %v, want Float", got)
	}
	if got := local.ArgType(5); got != nil {
		t.Fatalf("local.ArgType(5) = %v, want nil", got)
	}

	external := &Function{Kind: FuncExternal, ArgTypes: []*Type{Int, Truth}}
	if got := external.Arity(); got != 2 {
		t.Fatalf("external.Arity() = %d, want 2", got)
	}
	if got := external.ArgType(1); got != Truth {
		t.Fatalf("external.ArgType(1) = %v, want Truth", got)
	}

	core := &Function{Kind: FuncCore}
	if got := core.Arity(); got != 0 {
		t.Fatalf("core.Arity() = %d, want 0", got)
	}
}

func TestFunctionHasCapture(t *testing.T) {
	ctxA := &Context{Name: "A"}
	ctxB := &Context{Name: "B"}
	f := &Function{Captures: []*Context{ctxA}}
	if !f.HasCapture(ctxA) {
		t.Fatal("HasCapture(ctxA) = false, want true")
	}
	if f.HasCapture(ctxB) {
		t.Fatal("HasCapture(ctxB) = true, want false")
	}
}
