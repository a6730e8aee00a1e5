package lower

import (
	"testing"

	"tabi/src/model"
)

func TestPrecedenceRank(t *testing.T) {
	cases := []struct {
		op   model.BinaryOp
		want int
	}{
		{model.OpAdd, 0}, {model.OpSub, 0},
		{model.OpMul, 1}, {model.OpDiv, 1},
		{model.OpLT, 2}, {model.OpGT, 2}, {model.OpLTE, 2}, {model.OpGTE, 2},
		{model.OpEQ, 2}, {model.OpNE, 2},
	}
	for _, c := range cases {
		if got := precedenceRank(c.op); got != c.want {
			t.Errorf("precedenceRank(%v) = %d, want %d", c.op, got, c.want)
		}
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	if precedenceRank(model.OpMul) <= precedenceRank(model.OpAdd) {
		t.Fatal("multiplicative operators must outrank additive ones")
	}
	if precedenceRank(model.OpLT) <= precedenceRank(model.OpMul) {
		t.Fatal("comparison operators must outrank multiplicative ones")
	}
}
