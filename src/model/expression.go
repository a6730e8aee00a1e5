package model

import "tabi/src/syntax"

// BinaryOp identifies the operator joining the two operands of a BinaryExpr.
type BinaryOp int

const (
	OpSub BinaryOp = iota
	OpAdd
	OpMul
	OpDiv
	OpLT
	OpGT
	OpLTE
	OpGTE
	OpEQ
	OpNE
)

var binaryOpNames = [...]string{"-", "+", "*", "/", "<", ">", "<=", ">=", "==", "!="}

func (o BinaryOp) String() string {
	if o < 0 || int(o) >= len(binaryOpNames) {
		return "?"
	}
	return binaryOpNames[o]
}

// IsComparison reports whether op yields a Truth result rather than an equivalence-class result.
func (o BinaryOp) IsComparison() bool {
	return o >= OpLT
}

// Expression is a tagged variant over every expression form the language supports. Every
// implementation embeds ExprCommon, carrying the node it was elaborated from, its static type
// and the lowered IR value.
type Expression interface {
	Common() *ExprCommon
}

// ExprCommon holds the fields shared by all Expression variants (spec.md §3).
type ExprCommon struct {
	Node      syntax.Node
	HostBlock *Block // nil for expressions appearing outside any block (e.g. static initializers)
	HostSlab  *Slab
	Type      *Type

	Store any // opaque IR value handle, set during lowering
}

func (c *ExprCommon) Common() *ExprCommon { return c }

// NullExpr is the literal null. Its type always resolves to None.
type NullExpr struct{ ExprCommon }

// IntLit, ShortLit, LongLit, SizeLit are the integral-family literals.
type IntLit struct {
	ExprCommon
	Value int
}
type ShortLit struct {
	ExprCommon
	Value int16
}
type LongLit struct {
	ExprCommon
	Value int64
}
type SizeLit struct {
	ExprCommon
	Value uint64
}

// FloatLit, DoubleLit are the floating-point literals.
type FloatLit struct {
	ExprCommon
	Value float32
}
type DoubleLit struct {
	ExprCommon
	Value float64
}

// CharLit is a single-character literal.
type CharLit struct {
	ExprCommon
	Value byte
}

// TruthLit is a boolean literal.
type TruthLit struct {
	ExprCommon
	Value bool
}

// StringLit is a string literal; its Type is always an address-of-Char.
type StringLit struct {
	ExprCommon
	Value string
}

// VariableValueExpr yields either the value or, when Locate is set (the `?` operator), the
// address of the variable that Ref resolves to.
type VariableValueExpr struct {
	ExprCommon
	Locate bool
	Ref    ValueRef
}

// FunctionCallExpr invokes Callee with Args, which have already been arity- and type-checked
// against Callee's formal parameters.
type FunctionCallExpr struct {
	ExprCommon
	Callee *Function
	Args   []Expression
}

// BracketedExpr is a parenthesized sub-expression, kept distinct from its Inner expression so
// that source position and precedence grouping survive into diagnostics.
type BracketedExpr struct {
	ExprCommon
	Inner Expression
}

// BinaryExpr combines two expressions with an operator. Equiv records the primitive-equivalence
// class (int/float/char) the operands were reconciled to, used by the lowerer to pick the
// correct LLVM instruction family (icmp/fcmp, sdiv/fdiv, and so on).
type BinaryExpr struct {
	ExprCommon
	LHS, RHS Expression
	Op       BinaryOp
	Equiv    EquivClass
}
