package model

import "tabi/src/syntax"

// Statement is a tagged variant over every statement form the language supports. Every
// implementation embeds StmtCommon, carrying the node it was elaborated from and its host
// block/function.
type Statement interface {
	Common() *StmtCommon
}

// StmtCommon holds the fields shared by all Statement variants (spec.md §3).
type StmtCommon struct {
	Node         syntax.Node
	HostBlock    *Block
	HostFunction *Function
}

func (c *StmtCommon) Common() *StmtCommon { return c }

// ReturnStmt gives the caller of HostFunction a value. Expression is nil for functions with a
// None return type.
type ReturnStmt struct {
	StmtCommon
	Expression Expression
}

// StackedDeclStmt creates and initializes a stack-allocated Variable in the current Block.
type StackedDeclStmt struct {
	StmtCommon
	Variable    *Variable
	Initializer Expression
}

// HeapedDeclStmt creates and initializes a heap-allocated Variable.
type HeapedDeclStmt struct {
	StmtCommon
	Variable    *Variable
	Initializer Expression
}

// AssignmentStmt stores Expression's value at the location Ref addresses.
type AssignmentStmt struct {
	StmtCommon
	Ref        ValueRef
	Expression Expression
}

// ConditionBlockPair pairs a guard expression with the Block to execute when it is true.
type ConditionBlockPair struct {
	Condition Expression
	Block     *Block
}

// ConditionalStmt executes Pair.Block only when Pair.Condition holds.
type ConditionalStmt struct {
	StmtCommon
	Pair ConditionBlockPair
}

// BranchStmt executes at most one of Twigs, in order, falling back to Otherwise (which may be
// nil) if every twig's condition is false.
type BranchStmt struct {
	StmtCommon
	Twigs     []ConditionBlockPair
	Otherwise *Block
}

// LoopStmt repeatedly executes Body for as long as Condition holds, checked before each
// iteration; Body may execute zero times.
type LoopStmt struct {
	StmtCommon
	Body      *Block
	Condition Expression
}

// ProcedureCallStmt calls Callee for effect, discarding any return value.
type ProcedureCallStmt struct {
	StmtCommon
	Callee *Function
	Args   []Expression
}

// TableInsertStmt inserts a new row with Elements into the table TableRef addresses, storing the
// synthetic id of the new row through IDRef (which may be nil if the caller discards it).
type TableInsertStmt struct {
	StmtCommon
	TableRef ValueRef
	Elements []Expression
	IDRef    ValueRef
}

// TableDeleteStmt marks the row with the given ID as unused in the table TableRef addresses.
type TableDeleteStmt struct {
	StmtCommon
	TableRef ValueRef
	ID       Expression
}

// TableMeasureStmt stores the number of used rows of TableRef's table through UsedRef.
type TableMeasureStmt struct {
	StmtCommon
	TableRef ValueRef
	UsedRef  ValueRef
}

// TableCrunchStmt compacts all used rows of TableRef's table to the front, storing the next
// free id through IDRef.
type TableCrunchStmt struct {
	StmtCommon
	TableRef ValueRef
	IDRef    ValueRef
}

// VectorSetStmt overwrites VectorRef's elements starting at From with the values of Elements.
type VectorSetStmt struct {
	StmtCommon
	VectorRef ValueRef
	From      Expression
	Elements  []Expression
}

// LabelStmt ties a fuzzy (lengthless) vector reference to a concrete address.
type LabelStmt struct {
	StmtCommon
	Address  Expression
	FuzzyRef ValueRef
}

// UnheapStmt deallocates the heap memory at Address, recursively walking Structure to release
// any nested heaped members.
type UnheapStmt struct {
	StmtCommon
	Address   Expression
	Structure *Type
}
