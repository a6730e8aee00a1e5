// Package model holds the typed semantic model that the elaborator fills in and the lowerer
// walks: slabs, functions, types, variables, blocks, statements, expressions and value-refs. It
// intentionally carries no behaviour beyond simple constructors and structural queries (typesMatch,
// lookup helpers); the "create" pass lives in package bundle, the "parse"/elaboration pass in
// package elaborate, and the "build" pass in package lower, all operating over these types.
package model

import "tabi/src/syntax"

// Pos is embedded by the declarations built from a syntax tree node (Function, Variable), so
// that diagnostics about them can report a source line/column.
type Pos struct {
	Line int
	Col  int
}

// PosOf lifts a syntax.Node's position into a Pos. Returns the zero Pos for a nil node.
func PosOf(n syntax.Node) Pos {
	if n == nil {
		return Pos{}
	}
	return Pos{Line: n.Line(), Col: n.Col()}
}
