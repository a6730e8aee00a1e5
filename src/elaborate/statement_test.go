package elaborate

import (
	"testing"

	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

// buildLocalFunction wires up a FUNCTION node with a single stacked-decl-then-return body,
// mirroring what a real grammar would hand the create pass for:
//
//	func main() Int { var x Int = 5; return x; }
func buildLocalFunction(slab *model.Slab) *model.Function {
	namedInt := syntax.New(syntax.KindNamedType, "Int", 1, 1)
	five := syntax.New(syntax.KindIntLit, "5", 2, 1)
	decl := syntax.New(syntax.KindStackedDecl, "x", 2, 1, namedInt, five)

	xRef := syntax.New(syntax.KindVariableRef, "x", 3, 1)
	xValue := syntax.New(syntax.KindVariableValue, "", 3, 1, xRef)
	ret := syntax.New(syntax.KindReturn, "", 3, 1, xValue)

	body := syntax.New(syntax.KindBlock, "", 1, 1, decl, ret)
	retType := syntax.New(syntax.KindReturnType, "", 1, 1, syntax.New(syntax.KindNamedType, "Int", 1, 1))
	fnNode := syntax.New(syntax.KindFunction, "main", 1, 1, retType, body)

	fn := &model.Function{Kind: model.FuncLocal, Name: "main", HostSlab: slab, Node: fnNode}
	slab.Functions["main"] = fn
	return fn
}

func TestElaborateLocalFunctionBody(t *testing.T) {
	slab := newTestSlab("s")
	fn := buildLocalFunction(slab)

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateFunction(fn)
	diags.Stop()

	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Diagnostics())
	}
	if fn.ReturnType != model.Int {
		t.Fatalf("ReturnType = %v, want Int", fn.ReturnType)
	}
	if fn.Body == nil || len(fn.Body.Statements) != 2 {
		t.Fatalf("Body.Statements = %v, want 2 statements", fn.Body)
	}

	decl, ok := fn.Body.Statements[0].(*model.StackedDeclStmt)
	if !ok {
		t.Fatalf("first statement = %T, want *model.StackedDeclStmt", fn.Body.Statements[0])
	}
	if decl.Variable.Name != "x" || decl.Variable.Type != model.Int || decl.Variable.Kind != model.VarStacked {
		t.Fatalf("decl.Variable = %+v, want Name=x Type=Int Kind=VarStacked", decl.Variable)
	}
	lit, ok := decl.Initializer.(*model.IntLit)
	if !ok || lit.Value != 5 {
		t.Fatalf("decl.Initializer = %+v, want IntLit(5)", decl.Initializer)
	}

	ret, ok := fn.Body.Statements[1].(*model.ReturnStmt)
	if !ok {
		t.Fatalf("second statement = %T, want *model.ReturnStmt", fn.Body.Statements[1])
	}
	val, ok := ret.Expression.(*model.VariableValueExpr)
	if !ok {
		t.Fatalf("ret.Expression = %T, want *model.VariableValueExpr", ret.Expression)
	}
	varRef, ok := val.Ref.(*model.VariableRef)
	if !ok || varRef.Variable != decl.Variable {
		t.Fatalf("ret resolved ref = %+v, want the declared variable x", val.Ref)
	}
}

func TestElaborateDeclStatementDuplicateReported(t *testing.T) {
	slab := newTestSlab("s")
	namedInt := syntax.New(syntax.KindNamedType, "Int", 1, 1)
	decl1 := syntax.New(syntax.KindStackedDecl, "x", 1, 1, namedInt)
	decl2 := syntax.New(syntax.KindStackedDecl, "x", 2, 1, namedInt)
	body := syntax.New(syntax.KindBlock, "", 1, 1, decl1, decl2)
	fnNode := syntax.New(syntax.KindFunction, "f", 1, 1, body)
	fn := &model.Function{Kind: model.FuncLocal, Name: "f", HostSlab: slab, Node: fnNode}

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateFunction(fn)
	diags.Stop()

	if diags.Len() != 1 || diags.Diagnostics()[0].Kind != diag.DoubleAlias {
		t.Fatalf("expected one DoubleAlias diagnostic, got %+v", diags.Diagnostics())
	}
}

func TestElaborateTableDeleteChecksTableAndID(t *testing.T) {
	slab := newTestSlab("s")
	tableType := &model.Type{Kind: model.KindTable, Fields: []model.TableField{
		{Name: "id", Type: model.Int, Index: 0},
		{Name: "use", Type: model.Int, Index: 1},
	}}
	tableVar := &model.Variable{Name: "t", Type: tableType, Kind: model.VarStacked}

	fnNode := syntax.New(syntax.KindFunction, "f", 1, 1, syntax.New(syntax.KindBlock, "", 1, 1))
	fn := &model.Function{Kind: model.FuncLocal, Name: "f", HostSlab: slab, Node: fnNode}
	block := model.NewBlock(nil, nil, fn)
	block.Declare(tableVar)

	tableRefNode := syntax.New(syntax.KindVariableRef, "t", 1, 1)
	idNode := syntax.New(syntax.KindIntLit, "3", 1, 1)
	deleteNode := syntax.New(syntax.KindTableDelete, "", 1, 1, tableRefNode, idNode)

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	stmt := e.elaborateStatement(deleteNode, block)
	diags.Stop()

	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics for a well-typed table delete: %+v", diags.Diagnostics())
	}
	del, ok := stmt.(*model.TableDeleteStmt)
	if !ok {
		t.Fatalf("statement = %T, want *model.TableDeleteStmt", stmt)
	}
	if ref, ok := del.TableRef.(*model.VariableRef); !ok || ref.Variable != tableVar {
		t.Fatalf("TableRef = %+v, want a VariableRef to t", del.TableRef)
	}

	// A non-table reference must raise TableRefNotTable.
	notTableVar := &model.Variable{Name: "n", Type: model.Int, Kind: model.VarStacked}
	block2 := model.NewBlock(nil, nil, fn)
	block2.Declare(notTableVar)
	badTableNode := syntax.New(syntax.KindTableDelete, "", 1, 1,
		syntax.New(syntax.KindVariableRef, "n", 1, 1), idNode)

	diags2 := diag.NewCollector(4)
	e2 := New(bundleWith(slab), diags2)
	e2.elaborateStatement(badTableNode, block2)
	diags2.Stop()
	if diags2.Len() != 1 || diags2.Diagnostics()[0].Kind != diag.TableRefNotTable {
		t.Fatalf("expected one TableRefNotTable diagnostic, got %+v", diags2.Diagnostics())
	}

	// A non-integer id must raise IDNotInt.
	badIDNode := syntax.New(syntax.KindTableDelete, "", 1, 1,
		tableRefNode, syntax.New(syntax.KindTruthLit, "true", 1, 1))
	block3 := model.NewBlock(nil, nil, fn)
	block3.Declare(tableVar)

	diags3 := diag.NewCollector(4)
	e3 := New(bundleWith(slab), diags3)
	e3.elaborateStatement(badIDNode, block3)
	diags3.Stop()
	if diags3.Len() != 1 || diags3.Diagnostics()[0].Kind != diag.IDNotInt {
		t.Fatalf("expected one IDNotInt diagnostic, got %+v", diags3.Diagnostics())
	}
}

func TestElaborateConditionalRequiresTruth(t *testing.T) {
	slab := newTestSlab("s")
	namedInt := syntax.New(syntax.KindNamedType, "Int", 1, 1)
	cond := syntax.New(syntax.KindIntLit, "1", 1, 1) // not Truth-typed
	thenBlock := syntax.New(syntax.KindBlock, "", 1, 1)
	conditional := syntax.New(syntax.KindConditional, "", 1, 1, cond, thenBlock)
	body := syntax.New(syntax.KindBlock, "", 1, 1, conditional)
	fnNode := syntax.New(syntax.KindFunction, "f", 1, 1, body)
	fn := &model.Function{Kind: model.FuncLocal, Name: "f", HostSlab: slab, Node: fnNode}
	_ = namedInt

	diags := diag.NewCollector(4)
	e := New(bundleWith(slab), diags)
	e.elaborateFunction(fn)
	diags.Stop()

	if diags.Len() != 1 || diags.Diagnostics()[0].Kind != diag.ConditionNotTruth {
		t.Fatalf("expected one ConditionNotTruth diagnostic, got %+v", diags.Diagnostics())
	}
}
