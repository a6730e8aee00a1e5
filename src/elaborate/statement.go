package elaborate

import (
	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

// elaborateBlock elaborates every statement directly inside b, in declaration order, appending
// each to b.Statements. Nested blocks (conditional/branch/loop bodies) are elaborated recursively.
func (e *Elaborator) elaborateBlock(b *model.Block) {
	if b == nil || b.Node == nil {
		return
	}
	for i, n := 0, len(b.Node.Children()); i < n; i++ {
		stmtNode := syntax.Child(b.Node, i)
		if stmtNode == nil {
			continue
		}
		if stmt := e.elaborateStatement(stmtNode, b); stmt != nil {
			b.Statements = append(b.Statements, stmt)
		}
	}
}

func (e *Elaborator) elaborateStatement(node syntax.Node, b *model.Block) model.Statement {
	common := model.StmtCommon{Node: node, HostBlock: b, HostFunction: b.HostFunction}
	switch node.Name() {
	case syntax.KindReturn:
		var expr model.Expression
		if c := syntax.Child(node, 0); c != nil {
			expr, _ = e.elaborateExpr(c, b, b.HostFunction.HostSlab)
		}
		return &model.ReturnStmt{StmtCommon: common, Expression: expr}

	case syntax.KindStackedDecl, syntax.KindHeapedDecl:
		return e.elaborateDeclStatement(node, common, b)

	case syntax.KindAssignment:
		ref, rerr := e.elaborateRef(syntax.Child(node, 0), b, b.HostFunction.HostSlab)
		expr, _ := e.elaborateExpr(syntax.Child(node, 1), b, b.HostFunction.HostSlab)
		if rerr == nil && ref != nil && expr != nil {
			if !model.TypesMatch(ref.Common().Type, expr.Common().Type) && !model.IsNone(expr.Common().Type) {
				e.report(node.Line(), node.Col(), diag.AssignmentTypeMismatch, "assignment type mismatch", "")
			}
		}
		return &model.AssignmentStmt{StmtCommon: common, Ref: ref, Expression: expr}

	case syntax.KindConditional:
		pair := e.elaborateConditionBlockPair(node, b)
		return &model.ConditionalStmt{StmtCommon: common, Pair: pair}

	case syntax.KindBranch:
		return e.elaborateBranch(node, common, b)

	case syntax.KindLoop:
		return e.elaborateLoop(node, common, b)

	case syntax.KindProcedureCall:
		return e.elaborateProcedureCall(node, common, b)

	case syntax.KindVectorSet:
		return e.elaborateVectorSet(node, common, b)

	case syntax.KindTableInsert:
		return e.elaborateTableInsert(node, common, b)

	case syntax.KindTableDelete:
		tableRef, _ := e.elaborateRef(syntax.Child(node, 0), b, b.HostFunction.HostSlab)
		id, _ := e.elaborateExpr(syntax.Child(node, 1), b, b.HostFunction.HostSlab)
		tableType := model.StripAddress(vecRefType(tableRef))
		if tableType == nil || tableType.Kind != model.KindTable {
			e.report(node.Line(), node.Col(), diag.TableRefNotTable, "not a table", "")
		}
		if id != nil && model.EquivClassOf(id.Common().Type) != model.EquivInt {
			e.report(node.Line(), node.Col(), diag.IDNotInt, "delete id is not an integer", "")
		}
		return &model.TableDeleteStmt{StmtCommon: common, TableRef: tableRef, ID: id}

	case syntax.KindTableMeasure:
		tableRef, _ := e.elaborateRef(syntax.Child(node, 0), b, b.HostFunction.HostSlab)
		usedRef, _ := e.elaborateRef(syntax.Child(node, 1), b, b.HostFunction.HostSlab)
		if usedRef != nil && model.EquivClassOf(usedRef.Common().Type) != model.EquivInt {
			e.report(node.Line(), node.Col(), diag.MeasureNotInteger, "measure target is not an integer", "")
		}
		return &model.TableMeasureStmt{StmtCommon: common, TableRef: tableRef, UsedRef: usedRef}

	case syntax.KindTableCrunch:
		tableRef, _ := e.elaborateRef(syntax.Child(node, 0), b, b.HostFunction.HostSlab)
		var idRef model.ValueRef
		if c := syntax.Child(node, 1); c != nil {
			idRef, _ = e.elaborateRef(c, b, b.HostFunction.HostSlab)
		}
		return &model.TableCrunchStmt{StmtCommon: common, TableRef: tableRef, IDRef: idRef}

	case syntax.KindLabel:
		address, _ := e.elaborateExpr(syntax.Child(node, 0), b, b.HostFunction.HostSlab)
		fuzzyRef, _ := e.elaborateRef(syntax.Child(node, 1), b, b.HostFunction.HostSlab)
		return &model.LabelStmt{StmtCommon: common, Address: address, FuzzyRef: fuzzyRef}

	case syntax.KindUnheap:
		address, _ := e.elaborateExpr(syntax.Child(node, 0), b, b.HostFunction.HostSlab)
		if address != nil && !model.IsAddress(address.Common().Type) {
			e.report(node.Line(), node.Col(), diag.UnheapExpressionNotAddress, "unheap expression is not an address", "")
		}
		var structure *model.Type
		if address != nil {
			structure = model.Resolve(address.Common().Type).Inner
		}
		return &model.UnheapStmt{StmtCommon: common, Address: address, Structure: structure}

	default:
		e.report(node.Line(), node.Col(), diag.ExpressionNotRecognised, "unrecognised statement", node.Name())
		return nil
	}
}

func (e *Elaborator) elaborateDeclStatement(node syntax.Node, common model.StmtCommon, b *model.Block) model.Statement {
	hostSlab := b.HostFunction.HostSlab
	name := node.Token()
	typ, err := e.getOrCreateType(syntax.Child(node, 0), hostSlab)
	if err != nil {
		return nil
	}
	var initExpr model.Expression
	if c := syntax.Child(node, 1); c != nil {
		initExpr, _ = e.elaborateExpr(c, b, hostSlab)
		if initExpr != nil && !model.TypesMatch(typ, initExpr.Common().Type) && !model.IsNone(initExpr.Common().Type) {
			e.report(node.Line(), node.Col(), diag.AssignmentTypeMismatch, "initializer type mismatch", name)
		}
	}

	kind := model.VarStacked
	if node.Name() == syntax.KindHeapedDecl {
		kind = model.VarHeaped
	}
	v := &model.Variable{Kind: kind, Name: name, Type: typ, HostBlock: b, Pos: model.PosOf(node)}
	if !b.Declare(v) {
		e.report(node.Line(), node.Col(), diag.DoubleAlias, "variable already declared in this block", name)
	}

	if kind == model.VarStacked {
		return &model.StackedDeclStmt{StmtCommon: common, Variable: v, Initializer: initExpr}
	}
	return &model.HeapedDeclStmt{StmtCommon: common, Variable: v, Initializer: initExpr}
}

func (e *Elaborator) elaborateConditionBlockPair(node syntax.Node, parent *model.Block) model.ConditionBlockPair {
	hostSlab := parent.HostFunction.HostSlab
	cond, _ := e.elaborateExpr(syntax.Child(node, 0), parent, hostSlab)
	if cond != nil && model.EquivClassOf(cond.Common().Type) != model.EquivTruth {
		e.report(node.Line(), node.Col(), diag.ConditionNotTruth, "condition is not truth", "")
	}
	blockNode := syntax.Child(node, 1)
	body := model.NewBlock(blockNode, parent, parent.HostFunction)
	e.elaborateBlock(body)
	return model.ConditionBlockPair{Condition: cond, Block: body}
}

func (e *Elaborator) elaborateBranch(node syntax.Node, common model.StmtCommon, b *model.Block) model.Statement {
	stmt := &model.BranchStmt{StmtCommon: common}
	for i, n := 0, len(node.Children()); i < n; i++ {
		child := syntax.Child(node, i)
		if child == nil {
			continue
		}
		if child.Name() == syntax.KindTwig {
			stmt.Twigs = append(stmt.Twigs, e.elaborateConditionBlockPair(child, b))
		} else if child.Name() == syntax.KindBlock {
			body := model.NewBlock(child, b, b.HostFunction)
			e.elaborateBlock(body)
			stmt.Otherwise = body
		}
	}
	return stmt
}

func (e *Elaborator) elaborateLoop(node syntax.Node, common model.StmtCommon, b *model.Block) model.Statement {
	hostSlab := b.HostFunction.HostSlab
	cond, _ := e.elaborateExpr(syntax.Child(node, 0), b, hostSlab)
	if cond != nil && model.EquivClassOf(cond.Common().Type) != model.EquivTruth {
		e.report(node.Line(), node.Col(), diag.ConditionNotTruth, "loop condition is not truth", "")
	}
	bodyNode := syntax.Child(node, 1)
	body := model.NewBlock(bodyNode, b, b.HostFunction)
	e.elaborateBlock(body)
	return &model.LoopStmt{StmtCommon: common, Body: body, Condition: cond}
}

func (e *Elaborator) elaborateProcedureCall(node syntax.Node, common model.StmtCommon, b *model.Block) model.Statement {
	hostSlab := b.HostFunction.HostSlab
	callee, err := e.resolveFunctionRef(node, hostSlab)
	if err != nil {
		return nil
	}
	if callee.Node != nil {
		e.elaborateFunction(callee)
	}
	var args []model.Expression
	children := node.Children()
	if len(children) > 1 {
		for _, an := range children[1:] {
			arg, _ := e.elaborateExpr(an, b, hostSlab)
			args = append(args, arg)
		}
	}
	if callee.Arity() != len(args) {
		e.report(node.Line(), node.Col(), diag.CallArityMismatch, "call arity mismatch", callee.Name)
	}
	return &model.ProcedureCallStmt{StmtCommon: common, Callee: callee, Args: args}
}

func (e *Elaborator) elaborateVectorSet(node syntax.Node, common model.StmtCommon, b *model.Block) model.Statement {
	hostSlab := b.HostFunction.HostSlab
	vecRef, _ := e.elaborateRef(syntax.Child(node, 0), b, hostSlab)
	from, _ := e.elaborateExpr(syntax.Child(node, 1), b, hostSlab)
	vecType := model.StripAddress(vecRefType(vecRef))
	if vecType == nil || vecType.Kind != model.KindVector {
		e.report(node.Line(), node.Col(), diag.VectorRefNotVector, "not a vector", "")
	}
	var elements []model.Expression
	children := node.Children()
	if len(children) > 2 {
		for _, en := range children[2:] {
			el, _ := e.elaborateExpr(en, b, hostSlab)
			elements = append(elements, el)
		}
	}
	return &model.VectorSetStmt{StmtCommon: common, VectorRef: vecRef, From: from, Elements: elements}
}

func (e *Elaborator) elaborateTableInsert(node syntax.Node, common model.StmtCommon, b *model.Block) model.Statement {
	hostSlab := b.HostFunction.HostSlab
	tableRef, _ := e.elaborateRef(syntax.Child(node, 0), b, hostSlab)
	tableType := model.StripAddress(vecRefType(tableRef))
	if tableType == nil || tableType.Kind != model.KindTable {
		e.report(node.Line(), node.Col(), diag.TableRefNotTable, "not a table", "")
	}
	children := node.Children()
	var idRef model.ValueRef
	elemEnd := len(children)
	if len(children) > 1 {
		if last := syntax.Child(node, len(children)-1); last != nil {
			if r, rerr := e.elaborateRef(last, b, hostSlab); rerr == nil {
				idRef = r
				elemEnd = len(children) - 1
			}
		}
	}
	var elements []model.Expression
	for i := 1; i < elemEnd; i++ {
		el, _ := e.elaborateExpr(syntax.Child(node, i), b, hostSlab)
		elements = append(elements, el)
	}
	return &model.TableInsertStmt{StmtCommon: common, TableRef: tableRef, Elements: elements, IDRef: idRef}
}

func vecRefType(ref model.ValueRef) *model.Type {
	if ref == nil {
		return nil
	}
	return ref.Common().Type
}
