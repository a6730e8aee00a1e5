package elaborate

import (
	"strconv"

	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

// elaborateExpr types node, spec.md §4.3's "Expression elaboration": literals take their
// corresponding primitive type; composite forms recurse and combine.
func (e *Elaborator) elaborateExpr(node syntax.Node, block *model.Block, hostSlab *model.Slab) (model.Expression, error) {
	if node == nil {
		return nil, nil
	}
	common := model.ExprCommon{Node: node, HostBlock: block, HostSlab: hostSlab}

	switch node.Name() {
	case syntax.KindNull:
		common.Type = model.None
		return &model.NullExpr{ExprCommon: common}, nil
	case syntax.KindIntLit:
		v, _ := strconv.Atoi(node.Token())
		common.Type = model.Int
		return &model.IntLit{ExprCommon: common, Value: v}, nil
	case syntax.KindShortLit:
		v, _ := strconv.ParseInt(node.Token(), 10, 16)
		common.Type = model.Short
		return &model.ShortLit{ExprCommon: common, Value: int16(v)}, nil
	case syntax.KindLongLit:
		v, _ := strconv.ParseInt(node.Token(), 10, 64)
		common.Type = model.Long
		return &model.LongLit{ExprCommon: common, Value: v}, nil
	case syntax.KindSizeLit:
		v, _ := strconv.ParseUint(node.Token(), 10, 64)
		common.Type = model.Size
		return &model.SizeLit{ExprCommon: common, Value: v}, nil
	case syntax.KindFloatLit:
		v, _ := strconv.ParseFloat(node.Token(), 32)
		common.Type = model.Float
		return &model.FloatLit{ExprCommon: common, Value: float32(v)}, nil
	case syntax.KindDoubleLit:
		v, _ := strconv.ParseFloat(node.Token(), 64)
		common.Type = model.Double
		return &model.DoubleLit{ExprCommon: common, Value: v}, nil
	case syntax.KindCharLit:
		var b byte
		if len(node.Token()) > 0 {
			b = node.Token()[0]
		}
		common.Type = model.Char
		return &model.CharLit{ExprCommon: common, Value: b}, nil
	case syntax.KindTruthLit:
		common.Type = model.Truth
		return &model.TruthLit{ExprCommon: common, Value: node.Token() == "true"}, nil
	case syntax.KindStringLit:
		common.Type = &model.Type{Kind: model.KindAddress, Inner: model.Char}
		return &model.StringLit{ExprCommon: common, Value: node.Token()}, nil
	case syntax.KindVariableValue:
		return e.elaborateVariableValue(node, common)
	case syntax.KindFunctionCall:
		return e.elaborateFunctionCall(node, common)
	case syntax.KindBracketed:
		inner, err := e.elaborateExpr(syntax.Child(node, 0), block, hostSlab)
		if err != nil {
			return nil, err
		}
		if inner != nil {
			common.Type = inner.Common().Type
		}
		return &model.BracketedExpr{ExprCommon: common, Inner: inner}, nil
	case syntax.KindBinary:
		return e.elaborateBinary(node, common)
	default:
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.ExpressionNotRecognised, Message: "unrecognised expression", Detail: node.Name()}
		e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
		return nil, d
	}
}

func (e *Elaborator) elaborateVariableValue(node syntax.Node, common model.ExprCommon) (model.Expression, error) {
	locate := node.Token() == "?"
	ref, err := e.elaborateRef(syntax.Child(node, 0), common.HostBlock, common.HostSlab)
	if err != nil {
		return nil, err
	}
	typ := ref.Common().Type
	if locate {
		typ = &model.Type{Kind: model.KindAddress, Inner: typ}
	}
	common.Type = typ
	return &model.VariableValueExpr{ExprCommon: common, Locate: locate, Ref: ref}, nil
}

func (e *Elaborator) elaborateFunctionCall(node syntax.Node, common model.ExprCommon) (model.Expression, error) {
	callee, err := e.resolveFunctionRef(node, common.HostSlab)
	if err != nil {
		return nil, err
	}
	if callee.Node != nil {
		e.elaborateFunction(callee)
	}

	var args []model.Expression
	children := node.Children()
	var argNodes []syntax.Node
	if len(children) > 1 {
		argNodes = children[1:]
	}
	for _, an := range argNodes {
		arg, aerr := e.elaborateExpr(an, common.HostBlock, common.HostSlab)
		if aerr != nil {
			continue
		}
		args = append(args, arg)
	}

	if callee.Arity() != len(args) {
		e.report(node.Line(), node.Col(), diag.CallArityMismatch, "call arity mismatch", callee.Name)
	} else {
		for i, a := range args {
			want := callee.ArgType(i)
			if a == nil {
				continue
			}
			got := a.Common().Type
			if !model.TypesMatch(want, got) && !model.IsNone(got) {
				e.report(node.Line(), node.Col(), diag.ArgTypeMismatch, "argument type mismatch", callee.Name)
			}
		}
	}

	common.Type = callee.ReturnType
	return &model.FunctionCallExpr{ExprCommon: common, Callee: callee, Args: args}, nil
}

// resolveFunctionRef looks up the callee named by node's first child (itself possibly
// slab-qualified, mirroring lookupNamedType).
func (e *Elaborator) resolveFunctionRef(node syntax.Node, hostSlab *model.Slab) (*model.Function, error) {
	ref := syntax.Child(node, 0)
	if ref == nil {
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.FunctionNotFound, Message: "missing callee", Detail: ""}
		e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
		return nil, d
	}
	target := hostSlab
	name := ref.Token()
	if qualifier := syntax.Child(ref, 0); qualifier != nil {
		attached, ok := hostSlab.Attachments[qualifier.Token()]
		if !ok {
			d := diag.Diagnostic{Line: ref.Line(), Col: ref.Col(), Kind: diag.SlabNotAttached, Message: "slab not attached", Detail: qualifier.Token()}
			e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
			return nil, d
		}
		target = attached
	}
	fn, ok := target.Functions[name]
	if !ok {
		d := diag.Diagnostic{Line: ref.Line(), Col: ref.Col(), Kind: diag.FunctionNotFound, Message: "function not found", Detail: name}
		e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
		return nil, d
	}
	return fn, nil
}

var binaryOpByToken = map[string]model.BinaryOp{
	"-": model.OpSub, "+": model.OpAdd, "*": model.OpMul, "/": model.OpDiv,
	"<": model.OpLT, ">": model.OpGT, "<=": model.OpLTE, ">=": model.OpGTE,
	"==": model.OpEQ, "!=": model.OpNE,
}

func (e *Elaborator) elaborateBinary(node syntax.Node, common model.ExprCommon) (model.Expression, error) {
	lhs, _ := e.elaborateExpr(syntax.Child(node, 0), common.HostBlock, common.HostSlab)
	rhs, _ := e.elaborateExpr(syntax.Child(node, 1), common.HostBlock, common.HostSlab)
	op := binaryOpByToken[node.Token()]

	equiv := model.EquivNone
	if lhs != nil && rhs != nil {
		lt, rt := lhs.Common().Type, rhs.Common().Type
		if !model.TypesMatch(lt, rt) {
			e.report(node.Line(), node.Col(), diag.OperatorTypeMismatch, "operand type mismatch", node.Token())
		}
		equiv = model.EquivClassOf(lt)
		if op.IsComparison() {
			common.Type = model.Truth
		} else {
			common.Type = lt
		}
	}
	return &model.BinaryExpr{ExprCommon: common, LHS: lhs, RHS: rhs, Op: op, Equiv: equiv}, nil
}
