package elaborate

import (
	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

// elaborateRef resolves a value-reference tree, spec.md §4.3's "Value-reference elaboration": a
// head (variable, optionally context/dump qualified) followed by zero or more subreferences and
// an optional trailing query operator `@`, wrapped as a QUERY_REF node around the chain.
func (e *Elaborator) elaborateRef(node syntax.Node, block *model.Block, hostSlab *model.Slab) (model.ValueRef, error) {
	if node == nil {
		d := diag.Diagnostic{Kind: diag.VariableNotFound, Message: "missing reference"}
		e.report(0, 0, d.Kind, d.Message, "")
		return nil, d
	}
	if node.Name() == syntax.KindQueryRef {
		inner, err := e.elaborateRef(syntax.Child(node, 0), block, hostSlab)
		if err != nil {
			return nil, err
		}
		c := inner.Common()
		if !model.IsAddress(c.Type) {
			d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.QueryNotAddress, Message: "query target is not an address"}
			e.report(d.Line, d.Col, d.Kind, d.Message, "")
			return nil, d
		}
		c.Query = true
		c.Type = model.Resolve(c.Type).Inner
		return inner, nil
	}
	return e.elaborateRefChain(node, block, hostSlab)
}

func (e *Elaborator) elaborateRefChain(node syntax.Node, block *model.Block, hostSlab *model.Slab) (model.ValueRef, error) {
	switch node.Name() {
	case syntax.KindVariableRef:
		return e.elaborateVariableRef(node, block, hostSlab)
	case syntax.KindMemberRef:
		return e.elaborateMemberRef(node, block, hostSlab)
	case syntax.KindElementRef:
		return e.elaborateElementRef(node, block, hostSlab)
	case syntax.KindRowRef:
		return e.elaborateRowRef(node, block, hostSlab)
	default:
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.ExpressionNotRecognised, Message: "unrecognised reference", Detail: node.Name()}
		e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
		return nil, d
	}
}

func (e *Elaborator) elaborateVariableRef(node syntax.Node, block *model.Block, hostSlab *model.Slab) (model.ValueRef, error) {
	name := node.Token()
	if qualifier := syntax.Child(node, 0); qualifier != nil {
		switch qualifier.Name() {
		case syntax.KindContextQualifier:
			ctx, ok := hostSlab.Contexts[qualifier.Token()]
			if !ok {
				d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.ContextNotFound, Message: "context not found", Detail: qualifier.Token()}
				e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
				return nil, d
			}
			if block == nil || block.HostFunction == nil || !block.HostFunction.HasCapture(ctx) {
				d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.ContextNotCaptured, Message: "context not captured", Detail: qualifier.Token()}
				e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
				return nil, d
			}
			v, ok := ctx.Members[name]
			if !ok {
				d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.MemberNotFound, Message: "context member not found", Detail: name}
				e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
				return nil, d
			}
			return &model.VariableRef{RefCommon: model.RefCommon{Type: v.Type}, Variable: v, HostSlab: hostSlab}, nil
		case syntax.KindDumpQualifier:
			dump, ok := hostSlab.Dumps[qualifier.Token()]
			if !ok {
				d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.DumpNotFound, Message: "dump not found", Detail: qualifier.Token()}
				e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
				return nil, d
			}
			v, ok := dump.Members[name]
			if !ok {
				d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.MemberNotFound, Message: "dump member not found", Detail: name}
				e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
				return nil, d
			}
			return &model.VariableRef{RefCommon: model.RefCommon{Type: v.Type}, Variable: v, HostSlab: hostSlab}, nil
		}
	}

	if block != nil {
		if v := block.Lookup(name); v != nil {
			return &model.VariableRef{RefCommon: model.RefCommon{Type: v.Type}, Variable: v, HostSlab: hostSlab}, nil
		}
	}
	d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.VariableNotFound, Message: "variable not found", Detail: name}
	e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
	return nil, d
}

func (e *Elaborator) elaborateMemberRef(node syntax.Node, block *model.Block, hostSlab *model.Slab) (model.ValueRef, error) {
	parent, err := e.elaborateRefChain(syntax.Child(node, 0), block, hostSlab)
	if err != nil {
		return nil, err
	}
	collType := model.StripAddress(parent.Common().Type)
	if collType == nil || collType.Kind != model.KindCollection {
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.MemberNotOfCollection, Message: "not a collection"}
		e.report(d.Line, d.Col, d.Kind, d.Message, "")
		return nil, d
	}
	name := node.Token()
	for _, m := range collType.Members {
		if m.Name == name {
			return &model.MemberRef{RefCommon: model.RefCommon{Parent: parent, Type: m.Type}, MemberName: name, MemberIndex: m.Index}, nil
		}
	}
	d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.MemberNotFound, Message: "member not found", Detail: name}
	e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
	return nil, d
}

func (e *Elaborator) elaborateElementRef(node syntax.Node, block *model.Block, hostSlab *model.Slab) (model.ValueRef, error) {
	parent, err := e.elaborateRefChain(syntax.Child(node, 0), block, hostSlab)
	if err != nil {
		return nil, err
	}
	vecType := model.StripAddress(parent.Common().Type)
	if vecType == nil || vecType.Kind != model.KindVector {
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.IndexNotOfVector, Message: "not a vector"}
		e.report(d.Line, d.Col, d.Kind, d.Message, "")
		return nil, d
	}
	index, _ := e.elaborateExpr(syntax.Child(node, 1), block, hostSlab)
	if index != nil && model.EquivClassOf(index.Common().Type) != model.EquivInt {
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.IndexNotInteger, Message: "index is not an integer"}
		e.report(d.Line, d.Col, d.Kind, d.Message, "")
	}
	return &model.ElementRef{RefCommon: model.RefCommon{Parent: parent, Type: vecType.Inner}, Index: index}, nil
}

func (e *Elaborator) elaborateRowRef(node syntax.Node, block *model.Block, hostSlab *model.Slab) (model.ValueRef, error) {
	parent, err := e.elaborateRefChain(syntax.Child(node, 0), block, hostSlab)
	if err != nil {
		return nil, err
	}
	tableType := model.StripAddress(parent.Common().Type)
	if tableType == nil || tableType.Kind != model.KindTable {
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.TableRefNotTable, Message: "not a table"}
		e.report(d.Line, d.Col, d.Kind, d.Message, "")
		return nil, d
	}
	id, _ := e.elaborateExpr(syntax.Child(node, 1), block, hostSlab)
	if id != nil && model.EquivClassOf(id.Common().Type) != model.EquivInt {
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.IDNotInt, Message: "id is not an integer"}
		e.report(d.Line, d.Col, d.Kind, d.Message, "")
	}
	name := node.Token()
	for _, f := range tableType.Fields {
		if f.Name == name {
			return &model.RowRef{RefCommon: model.RefCommon{Parent: parent, Type: f.Type}, FieldName: name, ID: id, FieldIndex: f.Index}, nil
		}
	}
	d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.FieldNotFound, Message: "field not found", Detail: name}
	e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
	return nil, d
}
