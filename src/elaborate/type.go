package elaborate

import (
	"strings"

	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

// elaborateType fills in a top-level declared type in place (spec.md §4.2: "a named type's slot
// may be replaced in place when its alias is later resolved" — here "in place" means the same
// *model.Type pointer every other declaration already references gets its shape populated).
// t.Node is used as the "not yet elaborated" sentinel; it is cleared once t is filled in.
func (e *Elaborator) elaborateType(t *model.Type) {
	if t == nil || t.Node == nil {
		return
	}
	if e.inProgress[t] {
		e.report(0, 0, diag.TypeNotFound, "cyclic type declaration", e.aliasChainDetail(t.Name))
		t.Node = nil
		return
	}
	e.inProgress[t] = true
	e.typeStack.Push(t.Name)
	defer func() {
		delete(e.inProgress, t)
		e.typeStack.Pop()
	}()

	node := t.Node
	hostSlab := t.HostSlab

	if t.Kind == model.KindAlias {
		target := syntax.Child(node, 0)
		resolved, err := e.getOrCreateType(target, hostSlab)
		if err != nil {
			return
		}
		t.Alias = resolved
		t.Node = nil
		return
	}

	// A plain TypeDecl's single child names the type former: a run of MEMBER nodes (collection),
	// or a single ADDRESS_TYPE/VECTOR_TYPE/TABLE_TYPE node.
	shape := syntax.Child(node, 0)
	if shape == nil {
		t.Kind = model.KindCollection
		t.Node = nil
		return
	}
	switch shape.Name() {
	case syntax.KindMember:
		e.fillCollection(t, node)
	case syntax.KindAddress:
		inner, _ := e.getOrCreateType(syntax.Child(shape, 0), hostSlab)
		t.Kind, t.Inner = model.KindAddress, inner
	case syntax.KindVectorType:
		e.fillVector(t, shape, hostSlab)
	case syntax.KindTableType:
		e.fillTable(t, shape, hostSlab)
	default:
		e.fillCollection(t, node)
	}
	t.Node = nil
}

func (e *Elaborator) fillCollection(t *model.Type, node syntax.Node) {
	t.Kind = model.KindCollection
	t.Members = t.Members[:0]
	for i, n := 0, len(node.Children()); i < n; i++ {
		mn := syntax.Child(node, i)
		if mn == nil || mn.Name() != syntax.KindMember {
			continue
		}
		mt, err := e.getOrCreateType(syntax.Child(mn, 0), t.HostSlab)
		if err != nil {
			continue
		}
		t.Members = append(t.Members, model.Member{Name: mn.Token(), Type: mt, Index: len(t.Members)})
	}
}

func (e *Elaborator) fillVector(t *model.Type, shape syntax.Node, hostSlab *model.Slab) {
	t.Kind = model.KindVector
	elem, _ := e.getOrCreateType(syntax.Child(shape, 0), hostSlab)
	t.Inner = elem
	if count := syntax.Child(shape, 1); count != nil {
		expr, _ := e.elaborateExpr(count, nil, hostSlab)
		t.NumElem = expr
	}
}

func (e *Elaborator) fillTable(t *model.Type, shape syntax.Node, hostSlab *model.Slab) {
	t.Kind = model.KindTable
	t.Fields = []model.TableField{
		{Name: "id", Type: model.Int, Index: 0},
		{Name: "use", Type: model.Int, Index: 1},
	}
	children := shape.Children()
	for i := 0; i < len(children); i++ {
		fn := syntax.Child(shape, i)
		if fn == nil {
			continue
		}
		if fn.Name() == syntax.KindTableField {
			ft, err := e.getOrCreateType(syntax.Child(fn, 0), hostSlab)
			if err != nil {
				continue
			}
			t.Fields = append(t.Fields, model.TableField{Name: fn.Token(), Type: ft, Index: len(t.Fields)})
		}
	}
	if len(children) > 0 {
		if last := syntax.Child(shape, len(children)-1); last != nil && last.Name() != syntax.KindTableField {
			expr, _ := e.elaborateExpr(last, nil, hostSlab)
			t.NumRows = expr
		}
	}
}

// aliasChainDetail renders the currently descending type stack plus the type that closed the
// loop, bottom to top, for a cyclic-declaration diagnostic's Detail field.
func (e *Elaborator) aliasChainDetail(closing string) string {
	parts := make([]string, 0, e.typeStack.Size()+1)
	for i := e.typeStack.Size(); i >= 1; i-- {
		if name := e.typeStack.Get(i); name != "" {
			parts = append(parts, name)
		}
	}
	parts = append(parts, closing)
	return strings.Join(parts, " -> ")
}

// getOrCreateType resolves a type-reference node, spec.md §4.3's eponymous operation. Unlike
// elaborateType it returns a (possibly freshly built, anonymous) *model.Type rather than filling
// one in place; named references resolve to the slab-owned singleton, triggering its elaboration
// first if it is still pending.
func (e *Elaborator) getOrCreateType(node syntax.Node, hostSlab *model.Slab) (*model.Type, error) {
	if node == nil {
		return model.None, nil
	}
	switch node.Name() {
	case syntax.KindAddress:
		inner, err := e.getOrCreateType(syntax.Child(node, 0), hostSlab)
		if err != nil {
			return nil, err
		}
		return &model.Type{Kind: model.KindAddress, Inner: inner}, nil
	case syntax.KindVectorType:
		elem, err := e.getOrCreateType(syntax.Child(node, 0), hostSlab)
		if err != nil {
			return nil, err
		}
		t := &model.Type{Kind: model.KindVector, Inner: elem}
		if count := syntax.Child(node, 1); count != nil {
			expr, _ := e.elaborateExpr(count, nil, hostSlab)
			t.NumElem = expr
		}
		return t, nil
	case syntax.KindTableType:
		t := &model.Type{Kind: model.KindTable}
		e.fillTable(t, node, hostSlab)
		return t, nil
	default:
		// Primitive or named reference.
		if prim, ok := model.PrimitiveByName(node.Token()); ok {
			return prim, nil
		}
		return e.lookupNamedType(node, hostSlab)
	}
}

// lookupNamedType resolves a (possibly slab-qualified) named type reference: "Name" within
// hostSlab, or "alias.Name" via hostSlab's attachment table.
func (e *Elaborator) lookupNamedType(node syntax.Node, hostSlab *model.Slab) (*model.Type, error) {
	target := hostSlab
	name := node.Token()
	if qualifier := syntax.Child(node, 0); qualifier != nil {
		attached, ok := hostSlab.Attachments[qualifier.Token()]
		if !ok {
			d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.SlabNotAttached, Message: "slab not attached", Detail: qualifier.Token()}
			e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
			return nil, d
		}
		target = attached
	}
	t, ok := target.Types[name]
	if !ok {
		d := diag.Diagnostic{Line: node.Line(), Col: node.Col(), Kind: diag.TypeNotFound, Message: "type not found", Detail: name}
		e.report(d.Line, d.Col, d.Kind, d.Message, d.Detail)
		return nil, d
	}
	if t.Node != nil {
		e.elaborateType(t)
	}
	return t, nil
}
