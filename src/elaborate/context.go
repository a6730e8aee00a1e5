package elaborate

import (
	"tabi/src/model"
	"tabi/src/syntax"
)

// elaborateContext resolves every member declaration of ctx: a type and a static initializer
// expression for each (spec.md §4.3, §3: "Context variables are process-global").
func (e *Elaborator) elaborateContext(ctx *model.Context) {
	if ctx == nil || ctx.Node == nil {
		return
	}
	node := ctx.Node
	for i, n := 0, len(node.Children()); i < n; i++ {
		decl := syntax.Child(node, i)
		if decl == nil {
			continue
		}
		name := decl.Token()
		typ, err := e.getOrCreateType(syntax.Child(decl, 0), ctx.HostSlab)
		if err != nil {
			continue
		}
		v := &model.Variable{
			Kind: model.VarContext, Name: name, Type: typ,
			HostContext: ctx, Pos: model.PosOf(decl),
		}
		if init := syntax.Child(decl, 1); init != nil {
			expr, _ := e.elaborateExpr(init, nil, ctx.HostSlab)
			v.Initializer = expr
		}
		ctx.AddMember(v)
	}
	ctx.Node = nil
}

// elaborateDump resolves every member declaration of d, identically to elaborateContext but
// producing VarDump variables that require no capture to reference.
func (e *Elaborator) elaborateDump(d *model.Dump) {
	if d == nil || d.Node == nil {
		return
	}
	node := d.Node
	for i, n := 0, len(node.Children()); i < n; i++ {
		decl := syntax.Child(node, i)
		if decl == nil {
			continue
		}
		name := decl.Token()
		typ, err := e.getOrCreateType(syntax.Child(decl, 0), d.HostSlab)
		if err != nil {
			continue
		}
		v := &model.Variable{
			Kind: model.VarDump, Name: name, Type: typ,
			HostDump: d, Pos: model.PosOf(decl),
		}
		if init := syntax.Child(decl, 1); init != nil {
			expr, _ := e.elaborateExpr(init, nil, d.HostSlab)
			v.Initializer = expr
		}
		d.AddMember(v)
	}
	d.Node = nil
}
