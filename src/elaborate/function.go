package elaborate

import (
	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

// elaborateFunction resolves fn's captures, signature and (for local functions) body, per
// spec.md §4.3's "Function elaboration".
func (e *Elaborator) elaborateFunction(fn *model.Function) {
	if fn == nil || fn.Node == nil {
		return
	}
	node := fn.Node
	switch fn.Kind {
	case model.FuncLocal:
		e.elaborateLocalFunction(fn, node)
	case model.FuncExternal:
		e.elaborateExternalFunction(fn, node)
	}
	fn.Node = nil
}

func (e *Elaborator) elaborateLocalFunction(fn *model.Function, node syntax.Node) {
	fn.ReturnType = model.None
	var bodyNode syntax.Node
	for i, n := 0, len(node.Children()); i < n; i++ {
		child := syntax.Child(node, i)
		if child == nil {
			continue
		}
		switch child.Name() {
		case syntax.KindCaptures:
			fn.Captures = e.parseCaptures(child, fn.HostSlab)
		case syntax.KindReturnType:
			if rt := syntax.Child(child, 0); rt != nil {
				if t, err := e.getOrCreateType(rt, fn.HostSlab); err == nil {
					fn.ReturnType = t
				}
			}
		case syntax.KindBlock:
			bodyNode = child
		}
	}

	for i, n := 0, len(node.Children()); i < n; i++ {
		child := syntax.Child(node, i)
		if child == nil || child.Name() != syntax.KindArg {
			continue
		}
		argType, err := e.getOrCreateType(syntax.Child(child, 0), fn.HostSlab)
		if err != nil {
			continue
		}
		fn.Args = append(fn.Args, &model.Variable{
			Kind: model.VarStacked, Name: child.Token(), Type: argType, Pos: model.PosOf(child),
		})
	}

	if bodyNode != nil {
		fn.Body = model.NewBlock(bodyNode, nil, fn)
		e.elaborateBlock(fn.Body)
	}
}

func (e *Elaborator) elaborateExternalFunction(fn *model.Function, node syntax.Node) {
	fn.ReturnType = model.None
	fn.ExternalName = fn.Name
	for i, n := 0, len(node.Children()); i < n; i++ {
		child := syntax.Child(node, i)
		if child == nil {
			continue
		}
		switch child.Name() {
		case syntax.KindReturnType:
			if rt := syntax.Child(child, 0); rt != nil {
				if t, err := e.getOrCreateType(rt, fn.HostSlab); err == nil {
					fn.ReturnType = t
				}
			}
		case syntax.KindExternalName:
			fn.ExternalName = child.Token()
		case syntax.KindArg:
			if argType, err := e.getOrCreateType(syntax.Child(child, 0), fn.HostSlab); err == nil {
				fn.ArgTypes = append(fn.ArgTypes, argType)
			}
		}
	}
}

// parseCaptures resolves each CAPTURE child of node to its Context, optionally qualified by an
// attached slab's alias.
func (e *Elaborator) parseCaptures(node syntax.Node, hostSlab *model.Slab) []*model.Context {
	var out []*model.Context
	for i, n := 0, len(node.Children()); i < n; i++ {
		cap := syntax.Child(node, i)
		if cap == nil || cap.Name() != syntax.KindCapture {
			continue
		}
		target := hostSlab
		if qualifier := syntax.Child(cap, 0); qualifier != nil {
			attached, ok := hostSlab.Attachments[qualifier.Token()]
			if !ok {
				e.report(cap.Line(), cap.Col(), diag.SlabNotAttached, "slab not attached", qualifier.Token())
				continue
			}
			target = attached
		}
		ctx, ok := target.Contexts[cap.Token()]
		if !ok {
			e.report(cap.Line(), cap.Col(), diag.ContextNotFound, "context not found", cap.Token())
			continue
		}
		out = append(out, ctx)
	}
	return out
}
