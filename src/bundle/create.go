package bundle

import (
	"tabi/src/diag"
	"tabi/src/model"
	"tabi/src/syntax"
)

// createDeclarations performs spec.md §4.2's single walk over slab's top-level forms: it
// resolves and attaches every referenced slab, and allocates a shallow declaration object for
// every function, type, context and dump — recording only the declaring tree node and host slab.
// Bodies, member types, signatures and initializers are left for the elaborator.
func (l *Loader) createDeclarations(slab *model.Slab) error {
	tree := slab.Tree
	if tree == nil {
		return nil
	}
	for i := 0; i < len(tree.Children()); i++ {
		form := syntax.Child(tree, i)
		if form == nil {
			continue
		}
		switch form.Name() {
		case syntax.KindAttachment:
			if err := l.createAttachment(slab, form); err != nil {
				return err
			}
		case syntax.KindFunction:
			name := form.Token()
			if _, exists := slab.Functions[name]; exists {
				return l.doubleAlias(form, name)
			}
			slab.Functions[name] = &model.Function{
				Kind:     model.FuncLocal,
				Name:     name,
				HostSlab: slab,
				Node:     form,
				Pos:      model.PosOf(form),
			}
		case syntax.KindExternFunc:
			name := form.Token()
			if _, exists := slab.Functions[name]; exists {
				return l.doubleAlias(form, name)
			}
			slab.Functions[name] = &model.Function{
				Kind:     model.FuncExternal,
				Name:     name,
				HostSlab: slab,
				Node:     form,
				Pos:      model.PosOf(form),
			}
		case syntax.KindTypeDecl:
			name := form.Token()
			if _, exists := slab.Types[name]; exists {
				return l.doubleAlias(form, name)
			}
			slab.Types[name] = &model.Type{Name: name, TopLevel: true, HostSlab: slab, Node: form}
		case syntax.KindAliasDecl:
			name := form.Token()
			if _, exists := slab.Types[name]; exists {
				return l.doubleAlias(form, name)
			}
			slab.Types[name] = &model.Type{Kind: model.KindAlias, Name: name, TopLevel: true, HostSlab: slab, Node: form}
		case syntax.KindContextDecl:
			name := form.Token()
			if _, exists := slab.Contexts[name]; exists {
				return l.doubleAlias(form, name)
			}
			ctx := model.NewContext(name, slab)
			ctx.Node = form
			slab.Contexts[name] = ctx
		case syntax.KindDumpDecl:
			name := form.Token()
			if _, exists := slab.Dumps[name]; exists {
				return l.doubleAlias(form, name)
			}
			dump := model.NewDump(name, slab)
			dump.Node = form
			slab.Dumps[name] = dump
		}
	}
	return nil
}

// createAttachment resolves the slab form refers to (recursively loading it if necessary) and
// registers it under its alias in slab's attachment table.
func (l *Loader) createAttachment(slab *model.Slab, form syntax.Node) error {
	alias := form.Token()
	if _, exists := slab.Attachments[alias]; exists {
		return l.doubleAlias(form, alias)
	}
	ref := syntax.Child(form, 0)
	if ref == nil {
		return diag.Diagnostic{
			Line: form.Line(), Col: form.Col(),
			Kind: diag.SyntaxError, Message: "attachment missing reference", Detail: alias,
		}
	}
	domain := DomainLocal
	if ref.Name() == syntax.KindExternalRef {
		domain = DomainExternal
	}
	attached, err := l.getOrCreateSlab(domain, ref.Token(), slab)
	if err != nil {
		return err
	}
	slab.Attachments[alias] = attached
	return nil
}

func (l *Loader) doubleAlias(form syntax.Node, name string) error {
	d := diag.Diagnostic{
		Line: form.Line(), Col: form.Col(),
		Kind: diag.DoubleAlias, Message: "name already declared in this slab", Detail: name,
	}
	if l.Diags != nil {
		l.Diags.Append(d)
	}
	return d
}
