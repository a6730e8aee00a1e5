package lower

import "tabi/src/model"

// topoOrder returns every slab reachable from root, dependencies (attachments) before dependents,
// via a post-order depth-first walk. A slab with no attachments, or whose attachments are all
// already visited, sorts before anything that attaches it — the same order _tabi_init must run in
// so that a slab's contexts exist before an attaching slab's initializer can read them.
func topoOrder(root *model.Slab) []*model.Slab {
	visited := make(map[string]bool)
	var order []*model.Slab
	var visit func(s *model.Slab)
	visit = func(s *model.Slab) {
		if s == nil || visited[s.ID] {
			return
		}
		visited[s.ID] = true
		for _, attached := range s.Attachments {
			visit(attached)
		}
		order = append(order, s)
	}
	visit(root)
	return order
}
