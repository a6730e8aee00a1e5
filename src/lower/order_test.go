package lower

import (
	"testing"

	"tabi/src/model"
)

func TestTopoOrderAttachmentsBeforeDependents(t *testing.T) {
	leaf := model.NewSlab("LOCAL_leaf", "leaf", "/leaf.tabi", "", nil)
	mid := model.NewSlab("LOCAL_mid", "mid", "/mid.tabi", "", nil)
	mid.Attachments["leaf"] = leaf
	root := model.NewSlab("LOCAL_root", "root", "/root.tabi", "", nil)
	root.Attachments["mid"] = mid

	order := topoOrder(root)
	if len(order) != 3 {
		t.Fatalf("len(order) = %d, want 3", len(order))
	}
	pos := make(map[string]int, 3)
	for i, s := range order {
		pos[s.ID] = i
	}
	if pos[leaf.ID] >= pos[mid.ID] {
		t.Fatalf("leaf must sort before mid: order = %v", idsOf(order))
	}
	if pos[mid.ID] >= pos[root.ID] {
		t.Fatalf("mid must sort before root: order = %v", idsOf(order))
	}
}

func TestTopoOrderDiamondVisitsOnce(t *testing.T) {
	shared := model.NewSlab("LOCAL_shared", "shared", "/shared.tabi", "", nil)
	a := model.NewSlab("LOCAL_a", "a", "/a.tabi", "", nil)
	a.Attachments["shared"] = shared
	b := model.NewSlab("LOCAL_b", "b", "/b.tabi", "", nil)
	b.Attachments["shared"] = shared
	root := model.NewSlab("LOCAL_root", "root", "/root.tabi", "", nil)
	root.Attachments["a"] = a
	root.Attachments["b"] = b

	order := topoOrder(root)
	if len(order) != 4 {
		t.Fatalf("len(order) = %d, want 4 (no duplicate visit of shared), got %v", len(order), idsOf(order))
	}
}

func TestTopoOrderNilRoot(t *testing.T) {
	if got := topoOrder(nil); len(got) != 0 {
		t.Fatalf("topoOrder(nil) = %v, want empty", got)
	}
}

func idsOf(slabs []*model.Slab) []string {
	ids := make([]string, len(slabs))
	for i, s := range slabs {
		ids[i] = s.ID
	}
	return ids
}
