package emit

import "testing"

func TestFlattenID(t *testing.T) {
	cases := []struct{ id, want string }{
		{"LOCAL_/home/user/root.tabi", "LOCAL__home_user_root.tabi"},
		{"EXTERNAL_std/io", "EXTERNAL_std_io"},
		{"noslash", "noslash"},
	}
	for _, c := range cases {
		if got := flattenID(c.id); got != c.want {
			t.Errorf("flattenID(%q) = %q, want %q", c.id, got, c.want)
		}
	}
}

func TestObjectPathsPreservesOrder(t *testing.T) {
	results := []Result{
		{SlabID: "a", ObjectOut: "/out/a.o"},
		{SlabID: "b", ObjectOut: "/out/b.o"},
		{SlabID: "c", ObjectOut: "/out/c.o"},
	}
	got := ObjectPaths(results)
	want := []string{"/out/a.o", "/out/b.o", "/out/c.o"}
	if len(got) != len(want) {
		t.Fatalf("len(ObjectPaths) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ObjectPaths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestObjectPathsEmpty(t *testing.T) {
	if got := ObjectPaths(nil); len(got) != 0 {
		t.Fatalf("ObjectPaths(nil) = %v, want empty", got)
	}
}
