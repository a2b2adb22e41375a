package doctree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(t *Tree, id NodeID) []string {
	var out []string
	for _, c := range t.Children(id) {
		out = append(out, t.Node(c).Name)
	}
	return out
}

func TestInsert_SortedByName(t *testing.T) {
	tree := New()
	for _, name := range []string{"delta", "alpha", "charlie", "Bravo"} {
		if !tree.Insert(tree.Root(), tree.NewNode(KindFunction, name)) {
			t.Fatalf("insert %q failed", name)
		}
	}

	want := []string{"Bravo", "alpha", "charlie", "delta"}
	if diff := cmp.Diff(want, names(tree, tree.Root())); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestInsert_RejectsHiddenAndUnnamed(t *testing.T) {
	tree := New()
	if tree.Insert(tree.Root(), tree.NewNode(KindVariable, "_private")) {
		t.Error("expected underscore name to be rejected")
	}
	if tree.Insert(tree.Root(), tree.NewNode(KindStruct, "")) {
		t.Error("expected unnamed node to be rejected")
	}
	if n := len(tree.Children(tree.Root())); n != 0 {
		t.Errorf("expected empty root, got %d children", n)
	}
	if _, ok := tree.FindFirst(tree.Root(), KindVariable, "_private"); ok {
		t.Error("hidden name should not be found")
	}
}

func TestInsert_ReplacesSameKindAndName(t *testing.T) {
	tree := New()
	old := tree.NewNode(KindVariable, "count")
	tree.Node(old).Scope = ScopeProtected
	tree.Insert(tree.Root(), old)

	fn := tree.NewNode(KindFunction, "count")
	tree.Insert(tree.Root(), fn)

	repl := tree.NewNode(KindVariable, "count")
	tree.Insert(tree.Root(), repl)

	if tree.Attached(old) {
		t.Error("expected old variable to be unlinked")
	}
	if !tree.Attached(fn) {
		t.Error("function with the same name should be kept")
	}
	if got := tree.Node(repl).Scope; got != ScopeProtected {
		t.Errorf("expected scope carried over, got %v", got)
	}
	if n := len(tree.Children(tree.Root())); n != 2 {
		t.Errorf("expected 2 children, got %d", n)
	}
}

func TestInsert_ExplicitScopeWins(t *testing.T) {
	tree := New()
	old := tree.NewNode(KindVariable, "v")
	tree.Node(old).Scope = ScopePrivate
	tree.Insert(tree.Root(), old)

	repl := tree.NewNode(KindVariable, "v")
	tree.Node(repl).Scope = ScopePublic
	tree.Insert(tree.Root(), repl)

	if got := tree.Node(repl).Scope; got != ScopePublic {
		t.Errorf("expected public, got %v", got)
	}
}

func TestInsert_SkipsUnnamedSiblings(t *testing.T) {
	tree := New()
	class := tree.NewNode(KindClass, "C")
	tree.Insert(tree.Root(), class)
	tree.SetDescription(class, "doc")
	tree.Insert(class, tree.NewNode(KindVariable, "b"))
	tree.Insert(class, tree.NewNode(KindVariable, "a"))

	want := []string{"", "a", "b"}
	if diff := cmp.Diff(want, names(tree, class)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	dst := New()
	keep := dst.NewNode(KindFunction, "keep")
	dst.SetDescription(keep, "kept")
	dst.Insert(dst.Root(), keep)
	old := dst.NewNode(KindVariable, "shared")
	dst.Node(old).Scope = ScopePrivate
	dst.Insert(dst.Root(), old)

	src := New()
	v := src.NewNode(KindVariable, "shared")
	src.AddType(v, []Fragment{{Text: "int"}})
	src.SetDescription(v, "new text")
	src.Insert(src.Root(), v)
	fn := src.NewNode(KindFunction, "added")
	arg := src.NewNode(KindArgument, "x")
	src.Append(fn, arg)
	src.Insert(src.Root(), fn)

	Merge(dst, src)

	want := []string{"added", "keep", "shared"}
	if diff := cmp.Diff(want, names(dst, dst.Root())); diff != "" {
		t.Fatalf("merged order mismatch (-want +got):\n%s", diff)
	}

	shared, _ := dst.FindFirst(dst.Root(), KindVariable, "shared")
	if got := dst.Node(shared).Scope; got != ScopePrivate {
		t.Errorf("expected scope kept, got %v", got)
	}
	if got := dst.DescriptionText(shared); got != "new text" {
		t.Errorf("expected %q, got %q", "new text", got)
	}
	if got := dst.TypeString(shared); got != "int" {
		t.Errorf("expected int, got %q", got)
	}

	added, _ := dst.FindFirst(dst.Root(), KindFunction, "added")
	if _, ok := dst.FindFirst(added, KindArgument, "x"); !ok {
		t.Error("expected argument copied with its function")
	}

	// src is untouched.
	if !src.Attached(v) || len(src.Children(src.Root())) != 2 {
		t.Error("merge modified the source tree")
	}
}
