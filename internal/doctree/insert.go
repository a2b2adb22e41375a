package doctree

import "strings"

// Insert links node under parent in name order, replacing any sibling of the
// same kind and name. The replaced sibling's scope carries over when node
// has none. Nodes without a name, or whose name starts with '_', are not
// inserted and Insert reports false.
func (t *Tree) Insert(parent, node NodeID) bool {
	p, n := t.Node(parent), t.Node(node)
	if p == nil || n == nil || n.parent == parent {
		return false
	}
	if n.Name == "" || strings.HasPrefix(n.Name, "_") {
		return false
	}

	if old, ok := t.FindFirst(parent, n.Kind, n.Name); ok {
		if n.Scope == ScopeNone {
			n.Scope = t.nodes[old].Scope
		}
		t.Remove(old)
	}
	t.Remove(node)

	children := t.nodes[parent].children
	pos := len(children)
	for i, c := range children {
		name := t.nodes[c].Name
		if name == "" {
			continue
		}
		if n.Name < name {
			pos = i
			break
		}
	}

	out := make([]NodeID, 0, len(children)+1)
	out = append(out, children[:pos]...)
	out = append(out, node)
	out = append(out, children[pos:]...)
	t.nodes[parent].children = out
	n.parent = parent
	return true
}

// Merge copies every top-level node of src into dst's root through Insert,
// so merging behaves like scanning the same declarations into dst.
func Merge(dst, src *Tree) {
	for _, c := range src.Children(src.Root()) {
		cp := copyNode(dst, src, c)
		if dst.nodes[cp].Kind == KindDescription || dst.nodes[cp].Kind == KindType {
			continue
		}
		dst.Insert(dst.Root(), cp)
	}
}

// copyNode deep-copies id from src into dst as an unattached subtree.
func copyNode(dst, src *Tree, id NodeID) NodeID {
	sn := src.nodes[id]
	cp := dst.NewNode(sn.Kind, sn.Name)
	n := &dst.nodes[cp]
	n.Scope = sn.Scope
	n.Base = sn.Base
	n.Default = sn.Default
	n.Direction = sn.Direction
	n.Text = sn.Text
	n.Fragments = append([]Fragment(nil), sn.Fragments...)
	for _, c := range sn.children {
		dst.Append(cp, copyNode(dst, src, c))
	}
	return cp
}
