package doctree

import "strings"

// PrivateMarker hides a documented declaration from the public filter.
const PrivateMarker = "@private@"

// FindFirst returns the first child of root with the given kind, and name
// when name is non-empty.
func (t *Tree) FindFirst(root NodeID, kind Kind, name string) (NodeID, bool) {
	for _, c := range t.Children(root) {
		if t.matches(c, kind, name) {
			return c, true
		}
	}
	return NoNode, false
}

// FindNext continues a FindFirst walk after node. When node is root it
// behaves like FindFirst. The walk never descends below root's children.
func (t *Tree) FindNext(node, root NodeID, kind Kind, name string) (NodeID, bool) {
	if node == root {
		return t.FindFirst(root, kind, name)
	}
	if t.Parent(node) != root {
		return NoNode, false
	}
	children := t.Children(root)
	for i, c := range children {
		if c != node {
			continue
		}
		for _, next := range children[i+1:] {
			if t.matches(next, kind, name) {
				return next, true
			}
		}
		break
	}
	return NoNode, false
}

func (t *Tree) matches(id NodeID, kind Kind, name string) bool {
	n := &t.nodes[id]
	return n.Kind == kind && (name == "" || n.Name == name)
}

// IsPublic reports whether id carries a description without the private marker.
func (t *Tree) IsPublic(id NodeID) bool {
	d, ok := t.Description(id)
	if !ok {
		return false
	}
	return !strings.Contains(t.nodes[d].Text, PrivateMarker)
}

// NextPublic returns the next public node after cursor (or the first one
// when cursor is root). Undocumented and private candidates are skipped.
func (t *Tree) NextPublic(cursor, root NodeID, kind Kind, name string) (NodeID, bool) {
	node, ok := t.FindNext(cursor, root, kind, name)
	for ok {
		if t.IsPublic(node) {
			return node, true
		}
		node, ok = t.FindNext(node, root, kind, name)
	}
	return NoNode, false
}

// Public collects every public child of root with the given kind.
func (t *Tree) Public(root NodeID, kind Kind, name string) []NodeID {
	var out []NodeID
	for n, ok := t.NextPublic(root, root, kind, name); ok; n, ok = t.NextPublic(n, root, kind, name) {
		out = append(out, n)
	}
	return out
}
