package doctree

import "strings"

// Kind identifies the element type of a documentation node.
type Kind int

const (
	KindRoot Kind = iota
	KindNamespace
	KindClass
	KindStruct
	KindUnion
	KindEnumeration
	KindConstant
	KindTypedef
	KindFunction
	KindVariable
	KindArgument
	KindReturnValue
	KindDescription
	KindType
)

var kindNames = [...]string{
	KindRoot:        "codedoc",
	KindNamespace:   "namespace",
	KindClass:       "class",
	KindStruct:      "struct",
	KindUnion:       "union",
	KindEnumeration: "enumeration",
	KindConstant:    "constant",
	KindTypedef:     "typedef",
	KindFunction:    "function",
	KindVariable:    "variable",
	KindArgument:    "argument",
	KindReturnValue: "returnvalue",
	KindDescription: "description",
	KindType:        "type",
}

// String returns the element name used in the XML form.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind maps an element name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	if s == "mxmldoc" {
		return KindRoot, true
	}
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// IsAggregate reports whether k is a struct, union or class.
func (k Kind) IsAggregate() bool {
	return k == KindClass || k == KindStruct || k == KindUnion
}

// Scope is member visibility.
type Scope int

const (
	ScopeNone Scope = iota
	ScopePublic
	ScopeProtected
	ScopePrivate
)

func (s Scope) String() string {
	switch s {
	case ScopePublic:
		return "public"
	case ScopeProtected:
		return "protected"
	case ScopePrivate:
		return "private"
	}
	return ""
}

// ParseScope accepts "public", "protected" or "private".
func ParseScope(s string) Scope {
	switch s {
	case "public":
		return ScopePublic
	case "protected":
		return ScopeProtected
	case "private":
		return ScopePrivate
	}
	return ScopeNone
}

// Direction is the data flow of a function argument.
type Direction int

const (
	DirNone Direction = iota
	DirIn
	DirOut
	DirInOut
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "I"
	case DirOut:
		return "O"
	case DirInOut:
		return "IO"
	}
	return ""
}

// ParseDirection accepts the comment markers "I", "O" and "IO".
func ParseDirection(s string) Direction {
	switch s {
	case "I":
		return DirIn
	case "O":
		return DirOut
	case "IO":
		return DirInOut
	}
	return DirNone
}

// Fragment is one raw token of a type spelling.
type Fragment struct {
	Text  string
	Space bool // preceded by whitespace
}

// JoinFragments rebuilds the spelling of a fragment list.
func JoinFragments(frags []Fragment) string {
	var sb strings.Builder
	for i, f := range frags {
		if f.Space && i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Text)
	}
	return sb.String()
}

// NodeID addresses a node inside a Tree.
type NodeID int

// NoNode is the zero reference.
const NoNode NodeID = -1

// Node is one entry of the documentation tree.
type Node struct {
	Kind      Kind
	Name      string
	Scope     Scope
	Base      string // parent class, as spelled
	Default   string
	Direction Direction
	Text      string     // description text
	Fragments []Fragment // type spelling

	parent   NodeID
	children []NodeID
}

// Tree is an arena of documentation nodes. Node 0 is the root.
type Tree struct {
	nodes []Node
}

// New returns a tree holding only a root node.
func New() *Tree {
	t := &Tree{}
	t.nodes = append(t.nodes, Node{Kind: KindRoot, parent: NoNode})
	return t
}

// Root returns the root node.
func (t *Tree) Root() NodeID { return 0 }

// NewNode allocates an unattached node.
func (t *Tree) NewNode(kind Kind, name string) NodeID {
	t.nodes = append(t.nodes, Node{Kind: kind, Name: name, parent: NoNode})
	return NodeID(len(t.nodes) - 1)
}

// Node returns the node for id, or nil when id is out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Parent returns the node id is linked under.
func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.parent
	}
	return NoNode
}

// Children returns the ordered children of id. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.children
	}
	return nil
}

// Append links child as the last child of parent without sorting.
// A child linked elsewhere is moved.
func (t *Tree) Append(parent, child NodeID) {
	if t.Node(parent) == nil || t.Node(child) == nil {
		return
	}
	t.Remove(child)
	t.nodes[parent].children = append(t.nodes[parent].children, child)
	t.nodes[child].parent = parent
}

// Remove unlinks id from its parent. The node stays allocated.
func (t *Tree) Remove(id NodeID) {
	n := t.Node(id)
	if n == nil || n.parent == NoNode {
		return
	}
	p := &t.nodes[n.parent]
	for i, c := range p.children {
		if c == id {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = NoNode
}

// Attached reports whether id is reachable from the root.
func (t *Tree) Attached(id NodeID) bool {
	for id != NoNode {
		if id == t.Root() {
			return true
		}
		id = t.Parent(id)
	}
	return false
}

// Attr returns the attribute value stored under key.
func (t *Tree) Attr(id NodeID, key string) (string, bool) {
	n := t.Node(id)
	if n == nil {
		return "", false
	}
	var v string
	switch key {
	case "name":
		v = n.Name
	case "scope":
		v = n.Scope.String()
	case "parent":
		v = n.Base
	case "default":
		v = n.Default
	case "direction":
		v = n.Direction.String()
	}
	return v, v != ""
}

// Description returns the first description child of id.
func (t *Tree) Description(id NodeID) (NodeID, bool) {
	for _, c := range t.Children(id) {
		if t.nodes[c].Kind == KindDescription {
			return c, true
		}
	}
	return NoNode, false
}

// DescriptionText returns the text of id's description, if any.
func (t *Tree) DescriptionText(id NodeID) string {
	if d, ok := t.Description(id); ok {
		return t.nodes[d].Text
	}
	return ""
}

// SetDescription replaces the text of id's description, adding one if needed.
func (t *Tree) SetDescription(id NodeID, text string) NodeID {
	d, ok := t.Description(id)
	if !ok {
		d = t.NewNode(KindDescription, "")
		t.Append(id, d)
	}
	t.nodes[d].Text = text
	return d
}

// TypeOf returns the first type child of id.
func (t *Tree) TypeOf(id NodeID) (NodeID, bool) {
	for _, c := range t.Children(id) {
		if t.nodes[c].Kind == KindType {
			return c, true
		}
	}
	return NoNode, false
}

// TypeString returns the spelling of id's type, if any.
func (t *Tree) TypeString(id NodeID) string {
	if ty, ok := t.TypeOf(id); ok {
		return JoinFragments(t.nodes[ty].Fragments)
	}
	return ""
}

// AddType appends a type child built from frags.
func (t *Tree) AddType(id NodeID, frags []Fragment) NodeID {
	ty := t.NewNode(KindType, "")
	t.nodes[ty].Fragments = append([]Fragment(nil), frags...)
	t.Append(id, ty)
	return ty
}

// Clone returns an independent copy of t.
func (t *Tree) Clone() *Tree {
	c := &Tree{nodes: make([]Node, len(t.nodes))}
	for i, n := range t.nodes {
		n.children = append([]NodeID(nil), n.children...)
		n.Fragments = append([]Fragment(nil), n.Fragments...)
		c.nodes[i] = n
	}
	return c
}

// Len returns the number of nodes reachable from the root, root included.
func (t *Tree) Len() int {
	count := 0
	var walk func(NodeID)
	walk = func(id NodeID) {
		count++
		for _, c := range t.nodes[id].children {
			walk(c)
		}
	}
	walk(t.Root())
	return count
}
