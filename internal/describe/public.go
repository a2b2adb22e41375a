package describe

import (
	"fmt"

	"github.com/dgallion1/codedoc/internal/doctree"
)

// Declaration is one public top-level node with its rendered description.
type Declaration struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Scope string `json:"scope,omitempty"`
	Info
}

// topLevel lists the kinds the scanner places directly under the root.
var topLevel = []doctree.Kind{
	doctree.KindNamespace,
	doctree.KindClass,
	doctree.KindStruct,
	doctree.KindUnion,
	doctree.KindEnumeration,
	doctree.KindConstant,
	doctree.KindTypedef,
	doctree.KindFunction,
	doctree.KindVariable,
}

// ParseKind resolves a kind filter. The empty string selects every
// top-level kind.
func ParseKind(s string) ([]doctree.Kind, error) {
	if s == "" {
		return topLevel, nil
	}
	k, ok := doctree.ParseKind(s)
	if ok {
		for _, top := range topLevel {
			if top == k {
				return []doctree.Kind{k}, nil
			}
		}
	}
	return nil, fmt.Errorf("unknown declaration kind %q", s)
}

// Public returns the public declarations of the given kinds, kind by kind,
// each group in tree order. An empty name matches any name.
func Public(t *doctree.Tree, kinds []doctree.Kind, name string) []Declaration {
	var out []Declaration
	for _, kind := range kinds {
		for _, id := range t.Public(t.Root(), kind, name) {
			n := t.Node(id)
			d := Declaration{
				Kind: kind.String(),
				Name: n.Name,
				Type: t.TypeString(id),
				Info: Parse(t.DescriptionText(id)),
			}
			if scope, ok := t.Attr(id, "scope"); ok {
				d.Scope = scope
			}
			if kind == doctree.KindFunction {
				d.Type = returnType(t, id)
			}
			out = append(out, d)
		}
	}
	return out
}

func returnType(t *doctree.Tree, fn doctree.NodeID) string {
	for _, c := range t.Children(fn) {
		if t.Node(c).Kind == doctree.KindReturnValue {
			return t.TypeString(c)
		}
	}
	return ""
}
