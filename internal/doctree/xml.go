package doctree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Encode writes the tree in its XML form. Type children are written as their
// joined spelling and descriptions as text.
func Encode(w io.Writer, t *Tree) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := encodeNode(enc, t, t.Root()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeNode(enc *xml.Encoder, t *Tree, id NodeID) error {
	n := t.Node(id)
	start := xml.StartElement{Name: xml.Name{Local: n.Kind.String()}}
	for _, key := range [...]string{"name", "scope", "parent", "default", "direction"} {
		if v, ok := t.Attr(id, key); ok {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: key}, Value: v})
		}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	switch n.Kind {
	case KindDescription:
		if n.Text != "" {
			if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
				return err
			}
		}
	case KindType:
		if s := JoinFragments(n.Fragments); s != "" {
			if err := enc.EncodeToken(xml.CharData(s)); err != nil {
				return err
			}
		}
	default:
		for _, c := range n.children {
			if err := encodeNode(enc, t, c); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(start.End())
}

// Decode reads a tree written by Encode. Legacy mxmldoc documents are
// accepted. Named declarations go through Insert, so hidden names are dropped
// and duplicates collapse; arguments keep their written order.
func Decode(r io.Reader) (*Tree, error) {
	t := New()
	dec := xml.NewDecoder(r)

	var stack []NodeID
	var text strings.Builder
	skip := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode tree: %w", err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			if skip > 0 {
				skip++
				continue
			}
			kind, ok := ParseKind(tok.Name.Local)
			if !ok {
				skip = 1
				continue
			}
			if kind == KindRoot {
				if len(stack) != 0 {
					return nil, fmt.Errorf("decode tree: nested %s element", tok.Name.Local)
				}
				stack = append(stack, t.Root())
				continue
			}
			if len(stack) == 0 {
				return nil, fmt.Errorf("decode tree: %s outside root element", tok.Name.Local)
			}
			id := t.NewNode(kind, "")
			n := t.Node(id)
			for _, a := range tok.Attr {
				switch a.Name.Local {
				case "name":
					n.Name = a.Value
				case "scope":
					n.Scope = ParseScope(a.Value)
				case "parent":
					n.Base = a.Value
				case "default":
					n.Default = a.Value
				case "direction":
					n.Direction = ParseDirection(a.Value)
				}
			}
			stack = append(stack, id)
			text.Reset()

		case xml.CharData:
			if skip == 0 {
				text.Write(tok)
			}

		case xml.EndElement:
			if skip > 0 {
				skip--
				continue
			}
			if len(stack) == 0 {
				continue
			}
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if id == t.Root() {
				continue
			}
			n := t.Node(id)
			switch n.Kind {
			case KindDescription:
				n.Text = text.String()
			case KindType:
				for i, f := range strings.Fields(text.String()) {
					n.Fragments = append(n.Fragments, Fragment{Text: f, Space: i > 0})
				}
			}
			text.Reset()

			parent := stack[len(stack)-1]
			switch n.Kind {
			case KindArgument, KindReturnValue, KindDescription, KindType:
				t.Append(parent, id)
			default:
				t.Insert(parent, id)
			}
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("decode tree: %w", io.ErrUnexpectedEOF)
	}
	return t, nil
}
