package doctree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildClassTree() *Tree {
	t := New()

	class := t.NewNode(KindClass, "Widget")
	t.Node(class).Base = "public Base"
	t.SetDescription(class, "A widget & friends.")
	t.Insert(t.Root(), class)

	fn := t.NewNode(KindFunction, "resize")
	t.Node(fn).Scope = ScopePublic
	rv := t.NewNode(KindReturnValue, "")
	t.AddType(rv, []Fragment{{Text: "int"}})
	t.Append(fn, rv)
	t.SetDescription(fn, "Resize the widget.")

	w := t.NewNode(KindArgument, "width")
	t.Node(w).Direction = DirIn
	t.AddType(w, []Fragment{{Text: "unsigned"}, {Text: "int", Space: true}})
	t.SetDescription(w, "New width")
	t.Append(fn, w)

	h := t.NewNode(KindArgument, "height")
	t.Node(h).Default = "10"
	t.AddType(h, []Fragment{{Text: "int"}})
	t.Append(fn, h)

	t.Insert(class, fn)
	return t
}

func encodeString(t *testing.T, tree *Tree) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, tree); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.String()
}

func TestEncode_Shape(t *testing.T) {
	out := encodeString(t, buildClassTree())

	for _, want := range []string{
		`<codedoc>`,
		`<class name="Widget" parent="public Base">`,
		`<description>A widget &amp; friends.</description>`,
		`<function name="resize" scope="public">`,
		`<argument name="width" direction="I">`,
		`<type>unsigned int</type>`,
		`<argument name="height" default="10">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Index(out, `name="width"`) > strings.Index(out, `name="height"`) {
		t.Error("arguments must keep declaration order")
	}
}

func TestRoundTrip(t *testing.T) {
	first := encodeString(t, buildClassTree())

	decoded, err := Decode(strings.NewReader(first))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second := encodeString(t, decoded)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("round trip mismatch (-first +second):\n%s", diff)
	}

	class, ok := decoded.FindFirst(decoded.Root(), KindClass, "Widget")
	if !ok {
		t.Fatal("expected class Widget")
	}
	fn, _ := decoded.FindFirst(class, KindFunction, "resize")
	w, _ := decoded.FindFirst(fn, KindArgument, "width")
	if got := decoded.Node(w).Direction; got != DirIn {
		t.Errorf("expected direction I, got %v", got)
	}
	if got := decoded.TypeString(w); got != "unsigned int" {
		t.Errorf("expected %q, got %q", "unsigned int", got)
	}
}

func TestDecode_LegacyRootAndUnknownElements(t *testing.T) {
	doc := `<?xml version="1.0"?>
<mxmldoc xmlns="http://www.easysw.com" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <namespace name="std"><description/></namespace>
  <unknown><function name="ignored"/></unknown>
  <variable name="b"><type>int</type></variable>
  <variable name="a" scope="private"><type>char *</type></variable>
  <variable name="_hidden"><type>int</type></variable>
</mxmldoc>
`
	tree, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	var got []string
	for _, c := range tree.Children(tree.Root()) {
		got = append(got, tree.Node(c).Kind.String()+":"+tree.Node(c).Name)
	}
	want := []string{"variable:a", "variable:b", "namespace:std"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	a, _ := tree.FindFirst(tree.Root(), KindVariable, "a")
	if got := tree.Node(a).Scope; got != ScopePrivate {
		t.Errorf("expected private scope, got %v", got)
	}
	if got := tree.TypeString(a); got != "char *" {
		t.Errorf("expected %q, got %q", "char *", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"truncated", `<codedoc><function name="f">`},
		{"outside root", `<function name="f"/>`},
		{"nested root", `<codedoc><codedoc/></codedoc>`},
		{"malformed", `<codedoc><function name="f"></variable></codedoc>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
