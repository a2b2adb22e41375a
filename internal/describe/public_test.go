package describe

import (
	"strings"
	"testing"

	"github.com/dgallion1/codedoc/internal/doctree"
	"github.com/dgallion1/codedoc/internal/scanner"
	"github.com/google/go-cmp/cmp"
)

const publicSource = `
int buffer_size;		/* Maximum buffer size. */

/*
 * 'copy()' - Copy a buffer.
 *
 * @since 2.0@
 */
int				/* O - Bytes copied */
copy(char *dst,			/* I - Destination */
     const char *src)		/* I - Source */
{
  return 0;
}

/*
 * 'helper()' - Internal helper.
 *
 * @private@
 */
void
helper(void)
{
}

int undocumented;
`

func TestPublic(t *testing.T) {
	tree, err := scanner.New(nil).ScanFile(strings.NewReader(publicSource), "buf.c")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	got := Public(tree, topLevel, "")
	want := []Declaration{
		{Kind: "function", Name: "copy", Type: "int", Info: Info{Summary: "Copy a buffer.", Since: "2.0"}},
		{Kind: "variable", Name: "buffer_size", Type: "int", Info: Info{Summary: "Maximum buffer size."}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestPublic_ByName(t *testing.T) {
	tree, err := scanner.New(nil).ScanFile(strings.NewReader(publicSource), "buf.c")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	kinds, err := ParseKind("function")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Public(tree, kinds, "helper"); len(got) != 0 {
		t.Errorf("expected private helper to be hidden, got %v", got)
	}
	if got := Public(tree, kinds, "copy"); len(got) != 1 {
		t.Errorf("expected copy, got %v", got)
	}
}

func TestParseKind(t *testing.T) {
	if kinds, err := ParseKind(""); err != nil || len(kinds) != len(topLevel) {
		t.Errorf("expected every top-level kind, got %v %v", kinds, err)
	}
	if kinds, err := ParseKind("class"); err != nil || kinds[0] != doctree.KindClass {
		t.Errorf("expected class, got %v %v", kinds, err)
	}
	for _, bad := range []string{"argument", "description", "widget"} {
		if _, err := ParseKind(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
