package scanner

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/codedoc/internal/doctree"
)

var (
	// 'name()' - text
	quotedName = regexp.MustCompile(`^'[^']*'\s*-?\s*`)
	// I - text, O - text, IO - text
	directionMark = regexp.MustCompile(`^(IO|I|O)\s+-\s*`)
)

// normalizeComment cleans raw comment text before it is stored as a
// description. A leading direction mark is removed and returned.
func normalizeComment(raw string) (string, doctree.Direction) {
	s := strings.ReplaceAll(raw, `\/`, "/")
	dir := doctree.DirNone

	if loc := quotedName.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	} else if m := directionMark.FindStringSubmatch(s); m != nil {
		dir = doctree.ParseDirection(m[1])
		s = s[len(m[0]):]
	}

	s = strings.TrimLeftFunc(strings.TrimLeft(s, "*"), unicode.IsSpace)
	s = strings.TrimRightFunc(strings.TrimRight(s, "*"), unicode.IsSpace)
	return s, dir
}

func isPrivate(raw string) bool {
	return strings.Contains(raw, doctree.PrivateMarker)
}

// describe stores a normalized comment on id. Arguments also take the
// direction mark. Existing text is kept and the new text follows it as a
// separate paragraph.
func describe(t *doctree.Tree, id doctree.NodeID, raw string) {
	text, dir := normalizeComment(raw)
	n := t.Node(id)
	if n == nil {
		return
	}
	if n.Kind == doctree.KindArgument && dir != doctree.DirNone {
		n.Direction = dir
	}
	if prev := t.DescriptionText(id); prev != "" && text != "" {
		text = prev + "\n\n" + text
	} else if text == "" {
		text = prev
	}
	t.SetDescription(id, text)
}
