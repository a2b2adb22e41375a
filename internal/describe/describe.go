// Package describe turns stored description text into the plain summary
// and discussion shown by listings.
package describe

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

var (
	sinceMarker      = regexp.MustCompile(`@since ([^@]*)@`)
	deprecatedMarker = "@deprecated@"
	privateMarker    = "@private@"
)

// Info is the rendered form of one description.
type Info struct {
	Summary    string `json:"summary,omitempty"`
	Discussion string `json:"discussion,omitempty"`
	Since      string `json:"since,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

// Parse extracts the markers from a description and splits the remaining
// text into a summary paragraph and the discussion that follows it.
func Parse(desc string) Info {
	var info Info
	if m := sinceMarker.FindStringSubmatch(desc); m != nil {
		info.Since = strings.TrimSpace(m[1])
	}
	info.Deprecated = strings.Contains(desc, deprecatedMarker)

	paras := Paragraphs(desc)
	if len(paras) > 0 {
		info.Summary = paras[0]
		info.Discussion = strings.Join(paras[1:], "\n\n")
	}
	return info
}

// Summary returns the first paragraph of desc as plain text.
func Summary(desc string) string {
	paras := Paragraphs(desc)
	if len(paras) == 0 {
		return ""
	}
	return paras[0]
}

// PlainText returns desc with markup and markers removed.
func PlainText(desc string) string {
	return strings.Join(Paragraphs(desc), "\n\n")
}

// Paragraphs parses desc as Markdown and returns the plain text of each
// top-level block. Markers are dropped first, and blocks left empty are
// skipped.
func Paragraphs(desc string) []string {
	src := []byte(stripMarkers(desc))
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		var t string
		if hb, ok := n.(*ast.HTMLBlock); ok {
			t = htmlText(blockLines(hb, src))
		} else {
			t = extractText(n, src)
		}
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func stripMarkers(desc string) string {
	s := sinceMarker.ReplaceAllString(desc, "")
	s = strings.ReplaceAll(s, deprecatedMarker, "")
	s = strings.ReplaceAll(s, privateMarker, "")
	return s
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}

// extractText gets the text content of a goldmark AST node. Inline HTML
// tags are dropped and the text between them kept.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		buf.WriteString(blockLines(n, src))
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Value(src))
			if c.HardLineBreak() || c.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.RawHTML:
		case *ast.AutoLink:
			buf.Write(c.URL(src))
		case *ast.HTMLBlock:
			buf.WriteString(htmlText(blockLines(c, src)))
		default:
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// htmlText returns the text content of an HTML fragment.
func htmlText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)
	return strings.TrimSpace(buf.String())
}
