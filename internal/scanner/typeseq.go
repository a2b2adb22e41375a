package scanner

import (
	"strings"

	"github.com/dgallion1/codedoc/internal/doctree"
)

// typeSeq accumulates the fragments of the declaration being read.
// A nil or empty sequence means no declaration is open.
type typeSeq []doctree.Fragment

func (s typeSeq) first() string {
	if len(s) == 0 {
		return ""
	}
	return s[0].Text
}

func (s typeSeq) last() string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1].Text
}

func (s *typeSeq) add(text string, space bool) {
	*s = append(*s, doctree.Fragment{Text: text, Space: space})
}

// wordEnd reports whether the last fragment starts like a word, which is
// when an operator after it is spaced.
func (s typeSeq) wordEnd() bool {
	l := s.last()
	if l == "" {
		return false
	}
	c := rune(l[0])
	return isAlnum(c) || c == '_'
}

// identSpace reports whether an identifier appended now is spaced.
func (s typeSeq) identSpace() bool {
	l := s.last()
	if l == "" {
		return false
	}
	return l[0] != '(' && l[0] != '*'
}

func (s typeSeq) index(text string) int {
	for i, f := range s {
		if f.Text == text {
			return i
		}
	}
	return -1
}

// tail returns a copy of s from i with the first fragment unspaced.
func (s typeSeq) tail(i int) typeSeq {
	if i >= len(s) {
		return nil
	}
	out := append(typeSeq(nil), s[i:]...)
	out[0].Space = false
	return out
}

// without returns a copy of s lacking the fragment at i.
func (s typeSeq) without(i int) typeSeq {
	out := make(typeSeq, 0, len(s))
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	if len(out) > 0 {
		out[0].Space = false
	}
	return out
}

// base strips trailing pointer and reference marks, leaving the type a
// following declarator in the same list shares.
func (s typeSeq) base() typeSeq {
	end := len(s)
	for end > 0 && (s[end-1].Text == "*" || s[end-1].Text == "&") {
		end--
	}
	return append(typeSeq(nil), s[:end]...)
}

func (s typeSeq) String() string {
	return doctree.JoinFragments(s)
}

// isName reports whether text can name a declaration.
func isName(text string) bool {
	if text == "" {
		return false
	}
	c := rune(text[0])
	return isAlnum(c) || c == '_' || c == '~' || strings.HasPrefix(text, "...")
}

// splitDeclarator separates a finished declarator into its name, type and
// default value. Function pointers are named by the identifier inside the
// first parenthesis, and the type keeps the "(*)" shape.
func splitDeclarator(s typeSeq) (name string, typ typeSeq, def string) {
	if i := s.index("="); i >= 0 {
		def = s.tail(i + 1).String()
		s = s[:i]
	}
	if len(s) == 0 {
		return "", nil, def
	}

	if strings.HasPrefix(s.last(), ")") {
		if p := s.index("("); p >= 0 {
			for q := p + 1; q < len(s); q++ {
				t := s[q].Text
				if t == "*" || t == "&" || t == "(" {
					continue
				}
				if !isName(t) {
					break
				}
				return t, s.without(q), def
			}
		}
		return "", nil, def
	}

	name = s.last()
	if !isName(name) {
		return "", nil, def
	}
	return name, append(typeSeq(nil), s[:len(s)-1]...), def
}
