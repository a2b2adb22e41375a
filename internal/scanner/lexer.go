package scanner

import (
	"bufio"
	"io"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokPunct
	tokIdent
	tokLiteral
	tokComment
)

func (k tokenKind) String() string {
	switch k {
	case tokPunct:
		return "punct"
	case tokIdent:
		return "ident"
	case tokLiteral:
		return "literal"
	case tokComment:
		return "comment"
	}
	return "eof"
}

// token is one lexical fragment. For identifiers ch is the rune that ended
// the identifier; it has been pushed back and will be lexed again.
type token struct {
	kind tokenKind
	text string
	ch   rune
	line int
}

// structural runes are delivered to the assembler one at a time.
const structural = "{}();:*,&+-="

// lexer is the character-level state machine. Preprocessor lines are
// consumed here and never produce tokens.
type lexer struct {
	r    *bufio.Reader
	line int
	err  error

	last    rune
	lastEOF bool
}

func newLexer(r io.Reader) *lexer {
	return &lexer{r: bufio.NewReader(r), line: 1}
}

func (lx *lexer) read() (rune, bool) {
	ch, _, err := lx.r.ReadRune()
	if err != nil {
		if err != io.EOF && lx.err == nil {
			lx.err = err
		}
		lx.lastEOF = true
		return 0, false
	}
	lx.last, lx.lastEOF = ch, false
	if ch == '\n' {
		lx.line++
	}
	return ch, true
}

// unread pushes back the rune returned by the previous read.
func (lx *lexer) unread() {
	if lx.lastEOF {
		return
	}
	if lx.r.UnreadRune() == nil && lx.last == '\n' {
		lx.line--
	}
}

// next returns the next token. listCommas lets identifiers absorb commas,
// which keeps comma lists inside nested parentheses in one fragment.
func (lx *lexer) next(listCommas bool) token {
	for {
		ch, ok := lx.read()
		if !ok {
			return token{kind: tokEOF, line: lx.line}
		}
		line := lx.line

		switch {
		case ch == '/':
			nx, ok := lx.read()
			switch {
			case ok && nx == '*':
				return lx.blockComment(line)
			case ok && nx == '/':
				return lx.lineComment(line)
			case ok:
				lx.unread()
			}
			return token{kind: tokPunct, ch: '/', text: "/", line: line}

		case ch == '#':
			lx.directive()

		case ch == '"' || ch == '\'':
			return lx.literal(ch, line)

		case strings.ContainsRune(structural, ch):
			return token{kind: tokPunct, ch: ch, text: string(ch), line: line}

		case isIdentStart(ch):
			return lx.identifier(ch, listCommas)
		}
	}
}

// directive skips a preprocessor line, honoring backslash continuations.
func (lx *lexer) directive() {
	for {
		ch, ok := lx.read()
		if !ok || ch == '\n' {
			return
		}
		if ch == '\\' {
			if _, ok := lx.read(); !ok {
				return
			}
		}
	}
}

func (lx *lexer) literal(quote rune, line int) token {
	var sb strings.Builder
	sb.WriteRune(quote)
	for {
		ch, ok := lx.read()
		if !ok {
			return token{kind: tokEOF, line: lx.line}
		}
		sb.WriteRune(ch)
		switch ch {
		case '\\':
			esc, ok := lx.read()
			if !ok {
				return token{kind: tokEOF, line: lx.line}
			}
			sb.WriteRune(esc)
		case quote:
			return token{kind: tokLiteral, text: sb.String(), line: line}
		}
	}
}

// blockComment collects a /* */ comment. Each continuation line loses its
// leading whitespace and '*' decoration; blank lines survive as "\n".
func (lx *lexer) blockComment(line int) token {
	var sb strings.Builder
	done := func() token {
		s := strings.TrimRight(sb.String(), "* \t\r\n\f\v")
		return token{kind: tokComment, text: s, line: line}
	}

	for {
		ch, ok := lx.read()
		if !ok {
			return token{kind: tokEOF, line: lx.line}
		}

		switch {
		case ch == '\n':
		decoration:
			for {
				c, ok := lx.read()
				if !ok {
					break
				}
				switch {
				case c == '*':
					c2, ok := lx.read()
					if ok && c2 == '/' {
						return done()
					}
					if ok {
						lx.unread()
					}
				case c == '\n':
					if sb.Len() > 0 {
						sb.WriteByte('\n')
					}
				case !isSpace(c):
					lx.unread()
					break decoration
				}
			}
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}

		case ch == '/' && strings.HasSuffix(sb.String(), "*"):
			return done()

		case ch == ' ' && sb.Len() == 0:

		default:
			sb.WriteRune(ch)
		}
	}
}

func (lx *lexer) lineComment(line int) token {
	var sb strings.Builder
	for {
		ch, ok := lx.read()
		if !ok || ch == '\n' {
			return token{kind: tokComment, text: strings.TrimRight(sb.String(), " \t\r"), line: line}
		}
		if ch == ' ' && sb.Len() == 0 {
			continue
		}
		sb.WriteRune(ch)
	}
}

func (lx *lexer) identifier(first rune, listCommas bool) token {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		ch, ok := lx.read()
		if !ok {
			return token{kind: tokEOF, line: lx.line}
		}
		if isIdentPart(ch) || (ch == ',' && listCommas) {
			sb.WriteRune(ch)
			continue
		}
		line := lx.line
		lx.unread()
		if ch == '\n' {
			line--
		}
		return token{kind: tokIdent, text: sb.String(), ch: ch, line: line}
	}
}

func isAlnum(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func isSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isIdentStart(ch rune) bool {
	return isAlnum(ch) || ch == '_' || ch == '.' || ch == '~'
}

func isIdentPart(ch rune) bool {
	return isAlnum(ch) || ch == '_' || ch == '[' || ch == ']' || ch == '~' || ch == '.' || ch == ':'
}
