package scanner

import (
	"strings"
	"testing"
)

func lexAll(src string) []token {
	lx := newLexer(strings.NewReader(src))
	var out []token
	for {
		tok := lx.next(false)
		if tok.kind == tokEOF {
			return out
		}
		out = append(out, tok)
	}
}

func TestLexer_DirectiveAndBlockComment(t *testing.T) {
	src := "#define X \\\n  1\nint /* a\n * b\n *\n * c\n */ x;"
	toks := lexAll(src)

	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %+v", len(toks), toks)
	}
	if toks[0].kind != tokIdent || toks[0].text != "int" || toks[0].line != 3 {
		t.Errorf("expected ident int on line 3, got %+v", toks[0])
	}
	if toks[1].kind != tokComment {
		t.Fatalf("expected comment, got %s", toks[1].kind)
	}
	if toks[1].text != "a\nb\n\nc" {
		t.Errorf("expected %q, got %q", "a\nb\n\nc", toks[1].text)
	}
	if toks[1].line != 3 {
		t.Errorf("expected comment on line 3, got %d", toks[1].line)
	}
	if toks[2].text != "x" || toks[2].ch != ';' || toks[2].line != 7 {
		t.Errorf("expected ident x ending at ';' on line 7, got %+v", toks[2])
	}
	if toks[3].kind != tokPunct || toks[3].ch != ';' {
		t.Errorf("expected ';', got %+v", toks[3])
	}
}

func TestLexer_LineComment(t *testing.T) {
	toks := lexAll("int x; // trailing note  \nint y;")
	var comments []string
	for _, tok := range toks {
		if tok.kind == tokComment {
			comments = append(comments, tok.text)
		}
	}
	if len(comments) != 1 || comments[0] != "trailing note" {
		t.Errorf("expected [trailing note], got %q", comments)
	}
}

func TestLexer_Literals(t *testing.T) {
	toks := lexAll(`x = "a \"quoted\" {brace}"; c = '\'';`)
	var lits []string
	for _, tok := range toks {
		if tok.kind == tokLiteral {
			lits = append(lits, tok.text)
		}
	}
	want := []string{`"a \"quoted\" {brace}"`, `'\''`}
	if len(lits) != len(want) {
		t.Fatalf("expected %d literals, got %q", len(want), lits)
	}
	for i := range want {
		if lits[i] != want[i] {
			t.Errorf("literal %d: expected %q, got %q", i, want[i], lits[i])
		}
	}
}

func TestLexer_SlashIsPunct(t *testing.T) {
	toks := lexAll("a / b")
	if len(toks) != 3 || toks[1].kind != tokPunct || toks[1].ch != '/' {
		t.Errorf("expected a '/' punct token, got %+v", toks)
	}
}

func TestLexer_IdentifierCharacters(t *testing.T) {
	toks := lexAll("Foo::~Foo(char buf[16], a.b)")
	var idents []string
	for _, tok := range toks {
		if tok.kind == tokIdent {
			idents = append(idents, tok.text)
		}
	}
	want := []string{"Foo::~Foo", "char", "buf[16]", "a.b"}
	if strings.Join(idents, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, idents)
	}
}

func TestLexer_ListCommas(t *testing.T) {
	lx := newLexer(strings.NewReader("a,b c"))
	tok := lx.next(true)
	if tok.text != "a,b" || tok.ch != ' ' {
		t.Errorf("expected a,b ending at space, got %+v", tok)
	}

	lx = newLexer(strings.NewReader("a,b"))
	tok = lx.next(false)
	if tok.text != "a" || tok.ch != ',' {
		t.Errorf("expected a ending at ',', got %+v", tok)
	}
}

func TestLexer_UnterminatedComment(t *testing.T) {
	toks := lexAll("int x; /* never closed")
	for _, tok := range toks {
		if tok.kind == tokComment {
			t.Errorf("unterminated comment should not be emitted, got %q", tok.text)
		}
	}
}
