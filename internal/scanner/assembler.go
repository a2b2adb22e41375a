package scanner

import (
	"log/slog"
	"strings"

	"github.com/dgallion1/codedoc/internal/doctree"
)

// assembler turns the token stream into declarations under root. Aggregate
// bodies and extern blocks are read by a child assembler sharing the lexer.
type assembler struct {
	lx    *lexer
	tree  *doctree.Tree
	root  doctree.NodeID
	log   *slog.Logger
	file  string
	depth int
	max   int

	atTop   bool // root is the tree root
	inClass bool
	scope   doctree.Scope

	braces int
	parens int
	typ    typeSeq

	leading     string
	hasLeading  bool
	typeComment string
	hasTypeCmt  bool

	function    doctree.NodeID
	fnOwner     doctree.NodeID // class or struct named by "Owner::method"
	variable    doctree.NodeID
	constant    doctree.NodeID
	enumeration doctree.NodeID
	looseEnum   bool // anonymous enum; constants go straight into root
	enumValue   bool // between '=' and ',' inside an enum body

	// pendingTypedef waits for a trailing comment, which is copied to
	// pendingAgg as well.
	pendingTypedef doctree.NodeID
	pendingAgg     doctree.NodeID
	pendingLine    int

	// openTypedef is a "typedef struct {...}" or "typedef enum {...}" whose
	// name has not been read yet.
	openTypedef doctree.NodeID
	openAgg     doctree.NodeID
	openType    typeSeq
	openPrivate bool // marked @private@; nothing is inserted at the name

	sepComma bool // the next ',' only separates declarators
}

func newAssembler(lx *lexer, tree *doctree.Tree, root doctree.NodeID, log *slog.Logger, file string, depth, max int) *assembler {
	a := &assembler{
		lx:    lx,
		tree:  tree,
		root:  root,
		log:   log,
		file:  file,
		depth: depth,
		max:   max,
		atTop: root == tree.Root(),
	}
	if n := tree.Node(root); n != nil && n.Kind == doctree.KindClass {
		a.inClass = true
		a.scope = doctree.ScopePrivate
	}
	a.function, a.fnOwner = doctree.NoNode, doctree.NoNode
	a.variable, a.constant, a.enumeration = doctree.NoNode, doctree.NoNode, doctree.NoNode
	a.pendingTypedef, a.pendingAgg = doctree.NoNode, doctree.NoNode
	a.openTypedef, a.openAgg = doctree.NoNode, doctree.NoNode
	return a
}

func (a *assembler) fail(line int, err error) error {
	return &Error{File: a.file, Line: line, Err: err}
}

// run reads declarations until end of input, or until the '}' closing the
// body this assembler was started for.
func (a *assembler) run() error {
	for {
		tok := a.lx.next(a.listCommas())
		switch tok.kind {
		case tokEOF:
			if a.lx.err != nil {
				return a.fail(tok.line, a.lx.err)
			}
			if a.depth > 0 {
				return a.fail(tok.line, ErrUnexpectedEOF)
			}
			return nil

		case tokComment:
			a.comment(tok)

		case tokLiteral:
			if len(a.typ) > 0 {
				a.typ.add(tok.text, true)
			}

		case tokIdent:
			a.identifier(tok)

		case tokPunct:
			end, err := a.punct(tok)
			if err != nil {
				return err
			}
			if end {
				return nil
			}
		}
	}
}

// listCommas is true inside parentheses that are neither an enum body nor
// the argument list of the pending function.
func (a *assembler) listCommas() bool {
	if a.parens > 1 {
		return true
	}
	return a.parens > 0 && a.enumeration == doctree.NoNode && a.function == doctree.NoNode
}

func (a *assembler) clearComments() {
	a.leading, a.hasLeading = "", false
	a.typeComment, a.hasTypeCmt = "", false
}

func (a *assembler) takeLeading() (string, bool) {
	s, ok := a.leading, a.hasLeading
	a.leading, a.hasLeading = "", false
	return s, ok
}

// bodyComment takes the comment documenting a body opened at '{'. One
// written after the type name wins over a leading one.
func (a *assembler) bodyComment() (string, bool) {
	raw, ok := a.takeLeading()
	if a.hasTypeCmt {
		raw, ok = a.typeComment, true
	}
	a.typeComment, a.hasTypeCmt = "", false
	return raw, ok
}

func (a *assembler) clearTrailing() {
	a.variable, a.constant = doctree.NoNode, doctree.NoNode
	a.pendingTypedef, a.pendingAgg = doctree.NoNode, doctree.NoNode
}

func (a *assembler) comment(tok token) {
	if tok.line != a.pendingLine {
		a.clearTrailing()
	}

	t := a.tree
	switch {
	case a.variable != doctree.NoNode:
		if isPrivate(tok.text) {
			t.Remove(a.variable)
		} else {
			describe(t, a.variable, tok.text)
		}
		a.variable = doctree.NoNode

	case a.constant != doctree.NoNode:
		if isPrivate(tok.text) {
			t.Remove(a.constant)
		} else {
			describe(t, a.constant, tok.text)
		}
		a.constant = doctree.NoNode

	case a.pendingTypedef != doctree.NoNode:
		if isPrivate(tok.text) {
			t.Remove(a.pendingTypedef)
			if a.pendingAgg != doctree.NoNode {
				t.Remove(a.pendingAgg)
			}
		} else {
			describe(t, a.pendingTypedef, tok.text)
			if a.pendingAgg != doctree.NoNode {
				describe(t, a.pendingAgg, tok.text)
			}
		}
		a.pendingTypedef, a.pendingAgg = doctree.NoNode, doctree.NoNode

	case !a.atTop && !a.rootDescribed():
		describe(t, a.root, tok.text)

	case len(a.typ) > 0:
		a.typeComment, a.hasTypeCmt = tok.text, true

	default:
		a.leading, a.hasLeading = tok.text, true
	}
}

func (a *assembler) rootDescribed() bool {
	_, ok := a.tree.Description(a.root)
	return ok
}

func (a *assembler) punct(tok token) (bool, error) {
	switch tok.ch {
	case '{':
		return false, a.openBrace(tok)

	case '}':
		return a.closeBrace(tok), nil

	case '(':
		if len(a.typ) > 0 {
			a.typ.add("(", false)
		}
		a.parens++

	case ')':
		if len(a.typ) > 0 && a.parens > 0 && (a.function == doctree.NoNode || a.parens > 1) {
			a.typ.add(")", false)
		}
		if a.parens > 0 {
			a.parens--
		}
		if a.function != doctree.NoNode && a.parens == 0 && len(a.typ) > 0 {
			if len(a.typ) == 1 && a.typ.first() == "void" {
				a.typ = nil
			} else {
				a.finishArgument(tok.line)
			}
		}

	case ',':
		switch {
		case a.sepComma:
			a.sepComma = false
		case a.function != doctree.NoNode && a.parens == 1 && len(a.typ) > 0:
			a.finishArgument(tok.line)
		case a.enumeration != doctree.NoNode:
			a.enumValue = false
		case len(a.typ) > 0:
			a.typ.add(",", false)
		}

	case ';':
		a.semicolon(tok)

	case ':':
		if len(a.typ) > 0 {
			a.typ.add(":", true)
		}

	case '&':
		if len(a.typ) > 0 {
			a.typ.add("&", true)
		}

	case '=':
		if a.enumeration != doctree.NoNode && a.braces > 0 {
			a.enumValue = true
		}
		if len(a.typ) > 0 {
			a.typ.add("=", a.typ.wordEnd())
		}

	case '*', '+', '-', '/':
		if len(a.typ) > 0 {
			a.typ.add(tok.text, a.typ.wordEnd())
		}
	}
	return false, nil
}

func (a *assembler) semicolon(tok token) {
	if a.function != doctree.NoNode {
		if a.inClass {
			a.insert(a.root, a.function)
		} else {
			a.log.Debug("prototype skipped", "name", a.tree.Node(a.function).Name, "line", tok.line)
		}
		a.function, a.fnOwner = doctree.NoNode, doctree.NoNode
	}

	if len(a.typ) > 0 && a.braces == 0 && a.parens == 0 {
		switch {
		case a.typ.first() == "typedef":
			a.typedefDeclarator(tok.line)
		case strings.HasPrefix(a.typ.last(), ")") && !(a.atTop && a.typ.first() == "static"):
			a.variableDecl(a.typ, tok.line)
		}
	}
	a.typ = nil
	a.sepComma = false
	a.openTypedef, a.openAgg, a.openType = doctree.NoNode, doctree.NoNode, nil
	a.openPrivate = false
	a.clearComments()
}

// typedefDeclarator finishes "typedef int (*name)(int);" and similar, where
// the declaration ends on punctuation rather than on the name.
func (a *assembler) typedefDeclarator(line int) {
	s := a.typ.tail(1)
	idx := len(s) - 1
	if p := s.index("("); p >= 0 {
		for q := p + 1; q < len(s); q++ {
			if s[q].Text != "*" && s[q].Text != "(" {
				idx = q
				break
			}
		}
	}
	if idx < 0 || !isName(s[idx].Text) {
		return
	}
	name := s[idx].Text
	s = s.without(idx)
	if len(s) == 0 {
		return
	}
	td := a.tree.NewNode(doctree.KindTypedef, name)
	a.tree.AddType(td, s)
	a.insert(a.root, td)
	a.pendingTypedef, a.pendingAgg = td, doctree.NoNode
	a.pendingLine = line
}

func (a *assembler) identifier(tok token) {
	text, ch := tok.text, tok.ch

	if a.braces > 0 {
		if a.enumeration != doctree.NoNode && !a.enumValue && !isDigit(text[0]) {
			c := a.tree.NewNode(doctree.KindConstant, text)
			if a.looseEnum {
				a.insert(a.root, c)
			} else {
				a.insert(a.enumeration, c)
			}
			a.constant = c
			a.pendingLine = tok.line
			return
		}
		a.typ = nil
		return
	}

	if len(a.typ) == 0 && a.inClass {
		switch strings.TrimSuffix(text, ":") {
		case "public":
			a.scope = doctree.ScopePublic
			return
		case "private":
			a.scope = doctree.ScopePrivate
			return
		case "protected":
			a.scope = doctree.ScopeProtected
			return
		}
	}

	switch {
	case a.function == doctree.NoNode && ch == '(':
		a.startFunction(tok)

	case a.function != doctree.NoNode && ((ch == ')' && a.parens == 1) || ch == ','):
		if text == "void" {
			a.typ = nil
			return
		}
		a.typ.add(text, a.typ.identSpace())
		a.finishArgument(tok.line)

	case a.function == doctree.NoNode && (len(a.typ) > 0 || a.openTypedef != doctree.NoNode) && (ch == ';' || ch == ','):
		a.declaration(tok)

	default:
		a.typ.add(text, a.typ.identSpace())
	}
}

func (a *assembler) startFunction(tok token) {
	t := a.tree
	defer func() { a.typ = nil }()

	switch a.typ.first() {
	case "extern":
		a.clearComments()
		return
	case "static":
		if a.atTop {
			a.log.Debug("static function skipped", "name", tok.text, "line", tok.line)
			a.clearComments()
			return
		}
	}

	name := tok.text
	a.fnOwner = doctree.NoNode
	if i := strings.Index(name, "::"); i > 0 && !strings.Contains(name[:i], ":") {
		owner := name[:i]
		name = name[i+2:]
		if id, ok := t.FindFirst(a.root, doctree.KindClass, owner); ok {
			a.fnOwner = id
		} else if id, ok := t.FindFirst(a.root, doctree.KindStruct, owner); ok {
			a.fnOwner = id
		}
	}

	fn := t.NewNode(doctree.KindFunction, name)
	t.Node(fn).Scope = a.scope

	if len(a.typ) > 0 && a.typ.last() != "void" {
		rv := t.NewNode(doctree.KindReturnValue, "")
		t.AddType(rv, a.typ)
		if a.hasTypeCmt {
			describe(t, rv, a.typeComment)
		}
		t.Append(fn, rv)
	}

	lead, _ := a.takeLeading()
	text, _ := normalizeComment(lead)
	t.SetDescription(fn, text)
	a.typeComment, a.hasTypeCmt = "", false

	a.function = fn
}

// finishArgument turns the open type sequence into an argument of the
// pending function.
func (a *assembler) finishArgument(line int) {
	t := a.tree
	name, typ, def := splitDeclarator(a.typ)
	a.typ = nil
	if name == "" || (len(typ) == 0 && !strings.HasPrefix(name, "...")) {
		return
	}

	arg := t.NewNode(doctree.KindArgument, name)
	t.Node(arg).Default = def
	if len(typ) > 0 {
		t.AddType(arg, typ)
	}
	t.SetDescription(arg, "")
	if lead, ok := a.takeLeading(); ok {
		describe(t, arg, lead)
	}
	t.Append(a.function, arg)

	a.variable = arg
	a.pendingLine = line
}

// declaration finishes a declarator ending at ';' or ','.
func (a *assembler) declaration(tok token) {
	t := a.tree
	text := tok.text

	switch {
	case a.openTypedef != doctree.NoNode:
		td, agg, typ := a.openTypedef, a.openAgg, a.openType
		private := a.openPrivate
		a.openTypedef, a.openAgg, a.openType = doctree.NoNode, doctree.NoNode, nil
		a.openPrivate = false
		a.typ = nil
		if private {
			break
		}

		if agg != doctree.NoNode && t.Node(agg).Name == "" {
			t.Node(agg).Name = text
			a.insert(a.root, agg)
			typ.add(text, true)
		}
		t.Node(td).Name = text
		t.AddType(td, typ)
		a.insert(a.root, td)

		a.pendingTypedef, a.pendingAgg = td, agg
		a.pendingLine = tok.line

	case a.typ.first() == "typedef":
		typ := a.typ.tail(1)
		a.typ = nil
		td := t.NewNode(doctree.KindTypedef, text)
		t.AddType(td, typ)
		a.insert(a.root, td)
		a.pendingTypedef, a.pendingAgg = td, doctree.NoNode
		a.pendingLine = tok.line

	case a.parens == 0:
		if a.typ.first() == "static" && a.atTop {
			a.log.Debug("static variable skipped", "name", text, "line", tok.line)
			a.typ = nil
			return
		}
		base := a.typ.base()
		a.typ.add(text, a.typ.identSpace())
		decl := a.typ
		a.typ = nil
		if tok.ch == ',' {
			a.typ, a.sepComma = base, true
		}
		a.variableDecl(decl, tok.line)

	default:
		a.typ.add(text, a.typ.identSpace())
	}
}

// variableDecl inserts a variable declared by decl into the current root.
func (a *assembler) variableDecl(decl typeSeq, line int) {
	t := a.tree
	name, typ, def := splitDeclarator(decl)
	if name == "" || len(typ) == 0 {
		return
	}
	v := t.NewNode(doctree.KindVariable, name)
	t.Node(v).Scope = a.scope
	t.Node(v).Default = def
	t.AddType(v, typ)
	a.insert(a.root, v)
	a.variable = v
	a.pendingLine = line
}

func (a *assembler) openBrace(tok token) error {
	first := a.typ.first()
	kindWord := first
	if first == "typedef" && len(a.typ) > 1 {
		kindWord = a.typ[1].Text
	}

	switch {
	case a.function != doctree.NoNode:
		target := a.root
		if a.fnOwner != doctree.NoNode {
			target = a.fnOwner
		}
		a.insert(target, a.function)
		a.function, a.fnOwner = doctree.NoNode, doctree.NoNode
		a.typ = nil

	case kindWord == "struct" || kindWord == "union" || kindWord == "class":
		return a.aggregate(tok)

	case kindWord == "enum":
		a.enum()

	case first == "extern":
		a.typ = nil
		a.clearComments()
		return a.descend(tok, a.child(a.root))

	default:
		a.typ = nil
	}

	a.braces++
	a.variable = doctree.NoNode
	return nil
}

// aggregate reads a struct, union or class body into its own node.
func (a *assembler) aggregate(tok token) error {
	t := a.tree
	isTypedef := a.typ.first() == "typedef"
	if isTypedef {
		a.typ = a.typ.tail(1)
	}

	kind := doctree.KindStruct
	switch a.typ.first() {
	case "class":
		kind = doctree.KindClass
	case "union":
		kind = doctree.KindUnion
	}

	agg := t.NewNode(kind, "")
	if len(a.typ) > 1 && isName(a.typ[1].Text) {
		name := a.typ[1].Text
		base := a.typ.tail(2)
		if strings.HasSuffix(name, ":") && !strings.HasSuffix(name, "::") {
			name = strings.TrimSuffix(name, ":")
		} else if base.first() == ":" {
			base = base.tail(1)
		}
		t.Node(agg).Name = name
		if !isTypedef && len(base) > 0 {
			t.Node(agg).Base = base.String()
		}
	}

	raw, hasDoc := a.bodyComment()
	private := hasDoc && isPrivate(raw)
	text, _ := normalizeComment(raw)
	t.SetDescription(agg, text)
	if t.Node(agg).Name != "" && !private {
		a.insert(a.root, agg)
	}

	td := doctree.NoNode
	if isTypedef {
		td = t.NewNode(doctree.KindTypedef, "")
		if hasDoc {
			t.SetDescription(td, text)
		}
	}

	if err := a.descend(tok, a.child(agg)); err != nil {
		return err
	}

	if isTypedef {
		a.openTypedef, a.openAgg, a.openType = td, agg, a.typ
		a.openPrivate = private
	}
	a.typ = nil
	a.function, a.variable = doctree.NoNode, doctree.NoNode
	return nil
}

// enum opens an enumeration body; constants are read by identifier.
func (a *assembler) enum() {
	t := a.tree
	isTypedef := a.typ.first() == "typedef"
	if isTypedef {
		a.typ = a.typ.tail(1)
	}

	en := t.NewNode(doctree.KindEnumeration, "")
	raw, hasDoc := a.bodyComment()
	private := hasDoc && isPrivate(raw)
	text, _ := normalizeComment(raw)
	t.SetDescription(en, text)

	named := len(a.typ) > 1 && isName(a.typ[1].Text)
	if named {
		t.Node(en).Name = a.typ[1].Text
		if !private {
			a.insert(a.root, en)
		}
	}

	if isTypedef {
		td := t.NewNode(doctree.KindTypedef, "")
		if hasDoc {
			t.SetDescription(td, text)
		}
		a.openTypedef, a.openAgg, a.openType = td, en, a.typ
		a.openPrivate = private
	} else {
		// Constants of "enum { ... };" have no named parent to live in, so
		// they are listed beside the other declarations of the scope.
		a.looseEnum = !named && !private
	}
	a.typ = nil
	a.enumeration = en
	a.enumValue = false
}

func (a *assembler) closeBrace(tok token) bool {
	a.constant = doctree.NoNode
	a.enumeration = doctree.NoNode
	a.looseEnum, a.enumValue = false, false
	a.clearComments()

	if a.braces > 0 {
		a.braces--
		return false
	}
	if a.depth > 0 {
		return true
	}
	a.log.Debug("unbalanced closing brace", "line", tok.line)
	return false
}

func (a *assembler) child(root doctree.NodeID) *assembler {
	return newAssembler(a.lx, a.tree, root, a.log, a.file, a.depth+1, a.max)
}

func (a *assembler) descend(tok token, child *assembler) error {
	if child.depth > a.max {
		return a.fail(tok.line, ErrTooDeep)
	}
	return child.run()
}

func (a *assembler) insert(parent, node doctree.NodeID) {
	if !a.tree.Insert(parent, node) {
		a.log.Debug("declaration not inserted",
			"kind", a.tree.Node(node).Kind.String(),
			"name", a.tree.Node(node).Name)
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
