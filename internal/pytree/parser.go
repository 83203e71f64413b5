package pytree

import (
	"errors"
	"fmt"
	"slices"
)

// ErrSyntax is wrapped by every error reported for malformed source.
var ErrSyntax = errors.New("invalid syntax")

// SyntaxError locates a tokenizer or parser failure.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d col %d: %s", e.Line, e.Column, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Grammar selects the dialect the parser accepts.
type Grammar struct {
	// PrintFunction makes print an ordinary name. Files importing
	// print_function from __future__ switch it on automatically.
	PrintFunction bool
}

var py2Keywords = []string{
	"and", "as", "assert", "break", "class", "continue", "def", "del",
	"elif", "else", "except", "exec", "finally", "for", "from", "global",
	"if", "import", "in", "is", "lambda", "not", "or", "pass", "print",
	"raise", "return", "try", "while", "with", "yield",
}

var augAssignOps = []string{
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=", "**=", "//=",
}

var compOps = []string{"<", ">", "==", ">=", "<=", "<>", "!="}

// Parse parses Python 2.7 source into a concrete syntax tree rooted at a
// file_input node. Code() on the result reproduces src.
func Parse(src string) (*Node, error) {
	return ParseGrammar(src, Grammar{})
}

// ParseGrammar is Parse with an explicit dialect.
func ParseGrammar(src string, g Grammar) (tree *Node, err error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	if !g.PrintFunction {
		g.PrintFunction = importsPrintFunction(toks)
	}

	p := &parser{toks: toks, keywords: make(map[string]bool, len(py2Keywords))}
	for _, kw := range py2Keywords {
		p.keywords[kw] = true
	}
	if g.PrintFunction {
		delete(p.keywords, "print")
	}

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			tree, err = nil, b.err
		}
	}()
	return p.fileInput(), nil
}

func importsPrintFunction(toks []token) bool {
	for i := 0; i+2 < len(toks); i++ {
		if toks[i].value != "from" || toks[i+1].value != "__future__" || toks[i+2].value != "import" {
			continue
		}
		for j := i + 3; j < len(toks) && toks[j].kind != tokNewline; j++ {
			if toks[j].kind == tokName && toks[j].value == "print_function" {
				return true
			}
		}
	}
	return false
}

type bailout struct {
	err error
}

type parser struct {
	toks     []token
	pos      int
	keywords map[string]bool
}

func (p *parser) fail(format string, args ...any) {
	t := p.peek()
	panic(bailout{&SyntaxError{Line: t.line, Column: t.col, Msg: fmt.Sprintf(format, args...)}})
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(k int) token {
	if p.pos+k >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+k]
}

func (p *parser) isOp(v string) bool {
	t := p.peek()
	return t.kind == tokOp && t.value == v
}

func (p *parser) isOpIn(ops []string) bool {
	t := p.peek()
	return t.kind == tokOp && slices.Contains(ops, t.value)
}

func (p *parser) isKw(v string) bool {
	t := p.peek()
	return t.kind == tokName && t.value == v && p.keywords[v]
}

func (p *parser) isName() bool {
	t := p.peek()
	return t.kind == tokName && !p.keywords[t.value]
}

// next consumes the current token and returns it as a leaf.
func (p *parser) next() *Node {
	t := p.peek()
	var typ Type
	switch t.kind {
	case tokName:
		typ = Name
		if p.keywords[t.value] {
			typ = Keyword
		}
	case tokNumber:
		typ = Number
	case tokString:
		typ = String
	case tokOp:
		typ = Operator
	case tokNewline:
		typ = Newline
	case tokEndMarker:
		typ = EndMarker
	default:
		p.fail("unexpected %s", t.kind)
	}
	p.pos++
	return NewLeaf(typ, t.value, t.prefix)
}

func (p *parser) expectOp(v string) *Node {
	if !p.isOp(v) {
		p.fail("expected %q", v)
	}
	return p.next()
}

func (p *parser) expectKw(v string) *Node {
	if !p.isKw(v) {
		p.fail("expected %q", v)
	}
	return p.next()
}

func (p *parser) expectName() *Node {
	if !p.isName() {
		p.fail("expected a name")
	}
	return p.next()
}

func (p *parser) expectKind(kind tokenKind) {
	if p.peek().kind != kind {
		p.fail("expected %s", kind)
	}
	p.pos++
}

// collapse builds a node unless it would have a single child, in which
// case the child stands for the rule.
func collapse(typ Type, children []*Node) *Node {
	if len(children) == 1 {
		return children[0]
	}
	return NewNode(typ, children)
}

func (p *parser) startsExpr() bool {
	t := p.peek()
	switch t.kind {
	case tokName:
		return !p.keywords[t.value]
	case tokNumber, tokString:
		return true
	case tokOp:
		return slices.Contains([]string{"(", "[", "{", "`", "-", "+", "~"}, t.value)
	}
	return false
}

func (p *parser) startsTest() bool {
	return p.startsExpr() || p.isKw("not") || p.isKw("lambda")
}

/***** Statements *****/

func (p *parser) fileInput() *Node {
	var children []*Node
	for p.peek().kind != tokEndMarker {
		switch p.peek().kind {
		case tokNewline:
			children = append(children, p.next())
		case tokIndent:
			p.fail("unexpected indent")
		default:
			children = append(children, p.stmt())
		}
	}
	children = append(children, p.next())
	return NewNode(FileInput, children)
}

func (p *parser) stmt() *Node {
	if p.isOp("@") {
		return p.decorated()
	}
	if t := p.peek(); t.kind == tokName && p.keywords[t.value] {
		switch t.value {
		case "if":
			return p.ifStmt()
		case "while":
			return p.whileStmt()
		case "for":
			return p.forStmt()
		case "try":
			return p.tryStmt()
		case "with":
			return p.withStmt()
		case "def":
			return p.funcdef()
		case "class":
			return p.classdef()
		}
	}
	return p.simpleStmt()
}

func (p *parser) simpleStmt() *Node {
	children := []*Node{p.smallStmt()}
	for p.isOp(";") {
		children = append(children, p.next())
		if p.peek().kind == tokNewline {
			break
		}
		children = append(children, p.smallStmt())
	}
	if p.peek().kind != tokNewline {
		p.fail("invalid syntax")
	}
	children = append(children, p.next())
	return NewNode(SimpleStmt, children)
}

func (p *parser) smallStmt() *Node {
	t := p.peek()
	if t.kind != tokName || !p.keywords[t.value] {
		return p.exprStmt()
	}
	switch t.value {
	case "print":
		return p.printStmt()
	case "del":
		return NewNode(DelStmt, []*Node{p.next(), p.exprlist()})
	case "pass", "break", "continue":
		return p.next()
	case "return":
		children := []*Node{p.next()}
		if p.startsTest() {
			children = append(children, p.testlist())
		}
		return collapse(ReturnStmt, children)
	case "raise":
		return p.raiseStmt()
	case "yield":
		return p.yieldExpr()
	case "import":
		return NewNode(ImportName, []*Node{p.next(), p.dottedAsNames()})
	case "from":
		return p.importFrom()
	case "global":
		children := []*Node{p.next(), p.expectName()}
		for p.isOp(",") {
			children = append(children, p.next(), p.expectName())
		}
		return NewNode(GlobalStmt, children)
	case "exec":
		children := []*Node{p.next(), p.expr()}
		if p.isKw("in") {
			children = append(children, p.next(), p.test())
			if p.isOp(",") {
				children = append(children, p.next(), p.test())
			}
		}
		return NewNode(ExecStmt, children)
	case "assert":
		children := []*Node{p.next(), p.test()}
		if p.isOp(",") {
			children = append(children, p.next(), p.test())
		}
		return NewNode(AssertStmt, children)
	}
	return p.exprStmt()
}

func (p *parser) exprStmt() *Node {
	children := []*Node{p.testlist()}
	if p.isOpIn(augAssignOps) {
		children = append(children, p.next())
		if p.isKw("yield") {
			children = append(children, p.yieldExpr())
		} else {
			children = append(children, p.testlist())
		}
		return NewNode(ExprStmt, children)
	}
	for p.isOp("=") {
		children = append(children, p.next())
		if p.isKw("yield") {
			children = append(children, p.yieldExpr())
		} else {
			children = append(children, p.testlist())
		}
	}
	return collapse(ExprStmt, children)
}

func (p *parser) printStmt() *Node {
	children := []*Node{p.next()}
	if p.isOp(">>") {
		children = append(children, p.next(), p.test())
		for p.isOp(",") {
			children = append(children, p.next())
			if !p.startsTest() {
				break
			}
			children = append(children, p.test())
		}
		return NewNode(PrintStmt, children)
	}
	if !p.startsTest() {
		return collapse(PrintStmt, children)
	}
	children = append(children, p.test())
	for p.isOp(",") {
		children = append(children, p.next())
		if !p.startsTest() {
			break
		}
		children = append(children, p.test())
	}
	return NewNode(PrintStmt, children)
}

func (p *parser) raiseStmt() *Node {
	children := []*Node{p.next()}
	if p.startsTest() {
		children = append(children, p.test())
		for i := 0; i < 2 && p.isOp(","); i++ {
			children = append(children, p.next(), p.test())
		}
	}
	return collapse(RaiseStmt, children)
}

func (p *parser) importFrom() *Node {
	children := []*Node{p.next()}
	dots := 0
	for p.isOp(".") {
		children = append(children, p.next())
		dots++
	}
	if p.isName() {
		children = append(children, p.dottedName())
	} else if dots == 0 {
		p.fail("expected module name")
	}
	children = append(children, p.expectKw("import"))
	switch {
	case p.isOp("*"):
		children = append(children, p.next())
	case p.isOp("("):
		children = append(children, p.next(), p.importAsNames(), p.expectOp(")"))
	default:
		children = append(children, p.importAsNames())
	}
	return NewNode(ImportFrom, children)
}

func (p *parser) importAsNames() *Node {
	children := []*Node{p.importAsName()}
	for p.isOp(",") {
		children = append(children, p.next())
		if !p.isName() {
			break
		}
		children = append(children, p.importAsName())
	}
	return collapse(ImportAsNames, children)
}

func (p *parser) importAsName() *Node {
	children := []*Node{p.expectName()}
	if p.isKw("as") {
		children = append(children, p.next(), p.expectName())
	}
	return collapse(ImportAsName, children)
}

func (p *parser) dottedAsNames() *Node {
	children := []*Node{p.dottedAsName()}
	for p.isOp(",") {
		children = append(children, p.next(), p.dottedAsName())
	}
	return collapse(DottedAsNames, children)
}

func (p *parser) dottedAsName() *Node {
	children := []*Node{p.dottedName()}
	if p.isKw("as") {
		children = append(children, p.next(), p.expectName())
	}
	return collapse(DottedAsName, children)
}

func (p *parser) dottedName() *Node {
	children := []*Node{p.expectName()}
	for p.isOp(".") {
		children = append(children, p.next(), p.expectName())
	}
	return collapse(DottedName, children)
}

func (p *parser) ifStmt() *Node {
	children := []*Node{p.next(), p.test(), p.expectOp(":"), p.suite()}
	for p.isKw("elif") {
		children = append(children, p.next(), p.test(), p.expectOp(":"), p.suite())
	}
	children = p.elseClause(children)
	return NewNode(IfStmt, children)
}

func (p *parser) elseClause(children []*Node) []*Node {
	if p.isKw("else") {
		children = append(children, p.next(), p.expectOp(":"), p.suite())
	}
	return children
}

func (p *parser) whileStmt() *Node {
	children := []*Node{p.next(), p.test(), p.expectOp(":"), p.suite()}
	return NewNode(WhileStmt, p.elseClause(children))
}

func (p *parser) forStmt() *Node {
	children := []*Node{p.next(), p.exprlist(), p.expectKw("in"), p.testlist(), p.expectOp(":"), p.suite()}
	return NewNode(ForStmt, p.elseClause(children))
}

func (p *parser) tryStmt() *Node {
	children := []*Node{p.next(), p.expectOp(":"), p.suite()}
	handlers := 0
	for p.isKw("except") {
		children = append(children, p.exceptClause(), p.expectOp(":"), p.suite())
		handlers++
	}
	if handlers > 0 {
		children = p.elseClause(children)
	}
	if p.isKw("finally") {
		children = append(children, p.next(), p.expectOp(":"), p.suite())
	} else if handlers == 0 {
		p.fail("expected 'except' or 'finally'")
	}
	return NewNode(TryStmt, children)
}

func (p *parser) exceptClause() *Node {
	children := []*Node{p.next()}
	if p.startsTest() {
		children = append(children, p.test())
		if p.isKw("as") || p.isOp(",") {
			children = append(children, p.next(), p.test())
		}
	}
	return collapse(ExceptClause, children)
}

func (p *parser) withStmt() *Node {
	children := []*Node{p.next(), p.withItem()}
	for p.isOp(",") {
		children = append(children, p.next(), p.withItem())
	}
	children = append(children, p.expectOp(":"), p.suite())
	return NewNode(WithStmt, children)
}

func (p *parser) withItem() *Node {
	children := []*Node{p.test()}
	if p.isKw("as") {
		children = append(children, p.next(), p.expr())
	}
	return collapse(WithItem, children)
}

func (p *parser) funcdef() *Node {
	children := []*Node{p.next(), p.expectName()}
	params := []*Node{p.expectOp("(")}
	if !p.isOp(")") {
		params = append(params, p.varargslist(")"))
	}
	params = append(params, p.expectOp(")"))
	children = append(children, NewNode(Parameters, params), p.expectOp(":"), p.suite())
	return NewNode(Funcdef, children)
}

// varargslist parses parameters up to (not including) the closing token.
func (p *parser) varargslist(closing string) *Node {
	var children []*Node
	for !p.isOp(closing) {
		switch {
		case p.isOp("*") || p.isOp("**"):
			children = append(children, p.next(), p.expectName())
		default:
			children = append(children, p.fpdef())
			if p.isOp("=") {
				children = append(children, p.next(), p.test())
			}
		}
		if !p.isOp(",") {
			break
		}
		children = append(children, p.next())
	}
	if len(children) == 0 {
		p.fail("expected parameter")
	}
	return collapse(VarArgsList, children)
}

func (p *parser) fpdef() *Node {
	if !p.isOp("(") {
		return p.expectName()
	}
	open := p.next()
	var list []*Node
	for !p.isOp(")") {
		list = append(list, p.fpdef())
		if !p.isOp(",") {
			break
		}
		list = append(list, p.next())
	}
	if len(list) == 0 {
		p.fail("expected parameter")
	}
	return NewNode(Atom, []*Node{open, collapse(Fplist, list), p.expectOp(")")})
}

func (p *parser) classdef() *Node {
	children := []*Node{p.next(), p.expectName()}
	if p.isOp("(") {
		children = append(children, p.next())
		if !p.isOp(")") {
			children = append(children, p.testlist())
		}
		children = append(children, p.expectOp(")"))
	}
	children = append(children, p.expectOp(":"), p.suite())
	return NewNode(Classdef, children)
}

func (p *parser) decorated() *Node {
	var decorators []*Node
	for p.isOp("@") {
		children := []*Node{p.next(), p.dottedName()}
		if p.isOp("(") {
			children = append(children, p.next())
			if !p.isOp(")") {
				children = append(children, p.arglist())
			}
			children = append(children, p.expectOp(")"))
		}
		if p.peek().kind != tokNewline {
			p.fail("expected newline after decorator")
		}
		children = append(children, p.next())
		decorators = append(decorators, NewNode(Decorator, children))
	}
	var def *Node
	switch {
	case p.isKw("def"):
		def = p.funcdef()
	case p.isKw("class"):
		def = p.classdef()
	default:
		p.fail("expected 'def' or 'class' after decorator")
	}
	return NewNode(Decorated, []*Node{collapse(Decorators, decorators), def})
}

func (p *parser) suite() *Node {
	if p.peek().kind != tokNewline {
		return p.simpleStmt()
	}
	children := []*Node{p.next()}
	p.expectKind(tokIndent)
	for p.peek().kind != tokDedent {
		if p.peek().kind == tokEndMarker {
			p.fail("unexpected EOF in block")
		}
		children = append(children, p.stmt())
	}
	p.pos++
	if len(children) == 1 {
		p.fail("expected an indented block")
	}
	return NewNode(Suite, children)
}

/***** Expressions *****/

func (p *parser) testlist() *Node {
	children := []*Node{p.test()}
	for p.isOp(",") {
		children = append(children, p.next())
		if !p.startsTest() {
			break
		}
		children = append(children, p.test())
	}
	return collapse(Testlist, children)
}

func (p *parser) test() *Node {
	if p.isKw("lambda") {
		return p.lambdef(p.test)
	}
	cond := p.orTest()
	if !p.isKw("if") {
		return cond
	}
	children := []*Node{cond, p.next(), p.orTest(), p.expectKw("else"), p.test()}
	return NewNode(Test, children)
}

// oldTest is the conditional-free test used in comprehension filters.
func (p *parser) oldTest() *Node {
	if p.isKw("lambda") {
		return p.lambdef(p.oldTest)
	}
	return p.orTest()
}

func (p *parser) lambdef(body func() *Node) *Node {
	children := []*Node{p.next()}
	if !p.isOp(":") {
		children = append(children, p.varargslist(":"))
	}
	children = append(children, p.expectOp(":"), body())
	return NewNode(Lambdef, children)
}

func (p *parser) orTest() *Node {
	children := []*Node{p.andTest()}
	for p.isKw("or") {
		children = append(children, p.next(), p.andTest())
	}
	return collapse(OrTest, children)
}

func (p *parser) andTest() *Node {
	children := []*Node{p.notTest()}
	for p.isKw("and") {
		children = append(children, p.next(), p.notTest())
	}
	return collapse(AndTest, children)
}

func (p *parser) notTest() *Node {
	if p.isKw("not") {
		return NewNode(NotTest, []*Node{p.next(), p.notTest()})
	}
	return p.comparison()
}

func (p *parser) comparison() *Node {
	children := []*Node{p.expr()}
	for {
		op := p.compOp()
		if op == nil {
			break
		}
		children = append(children, op, p.expr())
	}
	return collapse(Comparison, children)
}

func (p *parser) compOp() *Node {
	switch {
	case p.isOpIn(compOps), p.isKw("in"):
		return p.next()
	case p.isKw("not"):
		if t := p.peekAt(1); t.kind == tokName && t.value == "in" {
			return NewNode(CompOp, []*Node{p.next(), p.next()})
		}
	case p.isKw("is"):
		is := p.next()
		if p.isKw("not") {
			return NewNode(CompOp, []*Node{is, p.next()})
		}
		return is
	}
	return nil
}

func (p *parser) binary(typ Type, operand func() *Node, ops ...string) *Node {
	children := []*Node{operand()}
	for p.isOpIn(ops) {
		children = append(children, p.next(), operand())
	}
	return collapse(typ, children)
}

func (p *parser) expr() *Node {
	return p.binary(Expr, p.xorExpr, "|")
}

func (p *parser) xorExpr() *Node {
	return p.binary(XorExpr, p.andExpr, "^")
}

func (p *parser) andExpr() *Node {
	return p.binary(AndExpr, p.shiftExpr, "&")
}

func (p *parser) shiftExpr() *Node {
	return p.binary(ShiftExpr, p.arithExpr, "<<", ">>")
}

func (p *parser) arithExpr() *Node {
	return p.binary(ArithExpr, p.term, "+", "-")
}

func (p *parser) term() *Node {
	return p.binary(Term, p.factor, "*", "/", "%", "//")
}

func (p *parser) factor() *Node {
	if p.isOpIn([]string{"+", "-", "~"}) {
		return NewNode(Factor, []*Node{p.next(), p.factor()})
	}
	return p.power()
}

func (p *parser) power() *Node {
	children := []*Node{p.atom()}
	for p.isOp("(") || p.isOp("[") || p.isOp(".") {
		children = append(children, p.trailer())
	}
	if p.isOp("**") {
		children = append(children, p.next(), p.factor())
	}
	return collapse(Power, children)
}

func (p *parser) trailer() *Node {
	open := p.next()
	switch open.Value {
	case "(":
		children := []*Node{open}
		if !p.isOp(")") {
			children = append(children, p.arglist())
		}
		return NewNode(Trailer, append(children, p.expectOp(")")))
	case "[":
		return NewNode(Trailer, []*Node{open, p.subscriptlist(), p.expectOp("]")})
	default:
		if p.peek().kind != tokName {
			p.fail("expected attribute name")
		}
		name := p.next()
		name.Type = Name
		return NewNode(Trailer, []*Node{open, name})
	}
}

func (p *parser) atom() *Node {
	t := p.peek()
	switch t.kind {
	case tokNumber:
		return p.next()
	case tokString:
		children := []*Node{p.next()}
		for p.peek().kind == tokString {
			children = append(children, p.next())
		}
		return collapse(Strings, children)
	case tokName:
		if !p.keywords[t.value] {
			return p.next()
		}
	case tokOp:
		switch t.value {
		case "(":
			children := []*Node{p.next()}
			switch {
			case p.isOp(")"):
			case p.isKw("yield"):
				children = append(children, p.yieldExpr())
			default:
				children = append(children, p.testlistComp())
			}
			return NewNode(Atom, append(children, p.expectOp(")")))
		case "[":
			children := []*Node{p.next()}
			if !p.isOp("]") {
				children = append(children, p.testlistComp())
			}
			return NewNode(Atom, append(children, p.expectOp("]")))
		case "{":
			children := []*Node{p.next()}
			if !p.isOp("}") {
				children = append(children, p.dictOrSetMaker())
			}
			return NewNode(Atom, append(children, p.expectOp("}")))
		case "`":
			children := []*Node{p.next(), p.testlist()}
			return NewNode(Atom, append(children, p.expectOp("`")))
		}
	}
	p.fail("invalid syntax")
	return nil
}

func (p *parser) testlistComp() *Node {
	children := []*Node{p.test()}
	if p.isKw("for") {
		return NewNode(TestlistComp, append(children, p.compFor()))
	}
	for p.isOp(",") {
		children = append(children, p.next())
		if !p.startsTest() {
			break
		}
		children = append(children, p.test())
	}
	return collapse(TestlistComp, children)
}

func (p *parser) dictOrSetMaker() *Node {
	first := p.test()
	if !p.isOp(":") {
		children := []*Node{first}
		if p.isKw("for") {
			return NewNode(DictOrSetMaker, append(children, p.compFor()))
		}
		for p.isOp(",") {
			children = append(children, p.next())
			if !p.startsTest() {
				break
			}
			children = append(children, p.test())
		}
		return collapse(DictOrSetMaker, children)
	}

	children := []*Node{first, p.next(), p.test()}
	if p.isKw("for") {
		return NewNode(DictOrSetMaker, append(children, p.compFor()))
	}
	for p.isOp(",") {
		children = append(children, p.next())
		if !p.startsTest() {
			break
		}
		children = append(children, p.test(), p.expectOp(":"), p.test())
	}
	return NewNode(DictOrSetMaker, children)
}

func (p *parser) compFor() *Node {
	children := []*Node{p.next(), p.exprlist(), p.expectKw("in"), p.orTest()}
	if iter := p.compIter(); iter != nil {
		children = append(children, iter)
	}
	return NewNode(CompFor, children)
}

func (p *parser) compIter() *Node {
	switch {
	case p.isKw("for"):
		return p.compFor()
	case p.isKw("if"):
		children := []*Node{p.next(), p.oldTest()}
		if iter := p.compIter(); iter != nil {
			children = append(children, iter)
		}
		return NewNode(CompIf, children)
	}
	return nil
}

func (p *parser) exprlist() *Node {
	children := []*Node{p.expr()}
	for p.isOp(",") {
		children = append(children, p.next())
		if !p.startsExpr() {
			break
		}
		children = append(children, p.expr())
	}
	return collapse(Exprlist, children)
}

func (p *parser) subscriptlist() *Node {
	children := []*Node{p.subscript()}
	for p.isOp(",") {
		children = append(children, p.next())
		if p.isOp("]") {
			break
		}
		children = append(children, p.subscript())
	}
	return collapse(Subscriptlist, children)
}

func (p *parser) subscript() *Node {
	if p.isOp(".") && p.peekAt(1).value == "." && p.peekAt(2).value == "." {
		return NewNode(Subscript, []*Node{p.next(), p.next(), p.next()})
	}
	var children []*Node
	if !p.isOp(":") {
		lower := p.test()
		if !p.isOp(":") {
			return lower
		}
		children = append(children, lower)
	}
	children = append(children, p.next())
	if p.startsTest() {
		children = append(children, p.test())
	}
	if p.isOp(":") {
		sliceop := []*Node{p.next()}
		if p.startsTest() {
			sliceop = append(sliceop, p.test())
		}
		children = append(children, collapse(Sliceop, sliceop))
	}
	return collapse(Subscript, children)
}

func (p *parser) arglist() *Node {
	children := []*Node{p.argument()}
	for p.isOp(",") {
		children = append(children, p.next())
		if p.isOp(")") {
			break
		}
		children = append(children, p.argument())
	}
	return collapse(Arglist, children)
}

func (p *parser) argument() *Node {
	if p.isOp("*") || p.isOp("**") {
		return NewNode(Argument, []*Node{p.next(), p.test()})
	}
	first := p.test()
	switch {
	case p.isKw("for"):
		return NewNode(Argument, []*Node{first, p.compFor()})
	case p.isOp("="):
		return NewNode(Argument, []*Node{first, p.next(), p.test()})
	}
	return first
}

func (p *parser) yieldExpr() *Node {
	children := []*Node{p.next()}
	if p.startsTest() {
		children = append(children, p.testlist())
	}
	return collapse(YieldExpr, children)
}
