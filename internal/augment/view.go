// Package augment classifies concrete syntax nodes into semantic shapes:
// calls, attribute accesses, subscripts and binary operations. Views are
// read-only projections rebuilt on every traversal; rewrites go through the
// raw nodes they wrap.
package augment

import (
	"github.com/gnolang/py3port/internal/pytree"
)

// View is a classified projection of an expression.
type View interface {
	// Expr returns the wrapped expression.
	Expr() Expr
	// Parent returns the view this one is a semantic child of, or nil.
	Parent() View
	// Children returns the semantic children in document order.
	Children() []View

	setParent(View)
}

type base struct {
	expr   Expr
	parent View
}

func (b *base) Expr() Expr { return b.expr }
func (b *base) Parent() View { return b.parent }
func (b *base) setParent(p View) { b.parent = p }

// Call is a chain ending in an argument list: callee(args...).
type Call struct {
	base
	Callee View
	Args   []View
}

func (c *Call) Children() []View {
	return append([]View{c.Callee}, c.Args...)
}

// Attribute is a chain ending in a dotted name: object.name.
type Attribute struct {
	base
	Object View
	Name   *pytree.Node
	name   View
}

func (a *Attribute) Children() []View {
	return []View{a.Object, a.name}
}

// Subscript is a chain ending in an index list: object[indices...].
type Subscript struct {
	base
	Object  View
	Indices []View
}

func (s *Subscript) Children() []View {
	return append([]View{s.Object}, s.Indices...)
}

// BinaryOp is the rightmost operation of an arithmetic, multiplicative or
// power expression. Chains associate left: in a + b - c the operator is -
// and Left covers a + b.
type BinaryOp struct {
	base
	Left     View
	Operator *pytree.Node
	Right    View
	op       View
}

func (b *BinaryOp) Children() []View {
	return []View{b.Left, b.op, b.Right}
}

// Passthrough mirrors the raw children of a node that has no recognised shape.
type Passthrough struct {
	base
	Items []View
}

func (p *Passthrough) Children() []View {
	return p.Items
}

type shape struct {
	match func(Expr) bool
	build func(Expr) View
}

// shapes are tried in order; the first match wins. The builders call back
// into Augment, so the table is filled in init.
var shapes []shape

func init() {
	shapes = []shape{
		{match: isCall, build: newCall},
		{match: isAttribute, build: newAttribute},
		{match: isSubscript, build: newSubscript},
		{match: isBinaryOp, build: newBinaryOp},
	}
}

// Of classifies a tree node.
func Of(n *pytree.Node) View {
	return Augment(Real(n))
}

// Augment classifies e. Redundant parentheses around a single expression
// are looked through first. Every expression yields exactly one view.
func Augment(e Expr) View {
	e = stripParens(e)
	for _, s := range shapes {
		if s.match(e) {
			return s.build(e)
		}
	}
	return newPassthrough(e)
}

func stripParens(e Expr) Expr {
	for !e.IsComposite() && e.Node.Type == pytree.Atom && len(e.Node.Children) == 3 {
		ch := e.Node.Children
		if !ch[0].IsOperator("(") || !ch[2].IsOperator(")") {
			break
		}
		if ch[1].Type == pytree.TestlistComp || ch[1].Type == pytree.YieldExpr {
			break
		}
		e = Real(ch[1])
	}
	return e
}

// trailerOpener returns the first token of the last trailer of a power
// chain, or "" when e is not one.
func trailerOpener(e Expr) string {
	if e.Type() != pytree.Power {
		return ""
	}
	children := e.Children()
	last := children[len(children)-1]
	if last.Type != pytree.Trailer {
		return ""
	}
	return last.Children[0].Value
}

func isCall(e Expr) bool { return trailerOpener(e) == "(" }
func isAttribute(e Expr) bool { return trailerOpener(e) == "." }
func isSubscript(e Expr) bool { return trailerOpener(e) == "[" }

func isBinaryOp(e Expr) bool {
	children := e.Children()
	if len(children) < 3 {
		return false
	}
	switch e.Type() {
	case pytree.ArithExpr, pytree.Term:
		return children[1].Type == pytree.Operator
	case pytree.Power:
		return children[len(children)-2].IsOperator("**")
	}
	return false
}

func rawParent(e Expr) *pytree.Node {
	if e.IsComposite() {
		return e.Composite.Parent
	}
	return e.Node.Parent
}

func lastTrailer(e Expr) *pytree.Node {
	children := e.Children()
	return children[len(children)-1]
}

// adopt links child to parent and returns it.
func adopt(parent, child View) View {
	child.setParent(parent)
	return child
}

// items augments the comma separated elements of a list node, or the node
// itself when it is not of listType.
func items(parent View, n *pytree.Node, listType pytree.Type) []View {
	if n.Type != listType {
		return []View{adopt(parent, Of(n))}
	}
	var views []View
	for _, c := range n.Children {
		if c.IsOperator(",") {
			continue
		}
		views = append(views, adopt(parent, Of(c)))
	}
	return views
}

func newCall(e Expr) View {
	c := &Call{base: base{expr: e}}
	c.Callee = adopt(c, Augment(Trim(e, rawParent(e))))
	if trailer := lastTrailer(e); len(trailer.Children) == 3 {
		c.Args = items(c, trailer.Children[1], pytree.Arglist)
	}
	return c
}

func newAttribute(e Expr) View {
	a := &Attribute{base: base{expr: e}}
	a.Object = adopt(a, Augment(Trim(e, rawParent(e))))
	a.Name = lastTrailer(e).Children[1]
	a.name = adopt(a, Of(a.Name))
	return a
}

func newSubscript(e Expr) View {
	s := &Subscript{base: base{expr: e}}
	s.Object = adopt(s, Augment(Trim(e, rawParent(e))))
	s.Indices = items(s, lastTrailer(e).Children[1], pytree.Subscriptlist)
	return s
}

func newBinaryOp(e Expr) View {
	children := e.Children()
	b := &BinaryOp{base: base{expr: e}}
	b.Left = adopt(b, Augment(peel(e, 2, rawParent(e))))
	b.Operator = children[len(children)-2]
	b.op = adopt(b, Of(b.Operator))
	b.Right = adopt(b, Of(children[len(children)-1]))
	return b
}

func newPassthrough(e Expr) View {
	p := &Passthrough{base: base{expr: e}}
	for _, c := range e.Children() {
		p.Items = append(p.Items, adopt(p, Of(c)))
	}
	return p
}
