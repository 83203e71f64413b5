package augment

import (
	"fmt"
	"slices"

	"github.com/gnolang/py3port/internal/pytree"
)

// Expr is either a real tree node or a synthetic composite cut from one.
// Exactly one of the fields is set.
type Expr struct {
	Node      *pytree.Node
	Composite *pytree.Composite
}

// Real wraps a tree node.
func Real(n *pytree.Node) Expr {
	return Expr{Node: n}
}

func (e Expr) IsComposite() bool {
	return e.Composite != nil
}

func (e Expr) Type() pytree.Type {
	if e.Composite != nil {
		return e.Composite.Type
	}
	return e.Node.Type
}

// Children returns the raw children. Leaves have none.
func (e Expr) Children() []*pytree.Node {
	if e.Composite != nil {
		return e.Composite.Children
	}
	return e.Node.Children
}

func (e Expr) IsLeaf() bool {
	return e.Composite == nil && e.Node.IsLeaf()
}

func (e Expr) Code() string {
	if e.Composite != nil {
		return e.Composite.Code()
	}
	return e.Node.Code()
}

// Text is Code without the prefix of the first leaf.
func (e Expr) Text() string {
	if e.Composite == nil {
		return e.Node.Text()
	}
	code := e.Composite.Code()
	if len(e.Composite.Children) > 0 {
		if first := e.Composite.Children[0].FirstLeaf(); first != nil {
			return code[len(first.Prefix):]
		}
	}
	return code
}

// Materialize returns the real node behind e, converting a composite into
// a parented node first.
func (e Expr) Materialize() *pytree.Node {
	if e.Composite != nil {
		return e.Composite.Materialize()
	}
	return e.Node
}

// Trim peels the last segment off a power chain. When more than the base
// expression remains, the result is a composite whose pending parent is
// parent; otherwise it is the base expression itself.
//
// Trim panics if e is not a power node.
func Trim(e Expr, parent *pytree.Node) Expr {
	if e.Type() != pytree.Power {
		panic(fmt.Sprintf("augment: cannot trim %s node", e.Type()))
	}
	return peel(e, 1, parent)
}

// peel drops the last n children of e.
func peel(e Expr, n int, parent *pytree.Node) Expr {
	children := e.Children()
	rest := slices.Clip(children[:len(children)-n])
	if len(rest) == 1 {
		return Real(rest[0])
	}
	return Expr{Composite: &pytree.Composite{Type: e.Type(), Children: rest, Parent: parent}}
}
