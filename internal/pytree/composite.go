package pytree

import "strings"

// Composite is a detached stand-in for a prefix of a real node's children.
// It shares the children with the node it was cut from without adopting
// them, and remembers the parent it will get once materialized.
type Composite struct {
	Type     Type
	Children []*Node
	Parent   *Node
}

// Materialize converts c into a real node that adopts the children and is
// parented to c.Parent. The node is not inserted into Parent's children;
// the caller splices it in.
func (c *Composite) Materialize() *Node {
	children := make([]*Node, len(c.Children))
	copy(children, c.Children)
	n := NewNode(c.Type, children)
	n.Parent = c.Parent
	return n
}

// Code serializes the children of c.
func (c *Composite) Code() string {
	var sb strings.Builder
	for _, child := range c.Children {
		child.writeCode(&sb)
	}
	return sb.String()
}
