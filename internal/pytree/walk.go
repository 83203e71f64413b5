package pytree

import "iter"

// Walk yields every node of the subtree rooted at root in depth-first
// pre-order. Children are read after their parent has been yielded, so a
// consumer may rewrite the node it was just handed; rewriting siblings that
// have not been visited yet is not supported.
func Walk(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		stack := []*Node{root}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(n) {
				return
			}

			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, n.Children[i])
			}
		}
	}
}

// Leaves yields the leaves of the subtree in document order.
func Leaves(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := range Walk(root) {
			if n.IsLeaf() && !yield(n) {
				return
			}
		}
	}
}
