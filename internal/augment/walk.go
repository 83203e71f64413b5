package augment

import "iter"

// Walk yields v and its semantic descendants in depth-first pre-order.
func Walk(v View) iter.Seq[View] {
	return func(yield func(View) bool) {
		stack := []View{v}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(cur) {
				return
			}

			children := cur.Children()
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}
