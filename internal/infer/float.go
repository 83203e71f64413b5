// Package infer guesses, from syntax alone, whether an expression could
// evaluate to a floating point value. It never resolves names: anything it
// does not recognise is assumed not to be a float.
package infer

import (
	"slices"
	"strings"

	"github.com/gnolang/py3port/internal/augment"
	"github.com/gnolang/py3port/internal/pytree"
)

// FloatConstants are attribute accesses known to be floats.
var FloatConstants = []string{
	"math.pi",
	"np.pi",
}

// FloatFunctions are callables known to return floats, matched on the bare
// name or on the attribute name of a qualified call (np.sqrt -> sqrt).
var FloatFunctions = []string{
	"float",
	"sqrt",
	"exp",
	"log",
	"log10",
	"sin",
	"cos",
	"tan",
	"arcsin",
	"arccos",
	"arctan",
	"arctan2",
	"asin",
	"acos",
	"atan",
	"atan2",
	"sinh",
	"cosh",
	"tanh",
}

// propagating operators yield a float when either operand is one.
var propagating = []string{"+", "-", "*", "/", "%", "**"}

// CouldBeFloat reports whether n could evaluate to a float.
func CouldBeFloat(n *pytree.Node) bool {
	return CouldBeFloatView(augment.Of(n))
}

// CouldBeFloatView is CouldBeFloat for an already classified expression.
func CouldBeFloatView(v augment.View) bool {
	stack := []augment.View{v}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch cur := cur.(type) {
		case *augment.BinaryOp:
			if slices.Contains(propagating, cur.Operator.Value) {
				stack = append(stack, cur.Left, cur.Right)
			}
		case *augment.Attribute:
			if slices.Contains(FloatConstants, cur.Expr().Text()) {
				return true
			}
		case *augment.Call:
			if slices.Contains(FloatFunctions, calleeName(cur.Callee)) {
				return true
			}
		case *augment.Passthrough:
			if e := cur.Expr(); e.IsLeaf() && IsFloatLiteral(e.Node) {
				return true
			}
		}
	}
	return false
}

// IsFloatLiteral reports whether n is a number leaf spelled with a decimal
// point or an exponent.
func IsFloatLiteral(n *pytree.Node) bool {
	if n.Type != pytree.Number {
		return false
	}
	v := n.Value
	if strings.Contains(v, ".") {
		return true
	}
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		return false
	}
	return strings.ContainsAny(v, "eE")
}

func calleeName(v augment.View) string {
	switch v := v.(type) {
	case *augment.Attribute:
		return v.Name.Value
	case *augment.Passthrough:
		if e := v.Expr(); e.IsLeaf() && e.Node.Type == pytree.Name {
			return e.Node.Value
		}
	}
	return ""
}
