package idioms

import (
	"github.com/gnolang/py3port/internal/augment"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

// numpyInt replaces the builtin int where numpy expects a dtype. Once the
// builtins shim is imported, int is no longer a type numpy recognises.
const numpyInt = "np.int"

// NumpyIntPass rewrites `dtype=int` and `.astype(int)` to use np.int.
type NumpyIntPass struct{}

func NewNumpyIntPass() Pass {
	return &NumpyIntPass{}
}

func (p *NumpyIntPass) Name() string {
	return "numpy-int"
}

func (p *NumpyIntPass) Stage() Stage {
	return Postprocess
}

func (p *NumpyIntPass) Apply(tree *pytree.Node, env *Env) error {
	for n := range pytree.Walk(tree) {
		if !n.Is(pytree.Name, "int") || env.ignored(p.Name(), n) {
			continue
		}

		var msg string
		switch {
		case isDtypeValue(n):
			msg = "builtin int passed as numpy dtype"
		case isAstypeArg(n):
			msg = "builtin int passed to astype"
		default:
			continue
		}

		env.record(p.Name(), n, tt.SeverityInfo, msg, numpyInt)
		if env.DryRun {
			continue
		}
		n.Value = numpyInt
	}
	return nil
}

// isDtypeValue matches the value of a dtype= keyword argument.
func isDtypeValue(n *pytree.Node) bool {
	arg := n.Parent
	if arg == nil || arg.Type != pytree.Argument || len(arg.Children) != 3 {
		return false
	}
	return arg.Children[0].Is(pytree.Name, "dtype") && arg.Children[1].IsOperator("=") && arg.Children[2] == n
}

// isAstypeArg matches the sole argument of a call to a method named astype.
func isAstypeArg(n *pytree.Node) bool {
	trailer := n.Parent
	if trailer == nil || trailer.Type != pytree.Trailer || len(trailer.Children) != 3 ||
		!trailer.Children[0].IsOperator("(") || trailer.Children[1] != n {
		return false
	}
	power := trailer.Parent
	if power == nil || power.Type != pytree.Power {
		return false
	}

	// classify the chain up to and including this call
	chain := augment.Real(power)
	if idx := trailer.Index(); idx < len(power.Children)-1 {
		chain = augment.Expr{Composite: &pytree.Composite{
			Type:     pytree.Power,
			Children: power.Children[:idx+1],
			Parent:   power.Parent,
		}}
	}
	call, ok := augment.Augment(chain).(*augment.Call)
	if !ok {
		return false
	}
	attr, ok := call.Callee.(*augment.Attribute)
	return ok && attr.Name.Value == "astype"
}
