package idioms

import (
	"github.com/gnolang/py3port/internal/augment"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

// InKeysPass rewrites `a in d.keys()` to `a in d`.
type InKeysPass struct{}

func NewInKeysPass() Pass {
	return &InKeysPass{}
}

func (p *InKeysPass) Name() string {
	return "inkeys"
}

func (p *InKeysPass) Stage() Stage {
	return Preprocess
}

func (p *InKeysPass) Apply(tree *pytree.Node, env *Env) error {
	fixed := 0
	for n := range pytree.Walk(tree) {
		if n.Type != pytree.Comparison {
			continue
		}
		for i := 1; i+1 < len(n.Children); i += 2 {
			if !isMembership(n.Children[i]) {
				continue
			}
			target := n.Children[i+1]
			call, ok := keysCall(target)
			if !ok || env.ignored(p.Name(), target) {
				continue
			}

			// peel the call parentheses, then the .keys attribute
			receiver := augment.Trim(augment.Trim(call.Expr(), n), n)
			env.record(p.Name(), target, tt.SeverityInfo, "membership test on dict.keys()", receiver.Text())
			if env.DryRun {
				continue
			}

			repl := receiver.Materialize()
			if first, old := repl.FirstLeaf(), target.FirstLeaf(); first != old {
				first.Prefix = old.Prefix
			}
			n.SetChild(i+1, repl)
			fixed++
		}
	}
	if fixed > 0 {
		env.notice("Fixing 'a in x.keys()' antipattern.")
	}
	return nil
}

// isMembership reports whether op is `in` or `not in`.
func isMembership(op *pytree.Node) bool {
	if op.IsKeyword("in") {
		return true
	}
	return op.Type == pytree.CompOp && len(op.Children) == 2 && op.Children[1].IsKeyword("in")
}

// keysCall matches a zero argument call of an attribute named keys.
func keysCall(n *pytree.Node) (*augment.Call, bool) {
	call, ok := augment.Of(n).(*augment.Call)
	if !ok || len(call.Args) != 0 {
		return nil, false
	}
	attr, ok := call.Callee.(*augment.Attribute)
	if !ok || attr.Name.Value != "keys" {
		return nil, false
	}
	return call, true
}
