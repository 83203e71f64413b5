package idioms

import (
	"github.com/gnolang/py3port/formatter"
	"github.com/gnolang/py3port/internal/augment"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

// viewNames maps dict accessors to the view method futurize understands.
var viewNames = map[string]string{
	"items":      "viewitems",
	"iteritems":  "viewitems",
	"keys":       "viewkeys",
	"iterkeys":   "viewkeys",
	"values":     "viewvalues",
	"itervalues": "viewvalues",
}

// IterViewPass renames dict accessors iterated over by for loops and
// comprehensions: `for k, v in d.iteritems()` becomes `for k, v in d.viewitems()`.
type IterViewPass struct{}

func NewIterViewPass() Pass {
	return &IterViewPass{}
}

func (p *IterViewPass) Name() string {
	return "iterview"
}

func (p *IterViewPass) Stage() Stage {
	return Preprocess
}

func (p *IterViewPass) Apply(tree *pytree.Node, env *Env) error {
	for n := range pytree.Walk(tree) {
		if n.Type != pytree.ForStmt && n.Type != pytree.CompFor {
			continue
		}
		iterable := n.Children[3]

		call, ok := augment.Of(iterable).(*augment.Call)
		if !ok {
			continue
		}
		attr, ok := call.Callee.(*augment.Attribute)
		if !ok {
			continue
		}
		view, ok := viewNames[attr.Name.Value]
		if !ok || env.ignored(p.Name(), attr.Name) {
			continue
		}

		env.record(p.Name(), attr.Name, tt.SeverityInfo, "iterate over a dict view", view)
		if env.DryRun {
			continue
		}
		attr.Name.Value = view

		env.context(p.Name(), n, 4, formatter.Styles{
			attr.Name: formatter.StyleTarget,
			iterable:  formatter.StyleScope,
		})
	}
	return nil
}
