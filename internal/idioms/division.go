package idioms

import (
	"fmt"

	"github.com/gnolang/py3port/formatter"
	"github.com/gnolang/py3port/internal/infer"
	"github.com/gnolang/py3port/internal/prompt"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

var divisionOptions = []prompt.Option{
	{Key: "F", Help: "Floating point division"},
	{Key: "I", Help: "Integer division using the floor division operator"},
}

// DivisionPass asks, for every `/` whose operands are not obviously
// floats, whether floor division was meant, and rewrites it to `//` if so.
type DivisionPass struct{}

func NewDivisionPass() Pass {
	return &DivisionPass{}
}

func (p *DivisionPass) Name() string {
	return "division"
}

func (p *DivisionPass) Stage() Stage {
	return Preprocess
}

func (p *DivisionPass) Apply(tree *pytree.Node, env *Env) error {
	for n := range pytree.Walk(tree) {
		if !n.IsOperator("/") || env.ignored(p.Name(), n) {
			continue
		}

		env.clear()
		env.context(p.Name(), n, 8, formatter.Styles{
			n:        formatter.StyleTarget,
			n.Parent: formatter.StyleScope,
		})

		if infer.CouldBeFloat(n.PrevSibling()) || infer.CouldBeFloat(n.NextSibling()) {
			env.notice("Found trivial float division")
			continue
		}

		if env.DryRun {
			env.record(p.Name(), n.Parent, tt.SeverityWarning, "ambiguous division: true or floor division?", "")
			continue
		}

		choice, err := env.Chooser.Choose("Division type?", divisionOptions)
		if err != nil {
			return fmt.Errorf("division at line %d: %w", n.StartPos().Line, err)
		}
		if choice != "I" {
			continue
		}
		env.record(p.Name(), n, tt.SeverityInfo, "floor division", "//")
		n.Value = "//"
	}
	return nil
}
