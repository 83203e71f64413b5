package idioms

import (
	"slices"
	"strings"

	"github.com/gnolang/py3port/formatter"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

// dateCallees are calls whose octal looking arguments are zero padded
// decimals: datetime(2020, 01, 02).
var dateCallees = []string{"datetime", "date"}

// OctalPass finds legacy octal literals. Inside date constructors every
// leading zero is dropped, not just the first, since 07 is no valid Python 3
// literal either. Elsewhere they are left for manual review, and any other
// number starting with 0 (0x1F, 0e5, 0j) is shown for review too.
type OctalPass struct{}

func NewOctalPass() Pass {
	return &OctalPass{}
}

func (p *OctalPass) Name() string {
	return "octal"
}

func (p *OctalPass) Stage() Stage {
	return Preprocess
}

func (p *OctalPass) Apply(tree *pytree.Node, env *Env) error {
	for n := range pytree.Walk(tree) {
		if n.Type != pytree.Number || !hasLeadingZero(n.Value) || env.ignored(p.Name(), n) {
			continue
		}

		env.context(p.Name(), n, 2, formatter.Styles{
			n:        formatter.StyleTarget,
			n.Parent: formatter.StyleScope,
		})
		if !isLegacyOctal(n.Value) {
			continue
		}

		callee := enclosingCallee(n)
		if callee == nil || !slices.Contains(dateCallees, callee.Value) {
			env.record(p.Name(), n, tt.SeverityWarning, "octal literal: check whether a decimal was meant", "")
			continue
		}

		fixed := stripLeadingZeros(n.Value)
		env.record(p.Name(), n, tt.SeverityInfo, "zero padded number in date constructor", fixed)
		if env.DryRun {
			continue
		}
		env.notice("Correcting octal number within datetime")
		n.Value = fixed
	}
	return nil
}

// hasLeadingZero matches the numbers worth a look: 0755, 0x1F, 0e5, but
// not 0 or 0.5.
func hasLeadingZero(v string) bool {
	return len(v) > 1 && v[0] == '0' && !strings.Contains(v, ".")
}

// isLegacyOctal matches Python 2 octal literals such as 0755 or 012L.
func isLegacyOctal(v string) bool {
	body := strings.TrimRight(v, "lL")
	if len(body) < 2 || body[0] != '0' {
		return false
	}
	for _, c := range body {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// stripLeadingZeros turns 007 into 7 and 00 into 0, keeping any L suffix.
func stripLeadingZeros(v string) string {
	body := strings.TrimRight(v, "lL")
	digits := strings.TrimLeft(body, "0")
	if digits == "" {
		digits = "0"
	}
	return digits + v[len(body):]
}

// enclosingCallee returns the name leaf of the call n is a positional or
// keyword argument of, or nil.
func enclosingCallee(n *pytree.Node) *pytree.Node {
	cur := n
	if p := cur.Parent; p != nil && p.Type == pytree.Argument && len(p.Children) == 3 &&
		p.Children[1].IsOperator("=") && p.Children[2] == cur {
		cur = p
	}
	if p := cur.Parent; p != nil && p.Type == pytree.Arglist {
		cur = p
	}
	trailer := cur.Parent
	if trailer == nil || trailer.Type != pytree.Trailer || !trailer.Children[0].IsOperator("(") {
		return nil
	}

	callee := trailer.PrevSibling()
	switch {
	case callee == nil:
		return nil
	case callee.Type == pytree.Name:
		return callee
	case callee.Type == pytree.Trailer && callee.Children[0].IsOperator("."):
		return callee.Children[1]
	}
	return nil
}
