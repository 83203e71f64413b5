package idioms

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

// CompatMarker opens the compatibility import block. Files containing it
// at the start of a line have already been ported.
const CompatMarker = "# === Start Python 2/3 compatibility"

// CompatBlock is inserted at the top of every ported file.
const CompatBlock = CompatMarker + `
from __future__ import (absolute_import, division,
                        print_function, unicode_literals)
from future.builtins import *  # noqa  pylint: disable=W0401, W0614
from future.builtins.disabled import *  # noqa  pylint: disable=W0401, W0614
# === End Python 2/3 compatibility

`

var codingComment = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*[-_.a-zA-Z0-9]+`)

// shimModules are the modules whose imports the block replaces.
var shimModules = []string{"__future__", "builtins"}

// HasCompatBlock reports whether src already carries the compatibility block.
func HasCompatBlock(src string) bool {
	return strings.HasPrefix(src, CompatMarker) || strings.Contains(src, "\n"+CompatMarker)
}

// HeaderPass replaces top level __future__ and builtins imports with the
// compatibility block, placed after the module docstring if there is one.
type HeaderPass struct{}

func NewHeaderPass() Pass {
	return &HeaderPass{}
}

func (p *HeaderPass) Name() string {
	return "header"
}

func (p *HeaderPass) Stage() Stage {
	return Postprocess
}

func (p *HeaderPass) Apply(tree *pytree.Node, env *Env) error {
	if tree.Type != pytree.FileInput {
		return fmt.Errorf("header: %w (got %s)", ErrNotFileRoot, tree.Type)
	}
	if HasCompatBlock(tree.Code()) {
		return nil
	}

	block, err := pytree.Parse(CompatBlock)
	if err != nil {
		return fmt.Errorf("parsing compatibility block: %w", err)
	}

	env.record(p.Name(), tree.Children[0], tt.SeverityInfo, "add compatibility imports", CompatMarker)
	if env.DryRun {
		return nil
	}

	removed := false
	var lead string
	for i := 0; i < len(tree.Children); {
		stmt := tree.Children[i]
		prefix := stmt.FirstLeaf().Prefix
		if !removeShimImports(stmt) {
			i++
			continue
		}
		if !removed {
			lead = prefix
			removed = true
		}
		tree.RemoveChild(i)
	}

	pos := 0
	if hasDocstring(tree) {
		pos = 1
	}
	if pos == 0 {
		first := tree.Children[0].FirstLeaf()
		var head string
		head, first.Prefix = splitFileHeader(first.Prefix)
		lead = head + lead
	}

	end := block.Children[len(block.Children)-1]
	stmts := slices.Clone(block.Children[:len(block.Children)-1])
	for k, s := range stmts {
		tree.InsertChild(pos+k, s)
	}
	first := stmts[0].FirstLeaf()
	first.Prefix = lead + first.Prefix
	next := tree.Children[pos+len(stmts)].FirstLeaf()
	next.Prefix = end.Prefix + next.Prefix

	env.notice("Adding imports.")
	env.logger().Debug("inserted compatibility block")
	return nil
}

// removeShimImports strips shim imports from a top level statement. It
// reports whether the whole statement should go; a simple statement that
// keeps other small statements is rewritten in place.
func removeShimImports(stmt *pytree.Node) bool {
	if isShimImport(stmt) {
		return true
	}
	if stmt.Type != pytree.SimpleStmt {
		return false
	}

	last := len(stmt.Children) - 1
	var kept []*pytree.Node
	dropped := false
	for _, c := range stmt.Children[:last] {
		switch {
		case c.IsOperator(";"):
		case isShimImport(c):
			dropped = true
		default:
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return true
	}
	if !dropped {
		return false
	}

	prefix := stmt.FirstLeaf().Prefix
	children := []*pytree.Node{kept[0]}
	for _, c := range kept[1:] {
		children = append(children, pytree.NewLeaf(pytree.Operator, ";", ""), c)
	}
	children = append(children, stmt.Children[last])
	for _, c := range stmt.Children {
		c.Parent = nil
	}
	stmt.Children = children
	for _, c := range children {
		c.Parent = stmt
	}
	stmt.FirstLeaf().Prefix = prefix
	return false
}

// isShimImport matches `from __future__ import ...` and `from builtins import ...`.
func isShimImport(n *pytree.Node) bool {
	if n.Type != pytree.ImportFrom || len(n.Children) < 4 {
		return false
	}
	module := n.Children[1]
	return module.Type == pytree.Name && slices.Contains(shimModules, module.Value)
}

func hasDocstring(tree *pytree.Node) bool {
	first := tree.Children[0]
	if first.Type != pytree.SimpleStmt {
		return false
	}
	t := first.Children[0].Type
	return t == pytree.String || t == pytree.Strings
}

// splitFileHeader cuts a shebang line and an encoding declaration, both of
// which must stay on the first two lines of a file, off the front of prefix.
func splitFileHeader(prefix string) (head, rest string) {
	rest = prefix
	for i := 0; i < 2; i++ {
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			break
		}
		line := rest[:nl]
		if !(i == 0 && strings.HasPrefix(line, "#!")) && !codingComment.MatchString(line) {
			break
		}
		head, rest = head+rest[:nl+1], rest[nl+1:]
	}
	return head, rest
}
