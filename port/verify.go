package port

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrUnparsable is returned when rewritten output no longer parses.
var ErrUnparsable = errors.New("rewritten source does not parse")

// Verify parses src with tree-sitter's Python grammar and fails on the
// first syntax error it finds. The grammar is independent of the one the
// passes rewrite with, so it catches rewrites that broke the file.
func Verify(ctx context.Context, src []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("error verifying: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	if bad := firstError(root); bad != nil {
		p := bad.StartPoint()
		return fmt.Errorf("%w: line %d col %d", ErrUnparsable, p.Row+1, p.Column)
	}
	return ErrUnparsable
}

// firstError returns the first ERROR or missing node in document order.
func firstError(n *sitter.Node) *sitter.Node {
	stack := []*sitter.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Type() == "ERROR" || cur.IsMissing() {
			return cur
		}
		for i := int(cur.ChildCount()) - 1; i >= 0; i-- {
			if c := cur.Child(i); c != nil && c.HasError() {
				stack = append(stack, c)
			}
		}
	}
	return nil
}
