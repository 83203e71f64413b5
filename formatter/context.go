package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/gnolang/py3port/internal/pytree"
)

// Style selects how the leaves under a node are drawn in a context window.
type Style int

const (
	StylePlain Style = iota
	// StyleTarget marks the node a pass is about to rewrite or ask about.
	StyleTarget
	// StyleScope marks the expression around the target.
	StyleScope
)

var contextStyles = map[Style]*color.Color{
	StylePlain:  color.New(color.FgWhite),
	StyleTarget: color.New(color.FgRed),
	StyleScope:  color.New(color.FgHiWhite, color.Bold),
}

var (
	titleStyle  = color.New(color.Bold)
	noticeStyle = color.New(color.Bold)
)

// Styles maps nodes to styles. A leaf takes the style of its nearest
// ancestor (itself included) present in the map.
type Styles map[*pytree.Node]Style

func (s Styles) of(leaf *pytree.Node) Style {
	for n := leaf; n != nil; n = n.Parent {
		if style, ok := s[n]; ok {
			return style
		}
	}
	return StylePlain
}

// ContextPrinter renders source windows around nodes. It never touches
// the tree.
type ContextPrinter struct {
	out io.Writer
	tty bool
}

func NewContextPrinter(out io.Writer) *ContextPrinter {
	p := &ContextPrinter{out: out}
	if f, ok := out.(interface{ Fd() uintptr }); ok {
		p.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

// Clear wipes the screen when writing to a terminal.
func (p *ContextPrinter) Clear() {
	if p.tty {
		fmt.Fprint(p.out, "\033[H\033[2J")
	}
}

// Notice prints a one-line message followed by a blank line.
func (p *ContextPrinter) Notice(msg string) {
	noticeStyle.Fprintln(p.out, msg)
	fmt.Fprintln(p.out)
}

type placedLeaf struct {
	leaf *pytree.Node
	line int
}

// Context prints up to lines lines before and after the line node starts
// on, under a title naming filename and that line.
func (p *ContextPrinter) Context(filename string, node *pytree.Node, lines int, styles Styles) {
	first := node.FirstLeaf()
	if first == nil {
		return
	}

	var leaves []placedLeaf
	target := -1
	line := 1
	for leaf := range pytree.Leaves(node.Root()) {
		line += strings.Count(leaf.Prefix, "\n")
		if leaf == first {
			target = len(leaves)
		}
		leaves = append(leaves, placedLeaf{leaf: leaf, line: line})
		line += strings.Count(leaf.Value, "\n")
	}
	if target < 0 {
		return
	}

	lineno := leaves[target].line
	startLine := max(0, lineno-lines)
	i := max(target-1, 0)
	for i > 0 && leaves[i].line > startLine {
		i--
	}

	titleStyle.Fprintf(p.out, "==== %s : %d ====\n", filename, lineno)
	for ; i < len(leaves); i++ {
		pl := leaves[i]
		if pl.leaf.Type == pytree.EndMarker || pl.line >= lineno+lines {
			break
		}
		contextStyles[styles.of(pl.leaf)].Fprint(p.out, pl.leaf.Prefix+pl.leaf.Value)
	}
	fmt.Fprintln(p.out)
}
