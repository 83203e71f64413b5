// Package idioms holds the rewrite passes that move Python 2 code towards
// code futurize can finish porting.
package idioms

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/gnolang/py3port/formatter"
	"github.com/gnolang/py3port/internal/nolint"
	"github.com/gnolang/py3port/internal/prompt"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

// ErrNotFileRoot is returned by whole-file passes given a subtree.
var ErrNotFileRoot = errors.New("node is not a file root")

// Stage says when a pass runs relative to futurize.
type Stage int

const (
	Preprocess Stage = iota
	Postprocess
)

func (s Stage) String() string {
	switch s {
	case Preprocess:
		return "preprocess"
	case Postprocess:
		return "postprocess"
	default:
		return "unknown"
	}
}

// Pass rewrites one idiom in place.
type Pass interface {
	// Name returns the name used in configuration and ignore directives.
	Name() string
	Stage() Stage
	// Apply runs the pass over a parsed file.
	Apply(tree *pytree.Node, env *Env) error
}

// Display shows the user what a pass is looking at.
type Display interface {
	Clear()
	Context(filename string, node *pytree.Node, lines int, styles formatter.Styles)
	Notice(msg string)
}

// Env is what a pass may use besides the tree.
type Env struct {
	Filename string
	Display  Display
	Chooser  prompt.Chooser
	Logger   *zap.Logger
	Nolint   *nolint.Manager

	// DryRun makes passes record changes without applying them or asking.
	DryRun bool

	// ContextLines overrides the default context window of a pass.
	ContextLines map[string]int

	changes []tt.Change
}

// Changes returns what the passes run with e recorded so far.
func (e *Env) Changes() []tt.Change {
	return e.changes
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Env) ignored(pass string, n *pytree.Node) bool {
	return e.Nolint.IsNolint(n.StartPos().Line, pass)
}

func (e *Env) clear() {
	if e.Display != nil && !e.DryRun {
		e.Display.Clear()
	}
}

func (e *Env) context(pass string, n *pytree.Node, lines int, styles formatter.Styles) {
	if e.Display == nil || e.DryRun {
		return
	}
	if l, ok := e.ContextLines[pass]; ok {
		lines = l
	}
	e.Display.Context(e.Filename, n, lines, styles)
}

func (e *Env) notice(msg string) {
	if e.Display != nil && !e.DryRun {
		e.Display.Notice(msg)
	}
}

// record notes a change to n. It must be called before n is rewritten so
// the recorded positions refer to the original text.
func (e *Env) record(pass string, n *pytree.Node, severity tt.Severity, msg, after string) {
	c := tt.Change{
		Pass:     pass,
		Filename: e.Filename,
		Message:  msg,
		Before:   n.Text(),
		After:    after,
		Severity: severity,
		Start:    n.StartPos(),
		End:      n.EndPos(),
	}
	e.changes = append(e.changes, c)
	e.logger().Debug("idiom matched",
		zap.String("pass", pass),
		zap.String("file", e.Filename),
		zap.Int("line", c.Start.Line),
		zap.String("before", c.Before),
		zap.String("after", after),
		zap.Bool("dry_run", e.DryRun),
	)
}

type passConstructor func() Pass

var allPassConstructors = map[string]passConstructor{
	"division":  NewDivisionPass,
	"inkeys":    NewInKeysPass,
	"iterview":  NewIterViewPass,
	"octal":     NewOctalPass,
	"header":    NewHeaderPass,
	"numpy-int": NewNumpyIntPass,
}

// passOrder is the order passes run in within their stage.
var passOrder = []string{"division", "inkeys", "iterview", "octal", "header", "numpy-int"}

// Names lists every pass in run order.
func Names() []string {
	return slices.Clone(passOrder)
}

// New returns the pass registered under name.
func New(name string) (Pass, error) {
	ctor, ok := allPassConstructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown pass %q", name)
	}
	return ctor(), nil
}

// ForStage returns the passes of stage in run order, leaving out disabled ones.
func ForStage(stage Stage, disabled map[string]bool) []Pass {
	var passes []Pass
	for _, name := range passOrder {
		if disabled[name] {
			continue
		}
		p := allPassConstructors[name]()
		if p.Stage() == stage {
			passes = append(passes, p)
		}
	}
	return passes
}
