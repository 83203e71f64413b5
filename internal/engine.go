package internal

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gnolang/py3port/internal/idioms"
	"github.com/gnolang/py3port/internal/nolint"
	"github.com/gnolang/py3port/internal/pytree"
)

// Options configures an Engine.
type Options struct {
	// Disabled lists passes that never run.
	Disabled map[string]bool
	Grammar  pytree.Grammar
	Logger   *zap.Logger
}

// Engine runs the idiom passes of a pipeline stage over Python sources.
type Engine struct {
	passes  map[idioms.Stage][]idioms.Pass
	grammar pytree.Grammar
	logger  *zap.Logger
}

// NewEngine creates an engine running every registered pass not disabled
// in opts.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		passes: map[idioms.Stage][]idioms.Pass{
			idioms.Preprocess:  idioms.ForStage(idioms.Preprocess, opts.Disabled),
			idioms.Postprocess: idioms.ForStage(idioms.Postprocess, opts.Disabled),
		},
		grammar: opts.Grammar,
		logger:  logger,
	}
}

// Passes returns the names of the passes run in stage, in order.
func (e *Engine) Passes(stage idioms.Stage) []string {
	names := make([]string, 0, len(e.passes[stage]))
	for _, p := range e.passes[stage] {
		names = append(names, p.Name())
	}
	return names
}

// RunSource runs the passes of stage over source and returns the resulting
// text. A file holding nothing but whitespace and comments is returned
// untouched.
func (e *Engine) RunSource(source []byte, stage idioms.Stage, env *idioms.Env) ([]byte, error) {
	tree, err := pytree.ParseGrammar(string(source), e.grammar)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", env.Filename, err)
	}
	if tree.Children[0].Type == pytree.EndMarker {
		e.logger.Debug("skipping empty file", zap.String("file", env.Filename))
		return source, nil
	}

	if env.Logger == nil {
		env.Logger = e.logger
	}
	env.Nolint = nolint.ParseComments(tree)

	for _, p := range e.passes[stage] {
		e.logger.Debug("running pass",
			zap.String("file", env.Filename),
			zap.String("stage", stage.String()),
			zap.String("pass", p.Name()),
		)
		if err := p.Apply(tree, env); err != nil {
			return nil, fmt.Errorf("%s pass on %s: %w", p.Name(), env.Filename, err)
		}
	}
	return []byte(tree.Code()), nil
}

// Run runs the passes of stage over the file at filename and writes the
// file back if they rewrote it. It reports whether the file changed.
func (e *Engine) Run(filename string, stage idioms.Stage, env *idioms.Env) (bool, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return false, fmt.Errorf("error accessing %s: %w", filename, err)
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return false, fmt.Errorf("error reading %s: %w", filename, err)
	}

	env.Filename = filename
	out, err := e.RunSource(source, stage, env)
	if err != nil {
		return false, err
	}
	if env.DryRun || bytes.Equal(out, source) {
		return false, nil
	}

	if err := os.WriteFile(filename, out, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("error writing %s: %w", filename, err)
	}
	e.logger.Info("rewrote file", zap.String("file", filename), zap.String("stage", stage.String()))
	return true, nil
}
