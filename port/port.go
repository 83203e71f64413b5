// Package port drives the conversion of Python 2 files: it runs the
// preprocess passes, futurize and the postprocess passes over each file,
// skipping files that were already ported.
package port

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gnolang/py3port/internal"
	"github.com/gnolang/py3port/internal/idioms"
	"github.com/gnolang/py3port/internal/prompt"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

// Options configures a Porter.
type Options struct {
	Config  Config
	Display idioms.Display
	Chooser prompt.Chooser
	// Converter runs between the stages. When nil, futurize is used unless
	// the configuration disables it.
	Converter Converter
	Logger    *zap.Logger
}

// Porter ports files in place, one at a time.
type Porter struct {
	engine    *internal.Engine
	converter Converter
	config    Config
	display   idioms.Display
	chooser   prompt.Chooser
	logger    *zap.Logger
}

func New(opts Options) *Porter {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	converter := opts.Converter
	if converter == nil && !opts.Config.Futurize.Disabled {
		converter = NewFuturizer(opts.Config.Futurize)
	}
	return &Porter{
		engine:    NewEngine(opts.Config, logger),
		converter: converter,
		config:    opts.Config,
		display:   opts.Display,
		chooser:   opts.Chooser,
		logger:    logger,
	}
}

// NewEngine builds the pass engine described by c.
func NewEngine(c Config, logger *zap.Logger) *internal.Engine {
	return internal.NewEngine(internal.Options{
		Disabled: c.Disabled(),
		Grammar:  c.Grammar(),
		Logger:   logger,
	})
}

// AlreadyProcessed reports whether src carries the compatibility block
// written by a previous run.
func AlreadyProcessed(src []byte) bool {
	return idioms.HasCompatBlock(string(src))
}

// Result describes what happened to one file.
type Result struct {
	Filename string
	// Skipped is set for files already ported and files with no code.
	Skipped bool
	Changes []tt.Change
}

// ProcessFile ports the file at path in place.
func (p *Porter) ProcessFile(ctx context.Context, path string) (Result, error) {
	res := Result{Filename: path}

	src, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("error reading %s: %w", path, err)
	}
	if AlreadyProcessed(src) {
		p.logger.Info("already processed, skipping", zap.String("file", path))
		res.Skipped = true
		return res, nil
	}
	tree, err := pytree.ParseGrammar(string(src), p.config.Grammar())
	if err != nil {
		return res, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if tree.Children[0].Type == pytree.EndMarker {
		p.logger.Debug("no code, skipping", zap.String("file", path))
		res.Skipped = true
		return res, nil
	}

	env := &idioms.Env{
		Filename:     path,
		Display:      p.display,
		Chooser:      p.chooser,
		Logger:       p.logger,
		ContextLines: p.config.ContextLines,
	}

	p.logger.Info("preprocessing", zap.String("file", path))
	if _, err := p.engine.Run(path, idioms.Preprocess, env); err != nil {
		return res, err
	}

	if p.converter != nil {
		p.logger.Info("running futurize", zap.String("file", path))
		if err := p.converter.Convert(ctx, path); err != nil {
			return res, fmt.Errorf("futurize: %w", err)
		}
	}

	p.logger.Info("postprocessing", zap.String("file", path))
	if _, err := p.engine.Run(path, idioms.Postprocess, env); err != nil {
		return res, err
	}

	if p.config.Verify {
		out, err := os.ReadFile(path)
		if err != nil {
			return res, fmt.Errorf("error reading %s: %w", path, err)
		}
		if err := Verify(ctx, out); err != nil {
			return res, fmt.Errorf("%s: %w", path, err)
		}
	}

	res.Changes = env.Changes()
	return res, nil
}

// ProcessPaths ports every Python file found under paths, in order. It
// stops at the first failure: a closed prompt or a failing futurize would
// fail the remaining files the same way.
func (p *Porter) ProcessPaths(ctx context.Context, paths []string) ([]Result, error) {
	files, err := Discover(paths)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := p.ProcessFile(ctx, file)
		if err != nil {
			p.logger.Error("error processing file", zap.String("file", file), zap.Error(err))
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
