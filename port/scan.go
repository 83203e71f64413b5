package port

import (
	"cmp"
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"slices"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/py3port/internal"
	"github.com/gnolang/py3port/internal/idioms"
	tt "github.com/gnolang/py3port/internal/types"
)

// Scanner reports what porting would change, without touching any file
// or asking any question.
type Scanner struct {
	Engine *internal.Engine
	// Cache, when set, is consulted before and filled after each file.
	Cache  *internal.Cache
	Logger *zap.Logger
	// Progress receives a progress bar when set.
	Progress io.Writer
}

// ScanFile returns the changes porting path would make. Files already
// ported report nothing.
func (s *Scanner) ScanFile(path string) ([]tt.Change, error) {
	if s.Cache != nil {
		if changes, ok := s.Cache.Get(path); ok {
			return changes, nil
		}
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var changes []tt.Change
	if !AlreadyProcessed(src) {
		env := &idioms.Env{Filename: path, Logger: s.logger(), DryRun: true}
		for _, stage := range []idioms.Stage{idioms.Preprocess, idioms.Postprocess} {
			if _, err := s.Engine.Run(path, stage, env); err != nil {
				return nil, err
			}
		}
		changes = env.Changes()
	}

	if s.Cache != nil {
		if err := s.Cache.Set(path, changes); err != nil {
			s.logger().Warn("error caching scan result", zap.String("file", path), zap.Error(err))
		}
	}
	return changes, nil
}

// Scan scans files concurrently. A file that fails does not stop the
// others; the failures are joined into the returned error. Changes are
// ordered by file and position.
func (s *Scanner) Scan(ctx context.Context, files []string) ([]tt.Change, error) {
	var bar *progressbar.ProgressBar
	if s.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(s.Progress),
			progressbar.OptionSetDescription("scanning"),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		changes []tt.Change
		errs    []error
	)
	sem := make(chan struct{}, runtime.NumCPU())

loop:
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		select {
		case <-ctx.Done():
			mu.Lock()
			errs = append(errs, ctx.Err())
			mu.Unlock()
			break loop
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			found, err := s.ScanFile(fp)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger().Error("error scanning file", zap.String("file", fp), zap.Error(err))
				errs = append(errs, err)
			} else {
				changes = append(changes, found...)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}(file)
	}
	wg.Wait()

	slices.SortStableFunc(changes, func(a, b tt.Change) int {
		return cmp.Or(
			cmp.Compare(a.Filename, b.Filename),
			cmp.Compare(a.Start.Line, b.Start.Line),
			cmp.Compare(a.Start.Column, b.Start.Column),
		)
	})
	return changes, errors.Join(errs...)
}

func (s *Scanner) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
