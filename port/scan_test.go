package port

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/py3port/internal"
	"github.com/gnolang/py3port/internal/idioms"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

func newTestScanner() *Scanner {
	return &Scanner{Engine: NewEngine(DefaultConfig(), nil)}
}

func TestScanFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := "x = a / b\nos.chmod(p, 0755)\n"
	path := writeSource(t, dir, "mod.py", src)

	changes, err := newTestScanner().ScanFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, readSource(t, path))

	type summary struct {
		Pass     string
		Line     int
		Severity tt.Severity
	}
	var got []summary
	for _, c := range changes {
		got = append(got, summary{c.Pass, c.Start.Line, c.Severity})
	}
	assert.Equal(t, []summary{
		{"division", 1, tt.SeverityWarning},
		{"octal", 2, tt.SeverityWarning},
		{"header", 1, tt.SeverityInfo},
	}, got)

	ported := writeSource(t, dir, "done.py", idioms.CompatBlock+"x = a / b\n")
	changes, err = newTestScanner().ScanFile(ported)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestScan(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	b := writeSource(t, dir, "b.py", "y = 1 / n\n")
	a := writeSource(t, dir, "a.py", "x = 1\nif k in d.keys():\n    pass\n")
	bad := writeSource(t, dir, "bad.py", "def f(:\n")

	var progress bytes.Buffer
	s := newTestScanner()
	s.Progress = &progress

	changes, err := s.Scan(context.Background(), []string{b, bad, a})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pytree.ErrSyntax))
	assert.Contains(t, err.Error(), "bad.py")

	var where []string
	for _, c := range changes {
		where = append(where, filepath.Base(c.Filename)+":"+c.Pass)
	}
	assert.Equal(t, []string{"a.py:header", "a.py:inkeys", "b.py:header", "b.py:division"}, where)
	assert.NotZero(t, progress.Len())
}

func TestScanCache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeSource(t, dir, "a.py", "x = 0644\n")

	cache, err := internal.NewCache(filepath.Join(dir, ".cache"))
	require.NoError(t, err)
	s := newTestScanner()
	s.Cache = cache

	first, err := s.Scan(context.Background(), []string{path})
	require.NoError(t, err)
	require.NotEmpty(t, first)

	cached, ok := cache.Get(path)
	require.True(t, ok)
	assert.ElementsMatch(t, first, cached)

	second, err := s.Scan(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScanCanceled(t *testing.T) {
	t.Parallel()
	path := writeSource(t, t.TempDir(), "a.py", "x = 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestScanner().Scan(ctx, []string{path})
	assert.True(t, errors.Is(err, context.Canceled))
}
