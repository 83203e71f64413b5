package port

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := writeSource(t, dir, "a.py", "")
	c := writeSource(t, dir, "sub/deeper/c.py", "")
	b := writeSource(t, dir, "b.txt", "")
	script := writeSource(t, dir, "bin/tool", "")
	writeSource(t, dir, ".venv/lib/site.py", "")
	writeSource(t, dir, "sub/module.pyc", "")

	files, err := Discover([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, files)

	files, err = Discover([]string{c, dir, a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, files)

	files, err = Discover([]string{b, script})
	require.NoError(t, err)
	assert.Equal(t, []string{b, script}, files)

	hidden := filepath.Join(dir, ".venv")
	files, err = Discover([]string{hidden})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(hidden, "lib", "site.py")}, files)

	_, err = Discover([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
