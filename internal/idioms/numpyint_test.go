package idioms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumpyIntPass(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"dtype", "a = np.zeros(3, dtype=int)\n", "a = np.zeros(3, dtype=np.int)\n"},
		{"astype", "b = a.astype(int)\n", "b = a.astype(np.int)\n"},
		{"astype in chain", "b = a.astype(int).sum()\n", "b = a.astype(np.int).sum()\n"},
		{"astype on call", "b = load(p).astype(int)\n", "b = load(p).astype(np.int)\n"},
		{"astype with options", "b = a.astype(int, copy=False)\n", "b = a.astype(int, copy=False)\n"},
		{"conversion", "n = int(x)\n", "n = int(x)\n"},
		{"other call", "b = f(int)\n", "b = f(int)\n"},
		{"bare astype", "b = astype(int)\n", "b = astype(int)\n"},
		{"other type", "b = a.astype(float)\n", "b = a.astype(float)\n"},
		{"assignment", "dtype = int\n", "dtype = int\n"},
		{"other keyword", "f(kind=int)\n", "f(kind=int)\n"},
		{"ignored", "b = a.astype(int)  # py3port: ignore=numpy-int\n", "b = a.astype(int)  # py3port: ignore=numpy-int\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := apply(t, NewNumpyIntPass(), tc.src, &Env{})
			assert.Equal(t, tc.want, got)

			again := apply(t, NewNumpyIntPass(), got, &Env{})
			assert.Equal(t, got, again)
		})
	}
}

func TestNumpyIntPassDryRun(t *testing.T) {
	t.Parallel()
	env := &Env{DryRun: true}
	got := apply(t, NewNumpyIntPass(), "a = np.ones(2, dtype=int)\n", env)
	assert.Equal(t, "a = np.ones(2, dtype=int)\n", got)

	changes := env.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "int", changes[0].Before)
	assert.Equal(t, "np.int", changes[0].After)
}
