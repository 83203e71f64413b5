package idioms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInKeysPass(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"if", "if x in d.keys():\n    pass\n", "if x in d:\n    pass\n"},
		{"not in", "y = k not in self.cache.keys()\n", "y = k not in self.cache\n"},
		{"parenthesized", "y = x in (d.keys())\n", "y = x in d\n"},
		{"call receiver", "y = x in load().keys()\n", "y = x in load()\n"},
		{"comprehension", "y = [k for k in a if k in d.keys()]\n", "y = [k for k in a if k in d]\n"},
		{"chained comparison", "y = a < b in d.keys()\n", "y = a < b in d\n"},
		{"arguments", "y = x in d.keys(1)\n", "y = x in d.keys(1)\n"},
		{"values", "y = x in d.values()\n", "y = x in d.values()\n"},
		{"no call", "y = x in d.keys\n", "y = x in d.keys\n"},
		{"bare function", "y = x in keys()\n", "y = x in keys()\n"},
		{"equality", "y = x == d.keys()\n", "y = x == d.keys()\n"},
		{"ignored", "y = x in d.keys()  # py3port: ignore\n", "y = x in d.keys()  # py3port: ignore\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := apply(t, NewInKeysPass(), tc.src, &Env{})
			assert.Equal(t, tc.want, got)

			again := apply(t, NewInKeysPass(), got, &Env{})
			assert.Equal(t, got, again)
		})
	}
}

func TestInKeysPassNotice(t *testing.T) {
	t.Parallel()
	d := &fakeDisplay{}
	apply(t, NewInKeysPass(), "a = x in d.keys()\nb = y in e.keys()\n", &Env{Display: d})
	assert.Equal(t, []string{"Fixing 'a in x.keys()' antipattern."}, d.notices)

	d = &fakeDisplay{}
	apply(t, NewInKeysPass(), "a = x in d\n", &Env{Display: d})
	assert.Empty(t, d.notices)
}

func TestInKeysPassDryRun(t *testing.T) {
	t.Parallel()
	env := &Env{DryRun: true}
	got := apply(t, NewInKeysPass(), "y = x in self.d.keys()\n", env)
	assert.Equal(t, "y = x in self.d.keys()\n", got)

	changes := env.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "self.d.keys()", changes[0].Before)
	assert.Equal(t, "self.d", changes[0].After)
}
