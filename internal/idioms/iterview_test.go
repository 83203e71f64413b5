package idioms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterViewPass(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"iteritems", "for k, v in d.iteritems():\n    pass\n", "for k, v in d.viewitems():\n    pass\n"},
		{"keys", "for k in d.keys():\n    pass\n", "for k in d.viewkeys():\n    pass\n"},
		{"list comprehension", "x = [v for v in d.values()]\n", "x = [v for v in d.viewvalues()]\n"},
		{"dict comprehension", "x = {k: v for k, v in d.iteritems()}\n", "x = {k: v for k, v in d.viewitems()}\n"},
		{"generator argument", "s = sum(v for v in d.itervalues())\n", "s = sum(v for v in d.viewvalues())\n"},
		{"nested receiver", "for k in self.opts.iterkeys():\n    pass\n", "for k in self.opts.viewkeys():\n    pass\n"},
		{"wrapped", "for k in sorted(d.items()):\n    pass\n", "for k in sorted(d.items()):\n    pass\n"},
		{"attribute only", "for k in d.items:\n    pass\n", "for k in d.items:\n    pass\n"},
		{"other method", "for k in d.get(x):\n    pass\n", "for k in d.get(x):\n    pass\n"},
		{"already a view", "for k in d.viewkeys():\n    pass\n", "for k in d.viewkeys():\n    pass\n"},
		{"outside a loop", "x = d.items()\n", "x = d.items()\n"},
		{"ignored", "for k in d.keys():  # py3port: ignore=iterview\n    pass\n", "for k in d.keys():  # py3port: ignore=iterview\n    pass\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := apply(t, NewIterViewPass(), tc.src, &Env{})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIterViewPassDisplay(t *testing.T) {
	t.Parallel()
	d := &fakeDisplay{}
	apply(t, NewIterViewPass(), "for k in d.keys():\n    pass\n", &Env{Display: d})

	require.Len(t, d.contexts, 1)
	assert.Equal(t, "for k in d.viewkeys():\n    pass\n", d.contexts[0])
	assert.Equal(t, []int{4}, d.lines)
}

func TestIterViewPassDryRun(t *testing.T) {
	t.Parallel()
	env := &Env{DryRun: true}
	got := apply(t, NewIterViewPass(), "for k in d.iteritems():\n    pass\n", env)
	assert.Equal(t, "for k in d.iteritems():\n    pass\n", got)

	changes := env.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, "iteritems", changes[0].Before)
	assert.Equal(t, "viewitems", changes[0].After)
}
