package idioms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/py3port/internal/prompt"
	"github.com/gnolang/py3port/internal/pytree"
	tt "github.com/gnolang/py3port/internal/types"
)

func TestDivisionPass(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     string
		answers []string
		want    string
		asked   int
	}{
		{
			name:    "floor",
			src:     "x = 7 / 2\n",
			answers: []string{"I"},
			want:    "x = 7 // 2\n",
			asked:   1,
		},
		{
			name:    "true division kept",
			src:     "x = 7 / 2\n",
			answers: []string{"F"},
			want:    "x = 7 / 2\n",
			asked:   1,
		},
		{
			name: "float literal",
			src:  "x = a / 2.0\n",
			want: "x = a / 2.0\n",
		},
		{
			name: "float call",
			src:  "x = float(a) / b\n",
			want: "x = float(a) / b\n",
		},
		{
			name: "float constant in operand",
			src:  "x = (2 * math.pi) / n\n",
			want: "x = (2 * math.pi) / n\n",
		},
		{
			name:    "chain asks per operator",
			src:     "x = a / b / c\n",
			answers: []string{"I", "F"},
			want:    "x = a // b / c\n",
			asked:   2,
		},
		{
			name:    "nested",
			src:     "def f(n):\n    return g(n / 2)\n",
			answers: []string{"I"},
			want:    "def f(n):\n    return g(n // 2)\n",
			asked:   1,
		},
		{
			name: "floor division untouched",
			src:  "x = a // b\nx /= 2\n",
			want: "x = a // b\nx /= 2\n",
		},
		{
			name: "ignored",
			src:  "x = 7 / 2  # py3port: ignore=division\n",
			want: "x = 7 / 2  # py3port: ignore=division\n",
		},
		{
			name:    "ignore for another pass",
			src:     "x = 7 / 2  # py3port: ignore=octal\n",
			answers: []string{"I"},
			want:    "x = 7 // 2  # py3port: ignore=octal\n",
			asked:   1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			chooser := &scriptedChooser{answers: tc.answers}
			env := &Env{Chooser: chooser}
			got := apply(t, NewDivisionPass(), tc.src, env)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.asked, chooser.asked)
		})
	}
}

func TestDivisionPassInputClosed(t *testing.T) {
	t.Parallel()
	tree, err := pytree.Parse("x = 1\ny = 7 / 2\n")
	require.NoError(t, err)

	err = NewDivisionPass().Apply(tree, &Env{Chooser: &scriptedChooser{}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, prompt.ErrInputClosed))
	assert.Contains(t, err.Error(), "line 2")
}

func TestDivisionPassDisplay(t *testing.T) {
	t.Parallel()
	d := &fakeDisplay{}
	env := &Env{Display: d, Chooser: &scriptedChooser{answers: []string{"F"}}}
	apply(t, NewDivisionPass(), "x = 7 / 2.0\ny = a / b\n", env)

	assert.Equal(t, 2, d.clears)
	assert.Equal(t, []string{"/", "/"}, d.contexts)
	assert.Equal(t, []int{8, 8}, d.lines)
	assert.Equal(t, []string{"Found trivial float division"}, d.notices)
}

func TestDivisionPassDryRun(t *testing.T) {
	t.Parallel()
	d := &fakeDisplay{}
	env := &Env{Display: d, DryRun: true}
	got := apply(t, NewDivisionPass(), "x = 7 / 2\ny = 1 / 2.\n", env)

	assert.Equal(t, "x = 7 / 2\ny = 1 / 2.\n", got)
	assert.Zero(t, d.clears)
	assert.Empty(t, d.contexts)

	changes := env.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, tt.SeverityWarning, changes[0].Severity)
	assert.Equal(t, "7 / 2", changes[0].Before)
	assert.Equal(t, 1, changes[0].Start.Line)
}
