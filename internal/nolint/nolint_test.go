package nolint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/py3port/internal/pytree"
)

func TestParseNolintRules(t *testing.T) {
	t.Parallel()
	input := "division, octal,,iterview"
	expected := []string{"division", "octal", "iterview"}
	result := parseIgnoreRuleNames(input)
	if len(result) != len(expected) {
		t.Errorf("Expected %d rules, got %d", len(expected), len(result))
	}
	for _, rule := range expected {
		if _, exists := result[rule]; !exists {
			t.Errorf("Expected rule %s not found", rule)
		}
	}
}

func TestParseDirective(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text    string
		passes  []string
		invalid bool
	}{
		{text: " py3port: ignore", passes: nil},
		{text: "py3port:ignore=division", passes: []string{"division"}},
		{text: " py3port: ignore=division,octal ", passes: []string{"division", "octal"}},
		{text: " py3port: ignore=", invalid: true},
		{text: " py3port: skip", invalid: true},
		{text: " noqa", invalid: true},
		{text: " pylint: disable=W0401", invalid: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got, err := parseDirective(tt.text)
			if tt.invalid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, len(tt.passes))
			for _, p := range tt.passes {
				assert.Contains(t, got, p)
			}
		})
	}
}

func TestIsNolint(t *testing.T) {
	t.Parallel()
	source := `def f(a, b):
    x = a / b
    y = a / b  # py3port: ignore
    # py3port: ignore=division
    z = (a /
         b)
    w = 0755  # py3port: ignore=octal
    if a / b:  # py3port: ignore
        pass
    return x / 2
`
	tree, err := pytree.Parse(source)
	require.NoError(t, err)
	manager := ParseComments(tree)

	tests := []struct {
		line    int
		pass    string
		ignored bool
	}{
		{2, "division", false},
		{3, "division", true},
		{3, "octal", true},
		{4, "division", true},
		{5, "division", true},
		{6, "division", true},
		{5, "octal", false},
		{7, "octal", true},
		{7, "division", false},
		{8, "division", true},
		{9, "division", false},
		{10, "division", false},
	}
	for _, tt := range tests {
		if got := manager.IsNolint(tt.line, tt.pass); got != tt.ignored {
			t.Errorf("line %d pass %s: got %v, want %v", tt.line, tt.pass, got, tt.ignored)
		}
	}
}

func TestLeadingDirectiveCoversFirstStatement(t *testing.T) {
	t.Parallel()
	tree, err := pytree.Parse("# py3port: ignore=octal\nm = 0644\nn = 0600\n")
	require.NoError(t, err)
	manager := ParseComments(tree)

	assert.True(t, manager.IsNolint(2, "octal"))
	assert.False(t, manager.IsNolint(3, "octal"))
}

func TestNilManager(t *testing.T) {
	t.Parallel()
	var m *Manager
	assert.False(t, m.IsNolint(1, "division"))
}
