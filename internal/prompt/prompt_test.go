package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var divisionOptions = []Option{
	{Key: "F", Help: "Floating point division"},
	{Key: "I", Help: "Integer division using the floor division operator"},
}

func TestChoose(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
		retries int
	}{
		{name: "first answer", input: "I\n", want: "I"},
		{name: "surrounding space", input: "  F \n", want: "F"},
		{name: "no trailing newline", input: "F", want: "F"},
		{name: "invalid then valid", input: "x\n\nf\nI\n", want: "I", retries: 3},
		{name: "eof without answer", input: "", wantErr: ErrInputClosed},
		{name: "eof after invalid", input: "maybe\n", wantErr: ErrInputClosed, retries: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)

			got, err := term.Choose("Division type?", divisionOptions)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			text := out.String()
			assert.Contains(t, text, "Options:")
			assert.Contains(t, text, "Floating point division")
			assert.Equal(t, tt.retries, strings.Count(text, "Error: invalid choice"))
		})
	}
}

func TestChooseReadError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	term := NewTerminal(iotest.ErrReader(boom), &bytes.Buffer{})

	_, err := term.Choose("Division type?", divisionOptions)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInputClosed)
}

func TestChooseNoOptions(t *testing.T) {
	t.Parallel()
	term := NewTerminal(strings.NewReader("x\n"), &bytes.Buffer{})
	_, err := term.Choose("?", nil)
	assert.Error(t, err)
}
