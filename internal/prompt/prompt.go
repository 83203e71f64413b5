// Package prompt asks the user to pick one of a fixed set of answers.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrInputClosed is returned when the input ends before a valid answer.
var ErrInputClosed = errors.New("prompt: input closed")

var (
	questionStyle = color.New(color.Bold)
	optionStyle   = color.New(color.FgCyan)
	errorStyle    = color.New(color.FgRed)
)

// Option is one allowed answer.
type Option struct {
	Key  string
	Help string
}

// Chooser blocks until one of options is chosen and returns its Key.
type Chooser interface {
	Choose(question string, options []Option) (string, error)
}

// Terminal is a Chooser reading answers line by line. Keys are matched
// exactly; anything else is rejected and the question is asked again.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Choose(question string, options []Option) (string, error) {
	if len(options) == 0 {
		return "", errors.New("prompt: no options")
	}

	keys := make([]string, len(options))
	fmt.Fprintln(t.out, "Options:")
	for i, o := range options {
		keys[i] = o.Key
		fmt.Fprintf(t.out, "%s: %s\n", optionStyle.Sprintf("[%s]", o.Key), o.Help)
	}

	for {
		questionStyle.Fprintf(t.out, "%s (%s): ", question, strings.Join(keys, ", "))

		line, err := t.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		answer := strings.TrimSpace(line)
		for _, k := range keys {
			if answer == k {
				return k, nil
			}
		}
		if err != nil {
			fmt.Fprintln(t.out)
			return "", ErrInputClosed
		}
		errorStyle.Fprintf(t.out, "Error: invalid choice: %s. (choose from %s)\n", answer, strings.Join(keys, ", "))
	}
}
