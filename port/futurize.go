package port

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// defaultFuturizeArgs runs the stage 1 and stage 2 fixers with unicode
// literals, skipping the division fixer the division pass replaces.
var defaultFuturizeArgs = []string{"-0", "-u", "-x", "libfuturize.fixes.fix_division_safe", "-w"}

// Converter rewrites a file in place between the two stages.
type Converter interface {
	Convert(ctx context.Context, path string) error
}

// Futurizer runs the external futurize tool.
type Futurizer struct {
	Command string
	Args    []string
}

func NewFuturizer(c FuturizeConfig) *Futurizer {
	command := c.Command
	if command == "" {
		command = "futurize"
	}
	args := c.Args
	if args == nil {
		args = defaultFuturizeArgs
	}
	return &Futurizer{Command: command, Args: args}
}

// Convert runs futurize on path. Its output is returned in the error when
// it fails.
func (f *Futurizer) Convert(ctx context.Context, path string) error {
	args := append(append([]string{}, f.Args...), path)
	cmd := exec.CommandContext(ctx, f.Command, args...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return fmt.Errorf("%s %s: %w", f.Command, path, err)
		}
		return fmt.Errorf("%s %s: %w\n%s", f.Command, path, err, msg)
	}
	return nil
}
