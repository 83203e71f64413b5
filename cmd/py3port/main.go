package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gnolang/py3port/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrPendingChanges) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
