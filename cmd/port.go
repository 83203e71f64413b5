package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/py3port/formatter"
	"github.com/gnolang/py3port/internal/prompt"
	"github.com/gnolang/py3port/port"
)

var (
	noFuturize bool
	verifyOut  bool
)

var portCmd = &cobra.Command{
	Use:   "port [paths...]",
	Short: "Rewrite Python 2 files in place",
	Long: `Runs the preprocess passes, futurize and the postprocess passes over
each file. Divisions whose operands are not known to be floats are shown
with their surroundings and you are asked which division was meant.
Files that already carry the compatibility imports are skipped.`,
	RunE: runPort,
}

func init() {
	portCmd.Flags().BoolVar(&noFuturize, "no-futurize", false, "Skip the futurize step")
	portCmd.Flags().BoolVar(&verifyOut, "verify", false, "Check that every rewritten file still parses")
}

func runPort(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	if noFuturize {
		config.Futurize.Disabled = true
	}
	if verifyOut {
		config.Verify = true
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	p := port.New(port.Options{
		Config:  config,
		Display: formatter.NewContextPrinter(out),
		Chooser: prompt.NewTerminal(os.Stdin, out),
		Logger:  logger,
	})

	results, err := p.ProcessPaths(ctx, args)
	ported, skipped := 0, 0
	for _, res := range results {
		if res.Skipped {
			skipped++
		} else {
			ported++
		}
	}
	fmt.Fprintf(out, "ported %d file(s), skipped %d\n", ported, skipped)
	if err != nil {
		logger.Error("port stopped", zap.Error(err))
		return err
	}
	return nil
}
