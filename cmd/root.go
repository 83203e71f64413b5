package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/py3port/port"
)

// ErrPendingChanges is returned by scan when files still need porting.
var ErrPendingChanges = errors.New("files need porting")

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "py3port [paths...]",
	Short: "py3port - prepare Python 2 code for Python 3 around futurize",
	Long: `py3port rewrites Python 2 idioms futurize cannot decide on by itself,
runs futurize, then adds the compatibility imports. Without paths every
*.py file under the current directory is processed.`,
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// py3port [paths...] behaves like the port subcommand
		return runPort(cmd, args)
	},
}

func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", port.DefaultConfigFile, "Configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abort after this long (0 for no limit)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every stage and rewrite")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(portCmd)
	rootCmd.AddCommand(scanCmd)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

// commandContext is cancelled on interrupt and, if set, after the timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func loadConfig() (port.Config, error) {
	config, err := port.LoadConfig(cfgFile)
	if err != nil {
		return config, err
	}
	logger.Debug("configuration loaded", zap.String("path", cfgFile), zap.String("python_version", config.PythonVersion))
	return config, nil
}
