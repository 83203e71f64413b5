package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/py3port/formatter"
	"github.com/gnolang/py3port/internal"
	tt "github.com/gnolang/py3port/internal/types"
	"github.com/gnolang/py3port/port"
)

var (
	scanJSONOutput bool
	scanOutPath    string
	scanWatch      bool
	scanCacheDir   string
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Report what port would change without touching any file",
	Long: `Runs every pass in dry-run mode. Divisions that would need an answer
and octal literals that cannot be fixed automatically are reported as
warnings. Exits with status 1 when any file still needs porting.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSONOutput, "json", false, "Output changes in JSON format")
	scanCmd.Flags().StringVarP(&scanOutPath, "output", "o", "", "Output path (when using JSON)")
	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false, "Keep scanning files as they are written")
	scanCmd.Flags().StringVar(&scanCacheDir, "cache-dir", "", "Reuse results for unchanged files across runs")
}

func runScan(cmd *cobra.Command, args []string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}
	files, err := port.Discover(args)
	if err != nil {
		return err
	}

	scanner := &port.Scanner{
		Engine: port.NewEngine(config, logger),
		Logger: logger,
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		scanner.Progress = os.Stderr
	}
	if scanCacheDir != "" {
		cache, err := internal.NewCache(scanCacheDir, cfgFile)
		if err != nil {
			return err
		}
		scanner.Cache = cache
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	changes, scanErr := scanner.Scan(ctx, files)
	if err := printChanges(out, changes, scanJSONOutput, scanOutPath); err != nil {
		return err
	}
	if scanErr != nil {
		logger.Error("error scanning files", zap.Error(scanErr))
	}

	if scanWatch {
		return watch(cmd, scanner, args)
	}
	if scanErr != nil {
		return scanErr
	}
	if len(changes) > 0 {
		return ErrPendingChanges
	}
	return nil
}

func watch(cmd *cobra.Command, scanner *port.Scanner, args []string) error {
	dirs := watchDirs(args)
	out := cmd.OutOrStdout()
	w, err := internal.NewWatcher(dirs, func(path string) {
		changes, err := scanner.ScanFile(path)
		if err != nil {
			logger.Error("error scanning file", zap.String("file", path), zap.Error(err))
			return
		}
		if len(changes) == 0 {
			fmt.Fprintf(out, "%s: nothing to port\n", path)
			return
		}
		_ = printChanges(out, changes, scanJSONOutput, "")
	}, logger)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	fmt.Fprintf(out, "watching %d director(ies), interrupt to stop\n", len(dirs))
	return w.Watch(ctx)
}

// watchDirs returns the directories of paths, or the current directory.
func watchDirs(paths []string) []string {
	if len(paths) == 0 {
		return []string{"."}
	}
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func printChanges(out io.Writer, changes []tt.Change, isJSON bool, jsonOutput string) error {
	changesByFile := make(map[string][]tt.Change)
	for _, c := range changes {
		changesByFile[c.Filename] = append(changesByFile[c.Filename], c)
	}

	sortedFiles := make([]string, 0, len(changesByFile))
	for filename := range changesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !isJSON {
		for _, filename := range sortedFiles {
			source, err := os.ReadFile(filename)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
				continue
			}
			report := formatter.GenerateChangeReport(changesByFile[filename], formatter.NewSourceCode(string(source)))
			fmt.Fprintln(out, report)
		}
		return nil
	}

	d, err := json.Marshal(changesByFile)
	if err != nil {
		return fmt.Errorf("error marshalling changes to JSON: %w", err)
	}
	if jsonOutput == "" {
		fmt.Fprintln(out, string(d))
		return nil
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
