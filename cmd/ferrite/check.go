package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ferrite/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] path",
	Short: "Run place-sensitivity checks over a fixture file or directory",
	Long:  `Check runs assignment, borrow and move validation for every fixture found at the given path and prints the resulting diagnostics`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	results, err := analyzePath(cmd, args[0])
	if err != nil {
		return err
	}
	failed := false
	for _, res := range results {
		printDiagnostics(cmd, res)
		if res.Bag.HasErrors() {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("checks failed")
	}
	return nil
}

func analyzePath(cmd *cobra.Command, path string) ([]*driver.Result, error) {
	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	opts := driver.Options{Jobs: jobs, MaxDiagnostics: maxDiag}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return driver.AnalyzeDir(context.Background(), path, opts)
	}
	res, err := driver.AnalyzeFile(path, opts)
	if err != nil {
		return nil, err
	}
	return []*driver.Result{res}, nil
}
