package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ferrite/internal/diag"
	"ferrite/internal/driver"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] fixture.toml",
	Short: "Dump categorization trees for a fixture's expressions",
	Long:  `Inspect loads a typed-program fixture, categorizes the expressions it marks for dumping, and prints each place tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	res, err := analyzeOne(cmd, args[0])
	if err != nil {
		return err
	}
	printDiagnostics(cmd, res)

	heading := color.New(color.FgCyan, color.Bold)
	if !useColor(cmd, os.Stdout) {
		heading.DisableColor()
	}
	for _, dump := range res.Dumps {
		heading.Fprintf(os.Stdout, "expr %s\n", dump.Handle)
		fmt.Fprint(os.Stdout, dump.Text)
	}
	for _, walk := range res.Walks {
		heading.Fprintf(os.Stdout, "pat %s\n", walk.Handle)
		fmt.Fprint(os.Stdout, walk.Text)
	}
	return nil
}

func analyzeOne(cmd *cobra.Command, path string) (*driver.Result, error) {
	maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	res, err := driver.AnalyzeFile(path, driver.Options{MaxDiagnostics: maxDiag})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return res, nil
}

func printDiagnostics(cmd *cobra.Command, res *driver.Result) {
	if res.Bag.Len() == 0 {
		return
	}
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow)
	if !useColor(cmd, os.Stderr) {
		errColor.DisableColor()
		warnColor.DisableColor()
	}
	for _, d := range res.Bag.Items() {
		c := warnColor
		if d.Severity >= diag.SevError {
			c = errColor
		}
		c.Fprintf(os.Stderr, "%s %s: ", d.Severity, d.Code)
		fmt.Fprintf(os.Stderr, "%s (at %s)\n", d.Message, d.Primary)
		for _, note := range d.Notes {
			fmt.Fprintf(os.Stderr, "  note: %s (at %s)\n", note.Msg, note.Span)
		}
	}
}
