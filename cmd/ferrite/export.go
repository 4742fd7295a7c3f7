package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ferrite/internal/driver"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] path",
	Short: "Write a msgpack summary of analysis results",
	Long:  `Export analyzes the fixtures at the given path and writes a schema-versioned msgpack summary an IDE host can cache`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "ferrite-export.bin", "output file")
}

func runExport(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	results, err := analyzePath(cmd, args[0])
	if err != nil {
		return err
	}
	if err := driver.WriteExport(out, results); err != nil {
		return err
	}
	fmt.Printf("wrote %d result(s) to %s\n", len(results), out)
	return nil
}
