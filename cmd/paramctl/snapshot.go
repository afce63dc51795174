package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/paramkit/params/snapshot"
)

func init() {
	rootCmd.AddCommand(newSnapshotCmd())
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <file> [output]",
		Short: "Save a document as a binary snapshot",
		Long: `The snapshot command stores a document, including its formula
variables, in compact CBOR form. The output defaults to the input
name with a .cbor extension. Given a snapshot, it prints its metadata.

Example:
  paramctl snapshot car.xml
  paramctl snapshot car.xml /tmp/car.snap
  paramctl snapshot car.cbor`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(args)
		},
	}
	return cmd
}

func runSnapshot(args []string) error {
	in := args[0]

	if isSnapshot(in) && len(args) == 1 {
		return showSnapshot(in)
	}

	out := strings.TrimSuffix(in, ".xml") + ".cbor"
	if len(args) > 1 {
		out = args[1]
	}
	return runConvert([]string{in, out})
}

// showSnapshot prints snapshot metadata without restoring it.
func showSnapshot(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	s, err := snapshot.Read(f)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"format":    s.Format,
			"name":      s.Name,
			"file":      s.FileName,
			"version":   fmt.Sprintf("%d.%d", s.Major, s.Minor),
			"sections":  len(s.Sections),
			"params":    len(s.Params),
			"variables": len(s.Vars),
		})
	}

	fmt.Printf("Snapshot %s:\n", path)
	fmt.Printf("  Name:      %s\n", s.Name)
	fmt.Printf("  File:      %s\n", s.FileName)
	fmt.Printf("  Version:   %d.%d\n", s.Major, s.Minor)
	fmt.Printf("  Sections:  %d\n", len(s.Sections))
	fmt.Printf("  Params:    %d\n", len(s.Params))
	fmt.Printf("  Variables: %d\n", len(s.Vars))
	return nil
}
