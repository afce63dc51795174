package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/params/printer"
	"github.com/joshuapare/paramkit/params/snapshot"
)

var (
	dumpFormat   string
	dumpDepth    int
	dumpSI       bool
	dumpNoValues bool
	dumpXML      bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().IntVarP(&dumpDepth, "depth", "d", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&dumpSI, "si", false, "Print numbers in SI units")
	cmd.Flags().BoolVar(&dumpNoValues, "no-values", false, "Print sections only")
	cmd.Flags().BoolVar(&dumpXML, "xml", false, "Print the serialized XML document")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file> [path]",
		Short: "Dump a document or subtree",
		Long: `The dump command prints every section and parameter under path
(the whole document by default). Snapshot files (.cbor, .snap) are
accepted as input.

Example:
  paramctl dump car.xml
  paramctl dump car.xml "Car/Engine" --format yaml
  paramctl dump car.cbor --xml
  paramctl dump car.xml --depth 2 --no-values`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	docPath := args[0]
	path := ""
	if len(args) > 1 {
		path = args[1]
	}

	printVerbose("Opening document: %s\n", docPath)

	reg := newRegistry()
	defer reg.Close()

	h, err := openAny(reg, docPath)
	if err != nil {
		return err
	}

	if dumpXML {
		if _, err := h.WriteTo(os.Stdout); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		return nil
	}

	opts := printer.DefaultOptions()
	opts.Format = printer.Format(dumpFormat)
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	switch opts.Format {
	case printer.FormatText, printer.FormatJSON, printer.FormatYAML:
	default:
		return fmt.Errorf("unknown format: %s", dumpFormat)
	}
	opts.MaxDepth = dumpDepth
	opts.SIUnits = dumpSI
	opts.ShowValues = !dumpNoValues

	if err := printer.New(h, os.Stdout, opts).PrintTree(path); err != nil {
		return fmt.Errorf("failed to dump: %w", err)
	}
	return nil
}

// openAny opens an XML document or restores a snapshot by extension.
func openAny(reg *params.Registry, path string) (*params.Handle, error) {
	if isSnapshot(path) {
		h, err := snapshot.LoadFile(reg, path)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot %s: %w", path, err)
		}
		return h, nil
	}
	return openDoc(reg, path, 0)
}
