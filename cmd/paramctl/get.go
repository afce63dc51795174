package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/paramkit/params/printer"
)

var (
	getSI       bool
	getNoBounds bool
)

func init() {
	cmd := newGetCmd()
	cmd.Flags().BoolVar(&getSI, "si", false, "Print numbers in SI units")
	cmd.Flags().BoolVar(&getNoBounds, "no-bounds", false, "Hide bounds and enumerations")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file> <path> <key>",
		Short: "Get a single parameter",
		Long: `The get command prints one parameter of a document. Formulas are
evaluated against the document's variables. Snapshot files (.cbor,
.snap) are accepted as input.

Example:
  paramctl get car.xml "Car/Engine" rpm
  paramctl get car.xml "Car" mass --si
  paramctl get car.xml "Car/Engine" fuel --json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func runGet(args []string) error {
	docPath := args[0]
	path := args[1]
	key := args[2]

	printVerbose("Opening document: %s\n", docPath)

	reg := newRegistry()
	defer reg.Close()

	h, err := openAny(reg, docPath)
	if err != nil {
		return err
	}

	opts := printer.DefaultOptions()
	opts.SIUnits = getSI
	opts.ShowBounds = !getNoBounds
	if jsonOut {
		opts.Format = printer.FormatJSON
	}

	if err := printer.New(h, os.Stdout, opts).PrintParam(path, key); err != nil {
		return fmt.Errorf("failed to get param: %w", err)
	}
	return nil
}
