package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/params/snapshot"
)

var convertForceBounds bool

func init() {
	cmd := newConvertCmd()
	cmd.Flags().BoolVar(&convertForceBounds, "force-bounds", false, "Always write min and max")
	rootCmd.AddCommand(cmd)
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert between XML documents and snapshots",
		Long: `The convert command reads a document and writes it back out. The
format of each side is chosen by extension: .cbor and .snap are binary
snapshots, anything else is XML. XML to XML normalizes the layout.

Example:
  paramctl convert car.xml car.cbor
  paramctl convert car.cbor car.xml
  paramctl convert messy.xml clean.xml --force-bounds`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args)
		},
	}
	return cmd
}

func runConvert(args []string) error {
	in := args[0]
	out := args[1]

	printVerbose("Converting %s -> %s\n", in, out)

	reg := newRegistry()
	defer reg.Close()

	h, err := openAny(reg, in)
	if err != nil {
		return err
	}

	if isSnapshot(out) {
		err = snapshotSave(out, h)
	} else {
		h.SetWriteOptions(params.WriteOptions{ForceBounds: convertForceBounds})
		err = h.WriteFile(out)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	printInfo("Converted %s -> %s\n", in, out)
	return nil
}

func snapshotSave(path string, h *params.Handle) error {
	return snapshot.SaveFile(path, h)
}
