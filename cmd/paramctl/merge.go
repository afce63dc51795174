package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/paramkit/params"
)

var (
	mergeMode        string
	mergeOutput      string
	mergeForceBounds bool
	mergeDryRun      bool
)

func init() {
	cmd := newMergeCmd()
	cmd.Flags().StringVarP(&mergeMode, "mode", "m", "both", "Merge passes (ref, target, both)")
	cmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output file (default: the target file)")
	cmd.Flags().BoolVar(&mergeForceBounds, "force-bounds", false, "Always write min and max")
	cmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Print the merged document instead of writing it")
	rootCmd.AddCommand(cmd)
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <ref> <target>",
		Short: "Merge a target document onto a reference",
		Long: `The merge command combines a reference document with a target
document. The reference supplies metadata and bounds; the target
supplies values, which are clamped into the reconciled bounds.

  ref     walk the reference params (target values override)
  target  walk the target params (reference params fill gaps)
  both    run both passes

Example:
  paramctl merge defaults.xml car.xml
  paramctl merge defaults.xml car.xml -o merged.xml --mode ref
  paramctl merge defaults.xml car.xml --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(args)
		},
	}
	return cmd
}

func parseMergeMode(s string) (params.MergeMode, error) {
	switch s {
	case "ref":
		return params.MergeRefDriven, nil
	case "target":
		return params.MergeTargetDriven, nil
	case "both":
		return params.MergeBoth, nil
	default:
		return 0, fmt.Errorf("unknown merge mode: %s", s)
	}
}

func runMerge(args []string) error {
	refPath := args[0]
	tgtPath := args[1]

	mode, err := parseMergeMode(mergeMode)
	if err != nil {
		return err
	}

	printVerbose("Merging %s onto %s\n", tgtPath, refPath)

	reg := newRegistry()
	defer reg.Close()

	ref, err := openAny(reg, refPath)
	if err != nil {
		return err
	}
	tgt, err := openAny(reg, tgtPath)
	if err != nil {
		return err
	}

	merged, err := params.Merge(ref, tgt, mode|params.MergeReleaseRef|params.MergeReleaseTarget)
	if err != nil {
		return fmt.Errorf("failed to merge: %w", err)
	}
	merged.SetWriteOptions(params.WriteOptions{ForceBounds: mergeForceBounds})

	if mergeDryRun {
		s, err := merged.WriteString()
		if err != nil {
			return fmt.Errorf("failed to serialize: %w", err)
		}
		fmt.Print(s)
		return nil
	}

	out := mergeOutput
	if out == "" {
		out = tgtPath
	}
	if isSnapshot(out) {
		err = snapshotSave(out, merged)
	} else {
		err = merged.WriteFile(out)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"reference": refPath,
			"target":    tgtPath,
			"output":    out,
			"params":    merged.Tree().ParamCount(),
			"success":   true,
		})
	}

	printInfo("Merged %s onto %s -> %s (%d params)\n", tgtPath, refPath, out, merged.Tree().ParamCount())
	return nil
}
