package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/pkg/types"
)

var checkCompact bool

func init() {
	cmd := newCheckCmd()
	cmd.Flags().BoolVar(&checkCompact, "compact", false, "One line per finding")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <ref> <target>",
		Short: "Check a document against a reference",
		Long: `The check command verifies that every parameter of the target that
also exists in the reference lies within the reference bounds or
enumeration. Neither document is modified. The command fails when any
error is found.

Example:
  paramctl check defaults.xml car.xml
  paramctl check defaults.xml car.xml --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

func runCheck(args []string) error {
	refPath := args[0]
	tgtPath := args[1]

	printVerbose("Checking %s against %s\n", tgtPath, refPath)

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

	report, checkErr := params.Check(ref, tgt)
	if checkErr != nil && !errors.Is(checkErr, types.ErrCheckFailed) {
		return fmt.Errorf("failed to check: %w", checkErr)
	}

	switch {
	case jsonOut:
		out, err := report.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
	case checkCompact:
		printInfo("%s", report.FormatTextCompact())
	default:
		printInfo("%s", report.FormatText())
	}

	return checkErr
}
