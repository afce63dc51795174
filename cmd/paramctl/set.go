package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/pkg/types"
)

var (
	setKind   string
	setUnit   string
	setMin    string
	setMax    string
	setWithin string
	setCreate bool
	setOutput string
)

func init() {
	cmd := newSetCmd()
	cmd.Flags().StringVar(&setKind, "kind", "num", "Param kind (num, str, form)")
	cmd.Flags().StringVar(&setUnit, "unit", "", "Unit of the value and bounds")
	cmd.Flags().StringVar(&setMin, "min", "", "Lower bound (requires --max)")
	cmd.Flags().StringVar(&setMax, "max", "", "Upper bound (requires --min)")
	cmd.Flags().StringVar(&setWithin, "in", "", "Comma separated enumeration for strings")
	cmd.Flags().BoolVar(&setCreate, "create", false, "Create the document if it doesn't exist")
	cmd.Flags().StringVarP(&setOutput, "output", "o", "", "Write to this file instead of in place")
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <path> <key> <value>",
		Short: "Set a parameter",
		Long: `The set command changes one parameter and rewrites the document.
Numbers outside the existing bounds are clamped, strings outside the
enumeration are rejected with a warning.

Example:
  paramctl set car.xml "Car/Engine" rpm 4500 --unit rpm
  paramctl set car.xml "Car" mass 1200 --unit kg --min 800 --max 1500
  paramctl set car.xml "Car/Engine" fuel diesel --kind str
  paramctl set car.xml "Car/Engine" power "car.engine.torque * 2" --kind form
  paramctl set new.xml "Setup" gain 2 --create`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
	return cmd
}

func runSet(args []string) error {
	docPath := args[0]
	path := args[1]
	key := args[2]
	valueStr := args[3]

	printVerbose("Opening document: %s\n", docPath)

	reg := newRegistry()
	defer reg.Close()

	var mode params.ReadMode
	if setCreate {
		mode |= params.ReadCreate
	}
	h, err := openDoc(reg, docPath, mode)
	if err != nil {
		return err
	}
	if h.Name() == "" {
		// a created document is named after its file
		_ = h.SetName(strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath)))
	}

	if err := applySet(h, path, key, valueStr); err != nil {
		return fmt.Errorf("failed to set param: %w", err)
	}

	out := setOutput
	if out == "" {
		out = docPath
	}
	if err := h.WriteFile(out); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":    out,
			"path":    path,
			"key":     key,
			"kind":    h.Kind(path, key).String(),
			"value":   h.GetStr(path, key, valueStr),
			"success": true,
		})
	}

	printInfo("Set %s in %s\n", joinKey(path, key), out)
	return nil
}

// applySet stores valueStr according to the --kind flags.
func applySet(h *params.Handle, path, key, valueStr string) error {
	switch setKind {
	case "num":
		val, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", valueStr, err)
		}
		if setMin == "" && setMax == "" {
			return h.SetNum(path, key, setUnit, val)
		}
		lo, err := strconv.ParseFloat(setMin, 64)
		if err != nil {
			return fmt.Errorf("invalid --min %q: %w", setMin, err)
		}
		hi, err := strconv.ParseFloat(setMax, 64)
		if err != nil {
			return fmt.Errorf("invalid --max %q: %w", setMax, err)
		}
		return h.SetNumEx(path, key, setUnit, val, lo, hi)
	case "str":
		if setWithin == "" {
			return h.SetStr(path, key, valueStr)
		}
		var within []string
		for _, v := range strings.Split(setWithin, ",") {
			if v = strings.TrimSpace(v); v != "" {
				within = append(within, v)
			}
		}
		return h.SetStrIn(path, key, valueStr, within)
	case "form":
		return h.SetFormula(path, key, valueStr)
	default:
		return types.Wrapf(types.ErrTypeMismatch, "unknown kind %q", setKind)
	}
}

func joinKey(path, key string) string {
	if path == "" || path == "/" {
		return key
	}
	return strings.TrimSuffix(path, "/") + "/" + key
}
