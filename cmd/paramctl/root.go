package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/paramkit/internal/logger"
	"github.com/joshuapare/paramkit/params"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	logLevel  string
	logFormat string
	logDir    string
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "paramctl",
	Short: "Inspect and edit XML parameter documents",
	Long: `paramctl reads, edits, merges and checks hierarchical XML parameter
documents. Numbers carry units and bounds, strings carry enumerations,
and formulas are evaluated on read.`,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionString())

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write logs to a dated file in this directory")
}

// versionString renders the --version output.
func versionString() string {
	return fmt.Sprintf("paramctl %s\n  commit: %s\n  built: %s\n", version, commit, date)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogging routes load and clamp warnings to stderr unless quiet.
func initLogging(cmd *cobra.Command, args []string) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = min(level, slog.LevelDebug)
	}
	return logger.Init(logger.Options{
		Enabled: !quiet,
		Level:   level,
		Format:  logFormat,
		LogDir:  logDir,
	})
}

// newRegistry returns a registry logging through the global logger.
func newRegistry() *params.Registry {
	return params.NewRegistry(params.Options{Logger: logger.L})
}

// openDoc reads a document privately. Parse errors are fatal for the CLI
// even though the library keeps the partial tree.
func openDoc(reg *params.Registry, path string, mode params.ReadMode) (*params.Handle, error) {
	h, err := reg.ReadFile(path, mode|params.ReadPrivate)
	if err != nil {
		if h != nil {
			h.Release()
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return h, nil
}

// isSnapshot reports whether path names a binary snapshot.
func isSnapshot(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbor", ".snap":
		return true
	}
	return false
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
