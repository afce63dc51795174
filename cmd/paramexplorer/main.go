package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/paramkit/internal/logger"
	"github.com/joshuapare/paramkit/params"
	"github.com/joshuapare/paramkit/params/snapshot"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Parse flags first (before positional args)
	args := os.Args[1:]
	debugMode := false

	// Extract --debug/-d flag
	filteredArgs := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			debugMode = true
		} else {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	// Initialize logger (must be before any logging calls)
	logOpts := logger.Options{Enabled: debugMode, Level: slog.LevelDebug}
	if home, err := os.UserHomeDir(); err == nil {
		logOpts.LogDir = filepath.Join(home, ".paramexplorer", "logs")
	}
	if err := logger.Init(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	if filteredArgs[0] == "--help" || filteredArgs[0] == "-h" {
		printHelp()
		os.Exit(0)
	}

	if filteredArgs[0] == "--version" || filteredArgs[0] == "-v" {
		fmt.Printf("paramexplorer %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	docPath := filteredArgs[0]
	logger.Info("starting paramexplorer", "path", docPath, "debug", debugMode)

	reg := params.NewRegistry(params.Options{Logger: logger.L})
	defer reg.Close()

	h, err := openDocument(reg, docPath)
	if err != nil {
		logger.Error("document load failed", "path", docPath, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Create the Bubbletea program
	p := tea.NewProgram(
		NewModel(docPath, h),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	logger.Info("paramexplorer exited normally")
}

// openDocument loads an XML document or a snapshot, chosen by extension.
func openDocument(reg *params.Registry, path string) (*params.Handle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbor", ".snap":
		return snapshot.LoadFile(reg, path)
	}
	h, err := reg.ReadFile(path, params.ReadPrivate)
	if err != nil {
		if h != nil {
			h.Release()
		}
		return nil, err
	}
	return h, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: paramexplorer [options] <file>\n")
	fmt.Fprintf(os.Stderr, "Try 'paramexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("paramexplorer - Interactive TUI for XML parameter documents")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  paramexplorer [options] <file>")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Browses the sections and parameters of a document or snapshot.")
	fmt.Println()
	fmt.Println("  Navigation:")
	fmt.Println("    ↑/k, ↓/j    Navigate up/down")
	fmt.Println("    →/l, Enter  Enter section")
	fmt.Println("    ←/h         Go to parent section")
	fmt.Println("    Tab         Switch between section and parameter panes")
	fmt.Println("    y           Copy the selected path")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.paramexplorer/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'paramctl' command instead.")
}
