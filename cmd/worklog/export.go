// Package main is the entry point for the worklog application.
// This file contains the export subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"worklog/internal/config"
	"worklog/internal/export"
	"worklog/internal/fsutil"
	"worklog/internal/storage"
)

// exportHelpText is the help message for the export subcommand.
const exportHelpText = `worklog export - Export task data

USAGE:
    worklog export [OPTIONS]

OPTIONS:
    -f, --format FMT   Output format: json (default) or csv
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

DESCRIPTION:
    Exports the full task collection including sessions and notes.
    JSON output carries the complete structure plus summary metadata;
    CSV output is a flattened one-row-per-task table suitable for
    spreadsheets.

EXAMPLES:
    # Full JSON export to stdout
    worklog export

    # CSV format
    worklog export --format csv

    # Save to file
    worklog export --output tasks.json

    # CSV export to file
    worklog export --format csv --output tasks.csv
`

// runExport handles the "worklog export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	formatFlag := fs.String("format", "json", "output format: json or csv")
	fs.StringVar(formatFlag, "f", "json", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	// Validate format
	format := *formatFlag
	if format != "json" && format != "csv" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q. Use 'json' or 'csv'.\n", format)
		os.Exit(1)
	}

	// Load config and storage
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	tasks, err := store.Load()
	if err != nil {
		if tasks == nil {
			fmt.Fprintf(os.Stderr, "Error loading tasks: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	var output []byte
	if format == "csv" {
		output, err = export.FormatCSV(tasks)
	} else {
		output, err = export.FormatJSON(export.BuildSnapshot(tasks, time.Now()))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting export: %v\n", err)
		os.Exit(1)
	}

	// Write output
	if *outputFlag != "" {
		if err := os.MkdirAll(filepath.Dir(*outputFlag), 0700); err != nil && filepath.Dir(*outputFlag) != "." {
			fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		if err := fsutil.WriteFileAtomic(*outputFlag, output, 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Export written to %s\n", *outputFlag)
	} else {
		os.Stdout.Write(output)
	}
}
