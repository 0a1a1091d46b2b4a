// Package main is the entry point for the worklog application.
// It loads configuration, initializes storage, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"worklog/internal/config"
	"worklog/internal/storage"
	"worklog/internal/tracker"
	"worklog/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `worklog - Task time tracking for your terminal

USAGE:
    worklog [OPTIONS]
    worklog <command> [ARGS]

COMMANDS:
    backup           Create a backup of your task data
    backup --list    List available backups
    backup --prune N Keep only the N most recent backups
    restore NAME     Restore from a specific backup
    restore --latest Restore from the most recent backup
    export           Export all tasks as JSON
    export -f csv    Export all tasks as CSV

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    worklog is a keyboard-driven task tracker with per-task time
    accounting. One timer runs at a time; every work interval is
    recorded as a session on its task.

KEYBINDINGS:
    Global:
        ?            Show help overlay
        q            Quit

    Task List:
        j/k, ↓/↑     Navigate
        g/G          Go to top/bottom
        a            Add task
        e            Edit task
        Space/Enter  Start/pause timer
        d            Complete / reopen task
        x            Delete task
        v            Open task details

    Task Details:
        Tab          Switch between sessions and notes
        n            Add a note
        x            Delete selected session or note
        Esc          Back to the task list

DATA STORAGE:
    All data is stored in ~/.worklog/ as plain JSON:
        tasks.json   - Tasks with their sessions and notes

CONFIGURATION:
    Optional config file: ~/.config/worklog/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    worklog

    # Create a backup
    worklog backup

    # Restore from a backup
    worklog restore --latest

    # Export tasks as CSV to a file
    worklog export --format csv --output tasks.csv

    # Show version
    worklog --version

    # Show this help
    worklog --help
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		}
	}

	// Define flags
	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("worklog version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	// Handle help flag
	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration (from ~/.config/worklog/config.yaml or defaults)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize storage with configured data directory
	store, err := storage.New(cfg.GetDataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// Load the task snapshot. A recovery error still yields usable tasks;
	// surface it as a warning and keep going.
	tasks, err := store.Load()
	if err != nil {
		if tasks == nil {
			fmt.Fprintf(os.Stderr, "Error loading tasks: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	tr := tracker.New()
	tr.Replace(tasks)

	// Persist every mutation off the UI goroutine.
	saver := storage.NewSaver(store, os.Stderr)
	tr.SetOnChange(func(tasks []tracker.Task) {
		saver.Enqueue(tasks)
	})

	// Create styles from theme config
	styles := ui.NewStylesFromTheme(&cfg.Theme)

	// Create app config with keys and UX settings
	appCfg := &ui.AppConfig{
		Keys:             &cfg.Keys,
		ConfirmDeletions: cfg.UX.ConfirmDeletions,
	}

	// Run the TUI
	if err := ui.Run(tr, styles, appCfg); err != nil {
		saver.Close()
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}

	// Flush any pending snapshot before exit
	saver.Close()
}
