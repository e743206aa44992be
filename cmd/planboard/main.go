package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hansvb/planboard/internal/config"
	"github.com/hansvb/planboard/internal/db"
	"github.com/hansvb/planboard/internal/mcp"
	"github.com/hansvb/planboard/internal/ops"
	"github.com/hansvb/planboard/internal/remote"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"idea": true, "feature": true, "experiment": true,
	"tokens": true, "marketing": true,
	"classify": true, "intake": true, "feedback": true,
	"summary": true, "sync": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
         _            _                         _
   _ __ | | __ _ _ _ | |__  ___  __ _ _ _ __| | |
  | '_ \| |/ _' | ' \| '_ \/ _ \/ _' | '_/ _' | |
  | .__/|_|\__,_|_||_|_.__/\___/\__,_|_| \__,_|_|
  |_|

  Business planning dashboard core

  Usage: planboard <command> [options]
         planboard --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".planboard")

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	db.ConfigurePool(database, cfg)

	var src ops.RemoteSource
	var poller *remote.Poller
	if cfg.RemoteBaseURL != "" {
		poller = remote.NewPoller(remote.NewClient(cfg.RemoteBaseURL), cfg.PollInterval())
		src = poller
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		// One-shot commands read the merged view, so fetch the snapshot
		// up front instead of starting the polling loop.
		if poller != nil && os.Args[1] != "sync" && os.Args[1] != "serve" {
			poller.RefreshNow(context.Background())
		}
		if poller != nil && os.Args[1] == "serve" {
			if err := poller.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			defer poller.Stop()
		}

		app := newCLIApp(database, cfg, src)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'planboard --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if poller != nil {
		if err := poller.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer poller.Stop()
	}
	if err := mcp.Run(database, cfg, src, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
