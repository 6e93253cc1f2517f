package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hawky-ai/hawkd/internal/config"
	"github.com/hawky-ai/hawkd/internal/feed"
	"github.com/hawky-ai/hawkd/internal/ideas"
	"github.com/hawky-ai/hawkd/internal/mcp"
	"github.com/hawky-ai/hawkd/internal/platform"
	"github.com/hawky-ai/hawkd/internal/storage"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "list": true, "delete": true,
	"export": true, "status": true,
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
   _                    _       _
  | |__   __ ___      _| | ____| |
  | '_ \ / _' \ \ /\ / / |/ / _' |
  | | | | (_| |\ V  V /|   < (_| |
  |_| |_|\__,_| \_/\_/ |_|\_\__,_|

  Local capture host for the Hawky extension

  Usage: hawkd <command> [options]
         hawkd serve        start the extension-facing server
         hawkd --help

  MCP server mode requires piped input.`)
}

// newLogger builds the process logger. Output goes to stderr so stdio-based
// MCP transport keeps stdout to itself.
func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// appState bundles the initialized daemon dependencies handed to CLI commands.
type appState struct {
	baseDir string
	cfg     *config.Config
	db      *storage.Store
	store   *feed.Store
	proc    *platform.Dispatcher
	ideas   *ideas.Client
	log     zerolog.Logger
}

// initApp opens storage, loads config, and seeds the in-memory feed.
func initApp(baseDir string) (*appState, error) {
	log := newLogger()

	db, err := storage.Init(baseDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	db.ConfigurePool(cfg)

	store := feed.NewStore(cfg.FeedCapacity, cfg.SavedCapacity, db)
	store.SeedSaved(db.LoadSaved())

	return &appState{
		baseDir: baseDir,
		cfg:     cfg,
		db:      db,
		store:   store,
		proc:    platform.NewDispatcher(log),
		ideas:   ideas.NewClient(cfg.IdeasURL, log),
		log:     log,
	}, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before storage init (no storage needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
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

	st, err := initApp(filepath.Join(homeDir, ".hawkd"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer st.db.Close()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(st)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'hawkd --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(st.store, st.proc, st.ideas, st.cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
