/*
Package main implements the mathserve recognition and suggestion server.

mathserve recognizes Chinese mathematics terminology inside free-form text
and ranks input-completion suggestions for users typing such vocabulary.
It runs either as a msgpack IPC server over stdin/stdout for editor
integration, or as an interactive CLI for testing.

# Usage

Start the server with default settings:

	mathserve

Use a custom dictionary directory and enable debug logging:

	mathserve -data /path/to/dicts -d

Run in CLI mode:

	mathserve -c

# Dictionaries

The data directory may contain TOML term files ([[terms]] tables with name,
category, code, and aliases) and msgpack snapshots (.bin). With no data
directory a small builtin vocabulary is used so the binary works out of the
box.

# Configuration

Runtime configuration lives in a TOML file, created with defaults on first
run:

	[server]
	max_limit = 64
	min_prefix = 1
	max_prefix = 60

	[ranker.weights]
	relevance = 0.30
	context = 0.25
	preference = 0.20
	quality = 0.15
	novelty = 0.10

A user preference profile (preferred categories, input types, difficulty
level, personalization weights) can be pointed at with -profile.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/mathserve/mathserve/internal/cli"
	"github.com/mathserve/mathserve/pkg/config"
	"github.com/mathserve/mathserve/pkg/dictionary"
	"github.com/mathserve/mathserve/pkg/ranker"
	"github.com/mathserve/mathserve/pkg/recognizer"
	"github.com/mathserve/mathserve/pkg/resolver"
	"github.com/mathserve/mathserve/pkg/server"
	"github.com/mathserve/mathserve/pkg/store"
)

const (
	Version = "0.3.0"
	AppName = "mathserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the store, engines, and transport together; the logic lives
// in the packages.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", "", "Directory containing dictionary files (TOML or .bin snapshots)")
	profilePath := flag.String("profile", "", "Path to a TOML preference profile")
	configPath := flag.String("config", "", "Path to config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run interactive CLI instead of the IPC server")
	limit := flag.Int("limit", 10, "Number of suggestions to return in CLI mode")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", activePath)

	mem := store.NewMemory()
	dir := *dataDir
	if dir == "" {
		dir = cfg.Dict.DataDir
	}
	loaded := 0
	if dir != "" {
		if n, loadErr := dictionary.LoadDir(dir, mem); loadErr != nil {
			log.Warnf("Dictionary dir unavailable: %v", loadErr)
		} else {
			loaded = n
		}
	}
	if loaded == 0 && cfg.Dict.UseSeed {
		loaded = dictionary.Seed(mem)
		log.Debugf("Loaded builtin seed dictionary (%d terms)", loaded)
	}
	if mem.Len() == 0 {
		log.Warn("Running with an empty dictionary, nothing will be recognized")
	}

	profile := *profilePath
	if profile == "" {
		profile = cfg.Dict.ProfilePath
	}
	prefs, err := store.LoadProfile(profile)
	if err != nil {
		log.Fatalf("Failed to load profile %s: %v", profile, err)
	}

	usage := store.NewUsageTracker()
	rec := recognizer.New(mem, usage)
	rk := ranker.New(prefs, cfg.RankerOptions())
	res := resolver.NewStatic(mem)

	log.Debugf("Ready: %d terms", mem.Len())

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(rec, rk, mem, *limit)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv := server.NewServer(rec, rk, mem, usage, res, cfg)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print(fmt.Sprintf("[ %s ] math term recognition and suggestion ranking", AppName))
	logger.Print("", "version", Version)
	logger.Print("use -h or --help to see available options")
}
