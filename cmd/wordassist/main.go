/*
Package main runs the wordassist autocomplete engine.

Note: This is a BETA release. APIs and functionality may rapidly change.

wordassist watches the word being typed in a text surface and offers
completions from a local dictionary, similar words from a remote
similarity service, or both. It runs as a MessagePack IPC server for an
editor host, or as an interactive CLI for testing and debugging.

# Usage

Start the IPC server with the config file defaults:

	wordassist

Use a word list and a similarity service, with debug logs:

	wordassist -dict words.txt -url http://localhost:8000 -mode hybrid -d

Run the interactive CLI:

	wordassist -c

# Configuration

The config file lives at ~/.config/wordassist/config.toml and is created
with defaults when missing:

	[engine]
	mode = "hybrid"
	top_k = 5
	trailing_space = true
	trigger_key = "ctrl+space"

	[remote]
	url = ""
	timeout_ms = 3000
	rate_per_sec = 5
	burst = 2
	cache_size = 128

	[dict]
	path = ""
	watch = true

	[layout]
	margin = 5
	placement = "right"
	cell_width = 8
	cell_height = 18

	[log]
	level = "warn"

Flags override the file.

# Command Line Flags

	-c        Run the CLI instead of the IPC server
	-d        Enable debug logging
	-config   Path to a config file
	-dict     Dictionary file or directory (.txt word lists, .bin chunks)
	-mode     local, remote or hybrid
	-url      Base URL of the word similarity service
	-limit    Number of suggestions to show
	-rebuild-config
	          Overwrite the default config file with defaults and exit
	-version  Show the current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/wordassist/internal/cli"
	"github.com/bastiangx/wordassist/internal/logger"
	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/bastiangx/wordassist/pkg/config"
	"github.com/bastiangx/wordassist/pkg/dictionary"
	"github.com/bastiangx/wordassist/pkg/eventloop"
	"github.com/bastiangx/wordassist/pkg/mutate"
	"github.com/bastiangx/wordassist/pkg/position"
	"github.com/bastiangx/wordassist/pkg/server"
	"github.com/bastiangx/wordassist/pkg/session"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordassist"
	gh      = "https://github.com/bastiangx/wordassist"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPath := flag.String("config", "", "Path to a custom config file")
	dictPath := flag.String("dict", "", "Dictionary file or directory (overrides config)")
	mode := flag.String("mode", "", "Suggestion mode: local, remote or hybrid (overrides config)")
	remoteURL := flag.String("url", "", "Base URL of the word similarity service (overrides config)")
	limit := flag.Int("limit", 0, "Number of suggestions to show (overrides config)")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config file with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	}

	if *rebuildConfig {
		path, err := config.RebuildConfigFile()
		if err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote default config to %s\n", path)
		os.Exit(0)
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *mode != "" {
		cfg.Engine.Mode = *mode
	}
	if *remoteURL != "" {
		cfg.Remote.URL = *remoteURL
	}
	if *dictPath != "" {
		cfg.Dict.Path = *dictPath
	}
	if *limit > 0 {
		cfg.Engine.TopK = *limit
	}
	cfg.Validate()

	if !*debugMode {
		log.SetLevel(logger.ParseLevel(cfg.Log.Level))
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedPath))

	configDir := ""
	if usedPath != "" {
		configDir = filepath.Dir(usedPath)
	}
	if err := run(ctx, cfg, configDir, *cliMode); err != nil {
		log.Fatalf("%s: %v", AppName, err)
	}
}

func run(ctx context.Context, cfg *config.Config, configDir string, cliMode bool) error {
	loop := eventloop.New(64)
	mem := surface.NewMemory(surface.WithCellSize(cfg.Layout.CellWidth, cfg.Layout.CellHeight))

	words, resolvedDict := loadWords(cfg.Dict.Path, configDir)
	local := suggest.NewLocalDictionary(words)
	log.Debugf("Local dictionary holds %d words", local.Len())

	if cfg.Dict.Watch && resolvedDict != "" {
		watcher, err := dictionary.NewWatcher(resolvedDict, local, loop,
			dictionary.WithWatchLogger(logger.New("dict")))
		if err != nil {
			log.Warnf("Dictionary hot reload disabled: %v", err)
		} else {
			watcher.Start()
			defer watcher.Close()
		}
	}

	opts, mode := sessionOptions(cfg, mem)

	if cliMode {
		log.SetReportTimestamp(false)
		view := cli.NewOverlay(os.Stdout, mem)
		opts = append(opts,
			session.WithLocal(local),
			session.WithRenderer(view),
			session.WithPoster(loop))
		sess := session.New(mem, opts...)
		return errors.Wrap(cli.NewInputHandler(loop, mem, sess, view, os.Stdout).Start(ctx, os.Stdin), "cli")
	}

	srv := server.NewServer(loop, mem, local, os.Stdin, os.Stdout, opts...)
	showStartupInfo(cfg, mode, resolvedDict, local.Len())
	return errors.Wrap(srv.Serve(ctx), "server")
}

// loadWords returns the configured dictionary, or the built-in list when
// none is configured or it cannot be read. The resolved path is empty in
// the latter case.
func loadWords(path, configDir string) ([]string, string) {
	if path == "" {
		log.Debug("No dictionary configured, using the built-in list")
		return dictionary.Builtin(), ""
	}
	resolved, err := utils.NewPathResolver(configDir).DictPath(path)
	if err != nil {
		log.Warnf("%v. Using the built-in list...", err)
		return dictionary.Builtin(), ""
	}
	words, err := dictionary.Load(resolved)
	if err != nil {
		log.Warnf("Failed to load dictionary %s: %v. Using the built-in list...", resolved, err)
		return dictionary.Builtin(), ""
	}
	log.Debugf("Using dictionary at: %s", resolved)
	return words, resolved
}

// sessionOptions builds the session options from cfg and returns the mode
// actually in use.
func sessionOptions(cfg *config.Config, geometry position.Geometry) ([]session.Option, session.Mode) {
	mode, _ := session.ParseMode(cfg.Engine.Mode)
	calc := position.New(geometry)
	calc.Margin = cfg.Layout.Margin
	calc.Placement = position.ParsePlacement(cfg.Layout.Placement)

	opts := []session.Option{
		session.WithTopK(cfg.Engine.TopK),
		session.WithMutator(mutate.Mutator{TrailingSpace: cfg.Engine.TrailingSpace}),
		session.WithCalculator(calc),
		session.WithTriggerKey(surface.ParseKey(cfg.Engine.TriggerKey)),
	}

	if cfg.Remote.URL == "" {
		if mode != session.ModeLocal {
			log.Warnf("No remote url configured, %s mode falls back to local", mode)
		}
		return append(opts, session.WithMode(session.ModeLocal)), session.ModeLocal
	}

	remote := suggest.NewRemoteSimilarity(cfg.Remote.URL,
		suggest.WithTimeout(cfg.Remote.Timeout()),
		suggest.WithRateLimit(cfg.Remote.RatePerSec, cfg.Remote.Burst),
		suggest.WithCache(cfg.Remote.CacheSize),
	)
	log.Debugf("Remote similarity at %s", remote.Endpoint())
	return append(opts, session.WithMode(mode), session.WithRemote(remote)), mode
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ wordassist ] Suggests words while you type")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(cfg *config.Config, mode session.Mode, dictPath string, words int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	if dictPath == "" {
		dictPath = "built-in"
	}
	fmt.Fprintln(os.Stderr, "=============")
	fmt.Fprintln(os.Stderr, " wordassist ")
	fmt.Fprintln(os.Stderr, "=============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("mode: %s, top_k: %d", mode, cfg.Engine.TopK)
	log.Infof("dict: ( %s ) %d words", dictPath, words)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "=============")
}
