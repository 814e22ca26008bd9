package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"Peek/mcp"
	"Peek/pkg/screen"
)

var version = "0.3.0"

// App must keep satisfying the MCP surface.
var _ mcp.AgentApp = (*App)(nil)

func main() {
	var (
		mcpFlag    = flag.Bool("mcp", false, "serve the MCP stdio interface")
		simFlag    = flag.Bool("sim", false, "connect a built-in simulated host")
		configPath = flag.String("config", "", "path to the config file (default: <data>/config.json)")
		dataDir    = flag.String("data", "", "data directory for logs and the event journal")
		logLevel   = flag.String("log-level", "", "override log level: debug, info, warn, error")
	)
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = os.TempDir()
		}
		dir = filepath.Join(configDir, "Peek")
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, "config.json")
	}

	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logCfg := PersistentLogConfig(dir)
	logCfg.Level = cfg.LogLevel
	// In MCP mode stdout carries the protocol; console logging already goes
	// to stderr, so both outputs stay enabled.
	if err := InitLogger(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer CloseLogger()

	LogInfo("main").Str("version", version).Str("dataDir", dir).Msg("Starting")

	app := NewApp(version, cfg.DispatchLogPerSecond)

	if cfg.JournalEnabled {
		journal, err := OpenJournal(filepath.Join(dir, "data"))
		if err != nil {
			LogError("main").Err(err).Msg("Failed to open event journal, continuing without one")
		} else {
			app.SetJournal(journal)
			if cfg.JournalMaxAgeDays > 0 {
				cutoff := time.Now().AddDate(0, 0, -cfg.JournalMaxAgeDays)
				if _, err := journal.CleanupBefore(cutoff); err != nil {
					LogWarn("main").Err(err).Msg("Journal cleanup failed")
				}
			}
		}
	}
	defer app.Shutdown()

	// Hot-reload log level and journal settings on config edits.
	watcher := NewConfigWatcher(cfgPath, func(next Config) {
		SetLogLevel(next.LogLevel)
	})
	if err := watcher.Start(); err != nil {
		LogWarn("main").Err(err).Msg("Config watcher unavailable")
	} else {
		defer watcher.Stop()
	}

	if *simFlag {
		host := NewSimHost(DemoTree(), "com.example.demo")
		app.Connect(host)
		go emitSimEvents(app)
	}

	if *mcpFlag {
		server := mcp.NewServer(app)
		if err := server.Start(); err != nil {
			LogError("main").Err(err).Msg("MCP server exited with error")
			os.Exit(1)
		}
		return
	}

	if !*simFlag {
		LogWarn("main").Msg("No host attached; waiting for a connection (use -sim for the built-in host)")
	}

	// Block until interrupted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	LogInfo("main").Msg("Shutting down")
}

// emitSimEvents feeds synthetic events through the pipeline so the journal
// and any subscribers have something to observe in -sim mode.
func emitSimEvents(app *App) {
	kinds := []int32{
		screen.RawWindowStateChanged,
		screen.RawWindowContentChanged,
		screen.RawViewClicked,
		screen.RawViewScrolled,
	}
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if !app.IsConnected() {
			return
		}
		app.HandleHostEvent(screen.RawEvent{
			Kind:    kinds[rand.Intn(len(kinds))],
			OwnerID: "com.example.demo",
			Title:   "Demo",
		})
	}
}
