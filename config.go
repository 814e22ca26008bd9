package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ========================================
// Config
// ========================================

// Config holds runtime settings loaded from a JSON file.
type Config struct {
	LogLevel             string `json:"logLevel"`
	JournalEnabled       bool   `json:"journalEnabled"`
	JournalMaxAgeDays    int    `json:"journalMaxAgeDays"`
	DispatchLogPerSecond int    `json:"dispatchLogPerSecond"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		LogLevel:             "info",
		JournalEnabled:       true,
		JournalMaxAgeDays:    7,
		DispatchLogPerSecond: 5,
	}
}

// LoadConfig reads the config file at path. A missing file yields the
// defaults without error; a malformed file is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config as indented JSON, creating parent
// directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ========================================
// ConfigWatcher
// ========================================

// ConfigWatcher reloads the config file when an external editor or
// process rewrites it.
type ConfigWatcher struct {
	path     string
	onReload func(Config)
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	mu       sync.Mutex
}

// NewConfigWatcher creates a watcher for the given config path. onReload
// is called with the freshly parsed config after each change settles.
func NewConfigWatcher(path string, onReload func(Config)) *ConfigWatcher {
	return &ConfigWatcher{
		path:     path,
		onReload: onReload,
		stopCh:   make(chan struct{}),
	}
}

// Start begins watching the config file's directory. Watching the
// directory rather than the file survives atomic rename-based saves.
func (w *ConfigWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	LogInfo("config").Str("path", w.path).Msg("Started watching config file")

	go w.watch()
	return nil
}

// Stop stops the watcher.
func (w *ConfigWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		close(w.stopCh)
		w.watcher.Close()
		w.watcher = nil
		LogInfo("config").Msg("Stopped watching config file")
	}
}

func (w *ConfigWatcher) watch() {
	// Debounce: editors fire several events per save.
	var debounceTimer *time.Timer
	debounceDelay := 300 * time.Millisecond

	reload := func() {
		cfg, err := LoadConfig(w.path)
		if err != nil {
			LogError("config").Err(err).Msg("Failed to reload config, keeping previous settings")
			return
		}
		LogInfo("config").Str("logLevel", cfg.LogLevel).Msg("Config reloaded")
		w.onReload(cfg)
	}

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			LogError("config").Err(err).Msg("Watcher error")
		}
	}
}
