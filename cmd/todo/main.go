// Package main provides the entry point for the odin-todo TUI.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alimkhann/odin-todo/internal/app"
	"github.com/alimkhann/odin-todo/internal/config"
	"github.com/alimkhann/odin-todo/internal/persist"
	"github.com/alimkhann/odin-todo/internal/service"
	"github.com/alimkhann/odin-todo/internal/state"
)

func main() {
	configDir := flag.String("config-dir", "", "directory holding config.json (default ~/.odin-todo)")
	statePath := flag.String("state", "", "override the state file path")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *statePath != "" {
		cfg.StatePath = *statePath
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	backend := persist.NewFileBackend(cfg.StatePath)
	store := state.NewStore(persist.Load(backend, logger))
	store.OnError(func(action state.Action, err error) {
		logger.Warn("action rejected", "action", fmt.Sprintf("%T", action), "err", err)
	})

	writer := persist.NewWriter(backend, store.GetState,
		time.Duration(cfg.SaveDelayMs)*time.Millisecond, logger)
	defer writer.Close()
	store.Subscribe(func(state.AppState, state.Action) {
		writer.Notify()
	})

	svc := service.New(store, logger)
	model := app.New(svc, cfg, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to the configured file; the
// terminal belongs to the TUI.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
