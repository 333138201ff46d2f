// Package bootstrap wires config, logging and adapters for the driftmap
// binaries.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"driftmap/internal/adapters/claudecli"
	"driftmap/internal/adapters/filesystem"
	"driftmap/internal/adapters/sqlite"
	"driftmap/internal/config"
	"driftmap/internal/logging"
	"driftmap/internal/ports"
)

// Options selects the workspace and overrides config values
type Options struct {
	Workspace  string
	ConfigPath string

	// Store and LogLevel override the config file when non-empty
	Store    string
	LogLevel string

	// LogOut receives text logs; nil means stderr
	LogOut io.Writer
}

// Runtime holds the collaborators shared by every entry point
type Runtime struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     ports.PlanStore
	Scanner   *filesystem.Scanner
	Generator ports.DiagramGenerator // nil when the claude CLI is not installed

	// PlanPath is the plan document when the store is a plain file
	PlanPath string

	closers []func() error
}

// Open loads the config and builds the runtime
func Open(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.Workspace, opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Store != "" {
		cfg.Store = opts.Store
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Out:   opts.LogOut,
	})
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		closers: []func() error{closeLog},
	}

	switch cfg.Store {
	case "sqlite":
		store, err := sqlite.Open(cfg.Workspace, cfg.DatabasePath)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to open plan database: %w", err)
		}
		rt.Store = store
		rt.closers = append(rt.closers, store.Close)
	default:
		rt.PlanPath = cfg.PlanPath()
		rt.Store = filesystem.NewPlanStore(rt.PlanPath)
	}

	rt.Scanner = filesystem.NewScanner(cfg.Workspace,
		filesystem.WithIgnoreFile(cfg.IgnoreFilePath()),
		filesystem.WithIgnorePatterns(cfg.Ignore...),
		filesystem.WithLogger(logger),
	)

	if gen := claudecli.NewGenerator(claudecli.WithModel(cfg.Model)); gen.IsAvailable() {
		rt.Generator = gen
	} else {
		logger.Debug("claude CLI not found, plan generation disabled")
	}

	logger.Debug("runtime ready",
		"workspace", cfg.Workspace,
		"store", rt.Store.Location(),
	)
	return rt, nil
}

// Close releases the store and the log file, in reverse order
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
