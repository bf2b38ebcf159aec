package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/socgen/internal/ctxlog"
	"github.com/vk/socgen/internal/hcl"
	"github.com/vk/socgen/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	library  *hcl.Library
	registry *registry.Registry
}

// New loads the description named by cfg and populates a registry from it.
// Reports and listings go to outW, logs to logW.
func New(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	lib, err := hcl.NewLoader().Load(ctx, cfg.Paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load description: %w", err)
	}
	logger.Debug("Description loaded.", "definitions", len(lib.Definitions()))

	reg := registry.New()
	if err := reg.Populate(ctx, lib); err != nil {
		return nil, err
	}
	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.",
		"protocols", len(reg.Protocols()), "adapters", len(reg.Adapters()))

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		library:  lib,
		registry: reg,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
