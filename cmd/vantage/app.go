package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vantage/internal/config"
	"vantage/internal/core"
	"vantage/internal/gemini"
	"vantage/internal/geo"
	"vantage/internal/store"
)

// app bundles the wired components behind the scriptable subcommands.
type app struct {
	cfg   config.Config
	store *store.Store
	orch  *core.Orchestrator
}

// buildApp loads configuration and wires the store, capability client,
// locator and orchestrator for one CLI invocation.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config unreadable, using defaults", zap.Error(err))
	}

	key := cfg.ResolveAPIKey()
	if apiKey != "" {
		key = apiKey
	}
	if key == "" {
		return nil, fmt.Errorf("no API key configured: set %s, run 'vantage config set-key <key>', or pass --api-key", config.EnvAPIKey)
	}

	storePath, err := cfg.ResolveStorePath()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(storePath, logger.Named("store"))
	if err != nil {
		return nil, err
	}

	capability, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:        key,
		GenerateModel: cfg.GenerateModel,
		ChatModel:     cfg.ChatModel,
	}, logger.Named("gemini"))
	if err != nil {
		st.Close()
		return nil, err
	}

	var locator geo.Provider
	if cfg.Geolocate {
		locator = geo.NewIPLocator(logger.Named("geo"))
	}

	reqTimeout := timeout
	if reqTimeout <= 0 {
		reqTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}

	return &app{
		cfg:   cfg,
		store: st,
		orch:  core.New(st, capability, locator, reqTimeout, logger.Named("core")),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("failed to close session store", zap.Error(err))
	}
}
