// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package main is the entry point for the Basketry server.
//
// Basketry mines a point-of-sale export for frequent itemsets and
// association rules and serves them over a REST API: which products sell
// together, how strongly, and what to recommend for a shopper's current
// basket.
//
// # Startup
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog, JSON or console format
//  3. Dataset: sales CSV loaded and grouped into transactions per invoice
//  4. Engine: Apriori miner with per-threshold result caching
//  5. HTTP server: Chi router under a suture supervision tree
//
// # Configuration
//
// Highest priority wins: environment variables, then the config file, then
// built-in defaults. The dataset location is the one setting with no usable
// default in most deployments:
//
//	export DATASET_PATH=/data/sales.csv
//	./basketry
//
// See config.yaml for the full set of keys.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops accepting
// connections and in-flight mining requests get the configured shutdown
// timeout to finish.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/basketry/internal/api"
	"github.com/tomtom215/basketry/internal/config"
	"github.com/tomtom215/basketry/internal/dataset"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/supervisor"
	"github.com/tomtom215/basketry/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)
	logger := logging.Logger()

	logger.Info().
		Str("dataset", cfg.Dataset.Path).
		Int("port", cfg.Server.Port).
		Msg("starting basketry")

	// Load the dataset up front so a bad path fails fast instead of on the
	// first request.
	store := dataset.NewStore(dataset.NewLoader(
		cfg.Dataset.Path,
		cfg.Dataset.InvoiceColumn,
		cfg.Dataset.ProductColumn,
		logger,
	))
	if err := store.Load(); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	engine := api.NewEngine(store, cfg.Mining, cfg.API.CacheTTL, logger)
	handler := api.NewHandler(engine, store, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		return fmt.Errorf("build supervisor tree: %w", err)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Dataset.ReloadInterval > 0 {
		tree.AddDataService(services.NewDatasetReloadService(engine, cfg.Dataset.ReloadInterval, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr).Msg("http server listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
