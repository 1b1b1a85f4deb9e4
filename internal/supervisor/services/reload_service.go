// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reloader re-reads the dataset and invalidates derived state. Satisfied by
// the API engine.
type Reloader interface {
	Reload() error
}

// DatasetReloadService periodically reloads the sales export so a Basketry
// instance pointed at a file that is rewritten by an upstream export job
// picks up new data without a restart. Reload failures are logged and
// retried on the next tick; the previous snapshot stays in service.
type DatasetReloadService struct {
	reloader Reloader
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewDatasetReloadService creates the reloader service. interval must be
// positive; callers disable automatic reloads by not adding the service.
func NewDatasetReloadService(reloader Reloader, interval time.Duration, logger zerolog.Logger) *DatasetReloadService {
	return &DatasetReloadService{
		reloader: reloader,
		interval: interval,
		logger:   logger.With().Str("component", "dataset-reload").Logger(),
		name:     "dataset-reload",
	}
}

// Serve implements suture.Service.
func (s *DatasetReloadService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.reloader.Reload(); err != nil {
				s.logger.Error().Err(err).Msg("periodic dataset reload failed")
				continue
			}
			s.logger.Debug().Msg("periodic dataset reload complete")
		}
	}
}

// String identifies the service in suture's log messages.
func (s *DatasetReloadService) String() string {
	return s.name
}
