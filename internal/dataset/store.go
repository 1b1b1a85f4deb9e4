// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package dataset

import (
	"errors"
	"sync"

	"github.com/tomtom215/basketry/internal/metrics"
)

// ErrNotLoaded indicates no dataset snapshot has been loaded yet.
var ErrNotLoaded = errors.New("dataset not loaded")

// Store holds the current dataset snapshot behind a read-write lock.
//
// Readers get the snapshot pointer and work on it lock-free; Reload swaps
// the pointer atomically, so in-flight mining runs keep the snapshot they
// started with.
type Store struct {
	loader *Loader

	mu      sync.RWMutex
	snap    *Snapshot
	version uint64
}

// NewStore creates an empty store backed by the given loader.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// Load reads the dataset and installs it as the current snapshot. The first
// call populates the store; later calls are reloads. On error the previous
// snapshot, if any, stays in place.
func (s *Store) Load() error {
	snap, err := s.loader.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snap = snap
	s.version++
	s.mu.Unlock()

	metrics.SetDatasetStats(len(snap.Transactions), len(snap.Products), snap.Skipped)
	return nil
}

// Snapshot returns the current snapshot, or ErrNotLoaded before the first
// successful Load.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

// Current returns the snapshot and its version together, so callers keying
// caches by version never pair a version with a newer snapshot.
func (s *Store) Current() (*Snapshot, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, 0, ErrNotLoaded
	}
	return s.snap, s.version, nil
}

// Version is incremented on every successful Load. Cached mining results
// keyed by version become unreachable after a reload.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
