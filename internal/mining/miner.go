// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Miner binds a TransactionSet to a shared SupportCounter so frequent
// itemset mining and rule derivation within one run reuse the same memoized
// supports. A Miner is safe for concurrent use: the transaction set and
// counter are read-shared, and nothing else is mutated after construction.
type Miner struct {
	ts       *TransactionSet
	counter  *SupportCounter
	logger   zerolog.Logger
	strategy ThresholdStrategy
	workers  int
}

// MinerOption configures a Miner.
type MinerOption func(*Miner)

// WithWorkers bounds the support-counting worker pool. Values <= 0 select
// GOMAXPROCS.
func WithWorkers(n int) MinerOption {
	return func(m *Miner) { m.workers = n }
}

// WithThresholdStrategy sets the default min_support policy used when
// MineFrequentItemsets is called with a zero threshold.
func WithThresholdStrategy(s ThresholdStrategy) MinerOption {
	return func(m *Miner) { m.strategy = s }
}

// NewMiner creates a Miner over the given transaction set.
func NewMiner(ts *TransactionSet, logger zerolog.Logger, opts ...MinerOption) *Miner {
	m := &Miner{
		ts:       ts,
		counter:  NewSupportCounter(ts),
		logger:   logger.With().Str("component", "mining").Logger(),
		strategy: FixedThreshold(defaultMinSupport),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TransactionSet returns the underlying immutable transaction set.
func (m *Miner) TransactionSet() *TransactionSet { return m.ts }

// MineFrequentItemsets runs the Apriori search. A zero minSupport selects
// the configured threshold strategy's default; any other out-of-range value
// fails with InvalidThresholdError.
func (m *Miner) MineFrequentItemsets(ctx context.Context, minSupport float64) ([]FrequentItemset, error) {
	if minSupport == 0 && m.strategy != nil {
		minSupport = m.strategy(m.ts.Stats())
	}

	start := time.Now()
	itemsets, err := mineWithCounter(ctx, m.ts, m.counter, minSupport, m.workers)
	if err != nil {
		return nil, err
	}

	hits, misses := m.counter.CacheStats()
	m.logger.Debug().
		Float64("min_support", minSupport).
		Int("itemsets", len(itemsets)).
		Int64("support_cache_hits", hits).
		Int64("support_cache_misses", misses).
		Dur("elapsed", time.Since(start)).
		Msg("frequent itemset mining complete")
	return itemsets, nil
}

// DeriveRules generates association rules from previously mined itemsets.
func (m *Miner) DeriveRules(ctx context.Context, itemsets []FrequentItemset, minConfidence float64, opts DeriveOptions) ([]AssociationRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	rules, err := DeriveRules(itemsets, minConfidence, opts)
	if err != nil {
		return nil, err
	}

	m.logger.Debug().
		Float64("min_confidence", minConfidence).
		Float64("min_lift", opts.MinLift).
		Int("rules", len(rules)).
		Dur("elapsed", time.Since(start)).
		Msg("rule derivation complete")
	return rules, nil
}

// SupportCacheStats exposes the shared support memo's hit/miss counters for
// observability.
func (m *Miner) SupportCacheStats() (hits, misses int64) {
	return m.counter.CacheStats()
}
