// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/cache"
	"github.com/tomtom215/basketry/internal/config"
	"github.com/tomtom215/basketry/internal/dataset"
	"github.com/tomtom215/basketry/internal/metrics"
	"github.com/tomtom215/basketry/internal/mining"
)

// Engine is the facade the HTTP handlers talk to. It binds the dataset store
// to the mining package, resolves default thresholds from configuration, and
// caches mined results per threshold combination. Cached entries are keyed by
// dataset version, so a reload implicitly invalidates them.
type Engine struct {
	store  *dataset.Store
	cfg    config.MiningConfig
	logger zerolog.Logger
	cache  *cache.Cache

	// miner is rebuilt lazily whenever the store version changes. The support
	// memo inside it is shared by every request against the same snapshot.
	mu           sync.Mutex
	miner        *mining.Miner
	minerVersion uint64

	// Last observed support-memo counters, for publishing deltas to
	// prometheus. The miner's counters reset when it is rebuilt.
	lastCacheHits   int64
	lastCacheMisses int64
}

// ItemsetsResult is one frequent-itemset mining outcome.
type ItemsetsResult struct {
	MinSupport float64
	Itemsets   []mining.FrequentItemset
	Cached     bool
}

// RulesResult is one rule derivation outcome.
type RulesResult struct {
	MinSupport    float64
	MinConfidence float64
	MinLift       float64
	Rules         []mining.AssociationRule
	Cached        bool
}

// NewEngine creates an engine over the given store.
func NewEngine(store *dataset.Store, cfg config.MiningConfig, cacheTTL time.Duration, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		cfg:    cfg,
		logger: logger.With().Str("component", "engine").Logger(),
		cache:  cache.New(cacheTTL),
	}
}

// currentMiner returns a Miner for the store's current snapshot, rebuilding
// the transaction set when the dataset has been reloaded since the last call.
func (e *Engine) currentMiner() (*mining.Miner, uint64, error) {
	snap, version, err := e.store.Current()
	if err != nil {
		return nil, 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.miner == nil || e.minerVersion != version {
		ts, err := mining.BuildTransactionSet(snap.Transactions)
		if err != nil {
			return nil, 0, err
		}

		opts := []mining.MinerOption{mining.WithWorkers(e.cfg.Workers)}
		if e.cfg.ThresholdStrategy == "avg_frequency" {
			opts = append(opts, mining.WithThresholdStrategy(mining.AvgFrequencyThreshold(e.cfg.AvgFrequencyFactor)))
		} else {
			opts = append(opts, mining.WithThresholdStrategy(mining.FixedThreshold(e.cfg.DefaultMinSupport)))
		}

		e.miner = mining.NewMiner(ts, e.logger, opts...)
		e.minerVersion = version
		e.lastCacheHits, e.lastCacheMisses = 0, 0

		e.logger.Info().
			Uint64("dataset_version", version).
			Int("transactions", ts.N()).
			Msg("transaction set rebuilt")
	}

	return e.miner, e.minerVersion, nil
}

// resolveMinSupport maps an omitted (zero) threshold to the configured
// strategy's value for the current dataset.
func (e *Engine) resolveMinSupport(m *mining.Miner, minSupport float64) float64 {
	if minSupport != 0 {
		return minSupport
	}
	stats := m.TransactionSet().Stats()
	if e.cfg.ThresholdStrategy == "avg_frequency" {
		return mining.AvgFrequencyThreshold(e.cfg.AvgFrequencyFactor)(stats)
	}
	return e.cfg.DefaultMinSupport
}

func (e *Engine) resolveMinConfidence(minConfidence float64) float64 {
	if minConfidence != 0 {
		return minConfidence
	}
	return e.cfg.DefaultMinConfidence
}

type itemsetsKey struct {
	Version    uint64
	MinSupport float64
}

// FrequentItemsets mines frequent itemsets at the given support threshold,
// serving from the result cache when possible. A zero minSupport selects the
// configured default.
func (e *Engine) FrequentItemsets(ctx context.Context, minSupport float64) (*ItemsetsResult, error) {
	miner, version, err := e.currentMiner()
	if err != nil {
		return nil, err
	}
	minSupport = e.resolveMinSupport(miner, minSupport)

	key := cache.GenerateKey("itemsets", itemsetsKey{Version: version, MinSupport: minSupport})
	if v, ok := e.cache.Get(key); ok {
		metrics.ResultCacheHits.Inc()
		cached := v.(*ItemsetsResult)
		return &ItemsetsResult{MinSupport: cached.MinSupport, Itemsets: cached.Itemsets, Cached: true}, nil
	}
	metrics.ResultCacheMisses.Inc()

	start := time.Now()
	itemsets, err := miner.MineFrequentItemsets(ctx, minSupport)
	metrics.RecordMiningRun("itemsets", start, len(itemsets), err)
	e.publishSupportCacheStats(miner)
	if err != nil {
		return nil, err
	}

	result := &ItemsetsResult{MinSupport: minSupport, Itemsets: itemsets}
	e.cache.Set(key, result)
	return result, nil
}

type rulesKey struct {
	Version       uint64
	MinSupport    float64
	MinConfidence float64
	MinLift       float64
}

// Rules mines frequent itemsets and derives association rules. Zero
// thresholds select the configured defaults; a zero minLift disables the
// lift filter entirely.
func (e *Engine) Rules(ctx context.Context, minSupport, minConfidence, minLift float64) (*RulesResult, error) {
	miner, version, err := e.currentMiner()
	if err != nil {
		return nil, err
	}
	minSupport = e.resolveMinSupport(miner, minSupport)
	minConfidence = e.resolveMinConfidence(minConfidence)

	key := cache.GenerateKey("rules", rulesKey{
		Version:       version,
		MinSupport:    minSupport,
		MinConfidence: minConfidence,
		MinLift:       minLift,
	})
	if v, ok := e.cache.Get(key); ok {
		metrics.ResultCacheHits.Inc()
		cached := v.(*RulesResult)
		return &RulesResult{
			MinSupport:    cached.MinSupport,
			MinConfidence: cached.MinConfidence,
			MinLift:       cached.MinLift,
			Rules:         cached.Rules,
			Cached:        true,
		}, nil
	}
	metrics.ResultCacheMisses.Inc()

	itemsets, err := e.FrequentItemsets(ctx, minSupport)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rules, err := miner.DeriveRules(ctx, itemsets.Itemsets, minConfidence, mining.DeriveOptions{MinLift: minLift})
	metrics.RecordMiningRun("rules", start, len(rules), err)
	if err != nil {
		return nil, err
	}

	result := &RulesResult{
		MinSupport:    minSupport,
		MinConfidence: minConfidence,
		MinLift:       minLift,
		Rules:         rules,
	}
	e.cache.Set(key, result)
	return result, nil
}

// RulesForItem derives rules and filters them to those referencing item in
// the given role.
func (e *Engine) RulesForItem(ctx context.Context, item string, role mining.Role, minSupport, minConfidence, minLift float64) (*RulesResult, error) {
	all, err := e.Rules(ctx, minSupport, minConfidence, minLift)
	if err != nil {
		return nil, err
	}

	index := mining.BuildRuleIndex(all.Rules)
	return &RulesResult{
		MinSupport:    all.MinSupport,
		MinConfidence: all.MinConfidence,
		MinLift:       all.MinLift,
		Rules:         index.Lookup(item, role),
		Cached:        all.Cached,
	}, nil
}

// publishSupportCacheStats pushes the support memo's counter deltas to the
// prometheus counters.
func (e *Engine) publishSupportCacheStats(miner *mining.Miner) {
	hits, misses := miner.SupportCacheStats()

	e.mu.Lock()
	dh, dm := hits-e.lastCacheHits, misses-e.lastCacheMisses
	e.lastCacheHits, e.lastCacheMisses = hits, misses
	e.mu.Unlock()

	if dh > 0 {
		metrics.SupportCacheHits.Add(float64(dh))
	}
	if dm > 0 {
		metrics.SupportCacheMisses.Add(float64(dm))
	}
}

// Reload re-reads the dataset and drops every cached result. The miner is
// rebuilt lazily on the next request.
func (e *Engine) Reload() error {
	if err := e.store.Load(); err != nil {
		return err
	}
	e.cache.Clear()
	e.logger.Info().Msg("dataset reloaded, result cache cleared")
	return nil
}

// CacheStats exposes result cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.GetStats()
}
