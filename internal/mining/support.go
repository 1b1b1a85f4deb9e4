// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"sync"
	"sync/atomic"
)

// SupportCounter memoizes support lookups against a TransactionSet for the
// duration of a mining run. The same itemset is revisited while generating
// candidates and again while deriving rules, so each support is computed at
// most once. Safe for concurrent use; the underlying index is read-only.
type SupportCounter struct {
	ts   *TransactionSet
	mu   sync.RWMutex
	memo map[string]float64

	hits   atomic.Int64
	misses atomic.Int64
}

// NewSupportCounter creates a counter bound to the given transaction set.
func NewSupportCounter(ts *TransactionSet) *SupportCounter {
	return &SupportCounter{
		ts:   ts,
		memo: make(map[string]float64),
	}
}

// Support returns the support of the itemset, computing and caching it on
// first use.
func (c *SupportCounter) Support(set Itemset) float64 {
	key := set.Key()

	c.mu.RLock()
	v, ok := c.memo[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return v
	}

	v = c.ts.SupportOf(set)
	c.misses.Add(1)

	c.mu.Lock()
	c.memo[key] = v
	c.mu.Unlock()
	return v
}

// CacheStats returns the number of memo hits and misses so far.
func (c *SupportCounter) CacheStats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
