// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"context"
	"runtime"
	"sort"
	"sync"
)

// Mine discovers every itemset whose support meets or exceeds minSupport,
// using the level-wise Apriori search. The result is sorted by itemset size,
// then lexicographically, so repeated runs over identical input produce
// identical output.
//
// A minSupport high enough that no single item qualifies yields an empty
// result, not an error. minSupport outside (0, 1] fails with
// InvalidThresholdError.
func Mine(ctx context.Context, ts *TransactionSet, minSupport float64) ([]FrequentItemset, error) {
	counter := NewSupportCounter(ts)
	return mineWithCounter(ctx, ts, counter, minSupport, 0)
}

// mineWithCounter runs the Apriori search against a caller-supplied support
// counter so rule derivation can reuse the memoized supports. workers <= 0
// selects GOMAXPROCS.
func mineWithCounter(ctx context.Context, ts *TransactionSet, counter *SupportCounter, minSupport float64, workers int) ([]FrequentItemset, error) {
	if err := validateUnitThreshold("min_support", minSupport); err != nil {
		return nil, err
	}
	if ts == nil || ts.N() == 0 {
		return nil, &EmptyInputError{}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Level 1: every distinct item is a candidate.
	candidates := make([]Itemset, 0, len(ts.Items()))
	for _, it := range ts.Items() {
		candidates = append(candidates, Itemset{it})
	}

	var result []FrequentItemset
	for len(candidates) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		supports, err := countSupports(ctx, counter, candidates, workers)
		if err != nil {
			return nil, err
		}

		level := make([]FrequentItemset, 0, len(candidates))
		for i, c := range candidates {
			if supports[i] >= minSupport {
				level = append(level, FrequentItemset{Items: c, Support: supports[i]})
			}
		}
		if len(level) == 0 {
			break
		}

		// Candidates are generated in canonical order, but sort anyway so
		// determinism never depends on generation details.
		sort.Slice(level, func(i, j int) bool {
			return level[i].Items.Key() < level[j].Items.Key()
		})
		result = append(result, level...)

		candidates = nextCandidates(level)
	}

	return result, nil
}

// countSupports computes supports for all candidates, fanning out across a
// bounded worker pool. Each worker only reads the shared immutable index and
// writes its own result slots, so no locking is needed beyond the counter's
// memo.
func countSupports(ctx context.Context, counter *SupportCounter, candidates []Itemset, workers int) ([]float64, error) {
	supports := make([]float64, len(candidates))
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers <= 1 {
		for i, c := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			supports[i] = counter.Support(c)
		}
		return supports, nil
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				supports[i] = counter.Support(candidates[i])
			}
		}()
	}

	var cancelled error
feed:
	for i := range candidates {
		select {
		case indexes <- i:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return supports, nil
}

// nextCandidates generates size k+1 candidates from the frequent k-itemsets
// via the Apriori-gen join: two sorted itemsets sharing all but their last
// item merge into one candidate. Candidates containing any infrequent
// k-subset are pruned before support counting.
func nextCandidates(level []FrequentItemset) []Itemset {
	frequent := make(map[string]struct{}, len(level))
	for _, fi := range level {
		frequent[fi.Items.Key()] = struct{}{}
	}

	var out []Itemset
	for i := 0; i < len(level); i++ {
		a := level[i].Items
		for j := i + 1; j < len(level); j++ {
			b := level[j].Items
			if !samePrefix(a, b) {
				// The level is sorted, so once prefixes diverge no later
				// itemset shares this one's prefix either.
				break
			}
			candidate := make(Itemset, len(a)+1)
			copy(candidate, a)
			candidate[len(a)] = b[len(b)-1]

			if hasInfrequentSubset(candidate, frequent) {
				continue
			}
			out = append(out, candidate)
		}
	}
	return out
}

// samePrefix reports whether two equal-length sorted itemsets agree on all
// but the last element.
func samePrefix(a, b Itemset) bool {
	for i := 0; i < len(a)-1; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// hasInfrequentSubset reports whether any (k-1)-subset of the candidate is
// missing from the frequent set of the previous level. The two subsets
// obtained by removing one of the last two items are the join inputs and
// are frequent by construction, but checking all of them keeps this honest.
func hasInfrequentSubset(candidate Itemset, frequent map[string]struct{}) bool {
	sub := make(Itemset, len(candidate)-1)
	for skip := range candidate {
		sub = sub[:0]
		for i, it := range candidate {
			if i != skip {
				sub = append(sub, it)
			}
		}
		if _, ok := frequent[sub.Key()]; !ok {
			return true
		}
	}
	return false
}
