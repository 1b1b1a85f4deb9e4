// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"sort"
)

// TransactionSet is the immutable read model for a mining run: an inverted
// index from each distinct item to the sorted indices of the transactions
// containing it. It is built once per run and safe for concurrent readers.
//
// Duplicate items within a single transaction collapse to presence/absence,
// matching the binarization the upstream grouping performs. Rows that are
// empty after deduplication are dropped and counted, not fatal.
type TransactionSet struct {
	postings map[Item][]int
	items    []Item
	n        int
	dropped  int
}

// BuildTransactionSet normalizes raw transactions into a TransactionSet.
// Returns EmptyInputError when no transactions are supplied or every row is
// empty after deduplication.
func BuildTransactionSet(transactions [][]Item) (*TransactionSet, error) {
	if len(transactions) == 0 {
		return nil, &EmptyInputError{}
	}

	postings := make(map[Item][]int)
	dropped := 0
	n := 0

	seen := make(map[Item]struct{})
	for _, row := range transactions {
		clear(seen)
		for _, it := range row {
			if it == "" {
				continue
			}
			seen[it] = struct{}{}
		}
		if len(seen) == 0 {
			dropped++
			continue
		}
		// Appending in transaction order keeps every postings list sorted.
		for it := range seen {
			postings[it] = append(postings[it], n)
		}
		n++
	}

	if n == 0 {
		return nil, &EmptyInputError{Dropped: dropped}
	}

	items := make([]Item, 0, len(postings))
	for it := range postings {
		items = append(items, it)
	}
	sort.Strings(items)

	return &TransactionSet{
		postings: postings,
		items:    items,
		n:        n,
		dropped:  dropped,
	}, nil
}

// N returns the number of retained transactions.
func (ts *TransactionSet) N() int { return ts.n }

// Dropped returns the number of rows discarded for being empty after
// deduplication.
func (ts *TransactionSet) Dropped() int { return ts.dropped }

// Items returns the distinct items observed, in canonical order. The
// returned slice is shared and must not be modified.
func (ts *TransactionSet) Items() []Item { return ts.items }

// SupportOf computes the fraction of transactions containing every item of
// the given itemset. Postings lists are intersected smallest-first so the
// merge cost is bounded by the rarest item.
func (ts *TransactionSet) SupportOf(set Itemset) float64 {
	if len(set) == 0 || ts.n == 0 {
		return 0
	}

	lists := make([][]int, 0, len(set))
	for _, it := range set {
		p, ok := ts.postings[it]
		if !ok {
			return 0
		}
		lists = append(lists, p)
	}
	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })

	acc := lists[0]
	for _, next := range lists[1:] {
		acc = intersectSorted(acc, next)
		if len(acc) == 0 {
			return 0
		}
	}
	return float64(len(acc)) / float64(ts.n)
}

// Stats summarizes the transaction set for threshold heuristics.
type Stats struct {
	Transactions     int
	DistinctItems    int
	AvgItemFrequency float64
}

// Stats returns aggregate statistics over the transaction set.
func (ts *TransactionSet) Stats() Stats {
	s := Stats{Transactions: ts.n, DistinctItems: len(ts.items)}
	if ts.n == 0 || len(ts.items) == 0 {
		return s
	}
	total := 0
	for _, p := range ts.postings {
		total += len(p)
	}
	s.AvgItemFrequency = float64(total) / float64(len(ts.items)) / float64(ts.n)
	return s
}

// intersectSorted merges two ascending index lists, returning the indices
// present in both.
func intersectSorted(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
