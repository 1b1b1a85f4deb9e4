// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"context"
	"errors"
	"testing"
)

// scenarioATransactions is the reference dataset used across the mining
// tests: four baskets over three products.
func scenarioATransactions() [][]Item {
	return [][]Item{
		{"A", "B"},
		{"A", "B"},
		{"A", "C"},
		{"B", "C"},
	}
}

func mustTransactionSet(t *testing.T, rows [][]Item) *TransactionSet {
	t.Helper()
	ts, err := BuildTransactionSet(rows)
	if err != nil {
		t.Fatalf("BuildTransactionSet() error = %v", err)
	}
	return ts
}

func findItemset(itemsets []FrequentItemset, items ...Item) (FrequentItemset, bool) {
	want := NewItemset(items...)
	for _, fi := range itemsets {
		if fi.Items.Equal(want) {
			return fi, true
		}
	}
	return FrequentItemset{}, false
}

func TestMineScenarioA(t *testing.T) {
	ts := mustTransactionSet(t, scenarioATransactions())

	itemsets, err := Mine(context.Background(), ts, 0.5)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	want := []struct {
		items   []Item
		support float64
	}{
		{[]Item{"A"}, 0.75},
		{[]Item{"B"}, 0.75},
		{[]Item{"C"}, 0.5},
		{[]Item{"A", "B"}, 0.5},
	}
	if len(itemsets) != len(want) {
		t.Fatalf("Mine() returned %d itemsets, want %d: %v", len(itemsets), len(want), itemsets)
	}
	for _, w := range want {
		fi, ok := findItemset(itemsets, w.items...)
		if !ok {
			t.Errorf("itemset %v missing from result", w.items)
			continue
		}
		if !approxEqual(fi.Support, w.support) {
			t.Errorf("support(%v) = %g, want %g", w.items, fi.Support, w.support)
		}
	}

	// {A,C} and {B,C} sit at 0.25 and must not survive.
	if _, ok := findItemset(itemsets, "A", "C"); ok {
		t.Error("itemset {A,C} present, want pruned")
	}
	if _, ok := findItemset(itemsets, "B", "C"); ok {
		t.Error("itemset {B,C} present, want pruned")
	}
}

func TestMineOrderingDeterministic(t *testing.T) {
	ts := mustTransactionSet(t, scenarioATransactions())

	first, err := Mine(context.Background(), ts, 0.25)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	second, err := Mine(context.Background(), ts, 0.25)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Items.Equal(second[i].Items) || !approxEqual(first[i].Support, second[i].Support) {
			t.Errorf("position %d differs: %v vs %v", i, first[i], second[i])
		}
	}

	// Canonical order: size ascending, then lexicographic.
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if len(prev.Items) > len(cur.Items) {
			t.Errorf("itemset size decreased at %d: %v after %v", i, cur.Items, prev.Items)
		}
		if len(prev.Items) == len(cur.Items) && prev.Items.Key() >= cur.Items.Key() {
			t.Errorf("lexicographic order violated at %d: %v after %v", i, cur.Items, prev.Items)
		}
	}
}

func TestMineAntiMonotonicity(t *testing.T) {
	ts := mustTransactionSet(t, [][]Item{
		{"Bread", "Butter", "Milk"},
		{"Bread", "Butter"},
		{"Bread", "Milk"},
		{"Butter", "Milk", "Eggs"},
		{"Bread", "Butter", "Milk", "Eggs"},
		{"Milk", "Eggs"},
	})

	itemsets, err := Mine(context.Background(), ts, 0.3)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	supports := make(map[string]float64, len(itemsets))
	for _, fi := range itemsets {
		supports[fi.Items.Key()] = fi.Support
	}

	// Every (k-1)-subset of a frequent itemset must itself be frequent with
	// support at least as high.
	for _, fi := range itemsets {
		if len(fi.Items) < 2 {
			continue
		}
		for skip := range fi.Items {
			sub := make(Itemset, 0, len(fi.Items)-1)
			for i, it := range fi.Items {
				if i != skip {
					sub = append(sub, it)
				}
			}
			subSupport, ok := supports[sub.Key()]
			if !ok {
				t.Errorf("subset %v of frequent %v not frequent", sub, fi.Items)
				continue
			}
			if subSupport < fi.Support {
				t.Errorf("support(%v) = %g < support(%v) = %g", sub, subSupport, fi.Items, fi.Support)
			}
		}
	}
}

func TestMineEmptyResultNotError(t *testing.T) {
	// No item appears in 100% of these transactions.
	ts := mustTransactionSet(t, [][]Item{
		{"A"},
		{"B"},
	})

	itemsets, err := Mine(context.Background(), ts, 1.0)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if len(itemsets) != 0 {
		t.Errorf("Mine() = %v, want empty", itemsets)
	}
}

func TestMineFullSupport(t *testing.T) {
	// Identical transactions: everything is frequent at min_support 1.0.
	ts := mustTransactionSet(t, [][]Item{
		{"A", "B"},
		{"A", "B"},
	})

	itemsets, err := Mine(context.Background(), ts, 1.0)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if len(itemsets) != 3 { // {A}, {B}, {A,B}
		t.Errorf("Mine() returned %d itemsets, want 3: %v", len(itemsets), itemsets)
	}
}

func TestMineInvalidThresholds(t *testing.T) {
	ts := mustTransactionSet(t, scenarioATransactions())

	for _, v := range []float64{0, -0.1, 1.5} {
		_, err := Mine(context.Background(), ts, v)
		var thErr *InvalidThresholdError
		if !errors.As(err, &thErr) {
			t.Errorf("Mine(min_support=%g) error = %v, want InvalidThresholdError", v, err)
			continue
		}
		if thErr.Param != "min_support" {
			t.Errorf("Param = %q, want min_support", thErr.Param)
		}
	}
}

func TestMineCancelledContext(t *testing.T) {
	ts := mustTransactionSet(t, scenarioATransactions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Mine(ctx, ts, 0.5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Mine() error = %v, want context.Canceled", err)
	}
}

func TestMineSingleWorkerMatchesParallel(t *testing.T) {
	rows := [][]Item{
		{"A", "B", "C", "D"},
		{"A", "B", "C"},
		{"A", "B"},
		{"B", "C", "D"},
		{"A", "C", "D"},
		{"B", "D"},
	}
	ts := mustTransactionSet(t, rows)

	serial, err := mineWithCounter(context.Background(), ts, NewSupportCounter(ts), 0.3, 1)
	if err != nil {
		t.Fatalf("serial mine error = %v", err)
	}
	parallel, err := mineWithCounter(context.Background(), ts, NewSupportCounter(ts), 0.3, 8)
	if err != nil {
		t.Fatalf("parallel mine error = %v", err)
	}

	if len(serial) != len(parallel) {
		t.Fatalf("result lengths differ: %d vs %d", len(serial), len(parallel))
	}
	for i := range serial {
		if !serial[i].Items.Equal(parallel[i].Items) || !approxEqual(serial[i].Support, parallel[i].Support) {
			t.Errorf("position %d differs: %v vs %v", i, serial[i], parallel[i])
		}
	}
}
