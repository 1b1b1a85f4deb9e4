// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"sort"
)

// DeriveOptions tunes rule derivation beyond the confidence threshold.
type DeriveOptions struct {
	// MinLift, when positive, additionally requires each rule's lift to meet
	// this value. Zero disables the lift filter. Lift is unbounded above, so
	// thresholds greater than 1 are valid here.
	MinLift float64
}

// DeriveRules enumerates every non-trivial antecedent/consequent split of
// each frequent itemset of size >= 2 and retains the rules whose confidence
// meets minConfidence (and whose lift meets opts.MinLift, when set).
//
// Supports are taken from the supplied itemsets, never recomputed from raw
// transactions, so the input must be closed under subsets the way Mine's
// output is (the Apriori property guarantees every subset of a frequent
// itemset is itself frequent). Splits whose parts are missing from the
// input are skipped.
//
// Rules are sorted by descending confidence, then descending support, then
// canonical antecedent and consequent order. An empty result is not an
// error; callers decide whether "no rules" is user-visible as one.
func DeriveRules(itemsets []FrequentItemset, minConfidence float64, opts DeriveOptions) ([]AssociationRule, error) {
	if err := validateUnitThreshold("min_confidence", minConfidence); err != nil {
		return nil, err
	}
	if opts.MinLift < 0 {
		return nil, &InvalidThresholdError{Param: "min_lift", Value: opts.MinLift}
	}

	supports := make(map[string]float64, len(itemsets))
	for _, fi := range itemsets {
		supports[fi.Items.Key()] = fi.Support
	}

	var rules []AssociationRule
	for _, fi := range itemsets {
		if len(fi.Items) < 2 {
			continue
		}
		rules = append(rules, splitItemset(fi, supports, minConfidence, opts.MinLift)...)
	}

	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		if ak, bk := a.Antecedent.Key(), b.Antecedent.Key(); ak != bk {
			return ak < bk
		}
		return a.Consequent.Key() < b.Consequent.Key()
	})

	return rules, nil
}

// splitItemset enumerates candidate antecedents of one frequent itemset from
// largest to smallest. Confidence is supp(itemset)/supp(antecedent) and
// supp(antecedent) can only grow as the antecedent shrinks, so once an
// antecedent fails the confidence threshold every subset of it fails too and
// is skipped without scoring. Lift failures do not prune, since lift is not
// monotone in the antecedent.
func splitItemset(fi FrequentItemset, supports map[string]float64, minConfidence, minLift float64) []AssociationRule {
	n := len(fi.Items)
	failed := make(map[string]struct{})

	var rules []AssociationRule
	for size := n - 1; size >= 1; size-- {
		for _, idx := range combinations(n, size) {
			antecedent := make(Itemset, 0, size)
			for _, i := range idx {
				antecedent = append(antecedent, fi.Items[i])
			}
			key := antecedent.Key()

			if size < n-1 && insideFailed(fi.Items, antecedent, failed) {
				failed[key] = struct{}{}
				continue
			}

			antSupport, ok := supports[key]
			if !ok || antSupport == 0 {
				continue
			}
			consequent := fi.Items.Minus(antecedent)
			conSupport, ok := supports[consequent.Key()]
			if !ok || conSupport == 0 {
				continue
			}

			confidence := fi.Support / antSupport
			if confidence < minConfidence {
				failed[key] = struct{}{}
				continue
			}

			lift := confidence / conSupport
			if minLift > 0 && lift < minLift {
				continue
			}

			rules = append(rules, AssociationRule{
				Antecedent: antecedent,
				Consequent: consequent,
				Support:    fi.Support,
				Confidence: confidence,
				Lift:       lift,
			})
		}
	}
	return rules
}

// insideFailed reports whether any (size+1)-superset of the antecedent within
// full already failed the confidence threshold. Supersets are built in
// canonical order from full's remaining items.
func insideFailed(full, antecedent Itemset, failed map[string]struct{}) bool {
	if len(failed) == 0 {
		return false
	}
	super := make(Itemset, 0, len(antecedent)+1)
	for _, extra := range full {
		if antecedent.Contains(extra) {
			continue
		}
		super = super[:0]
		placed := false
		for _, it := range antecedent {
			if !placed && extra < it {
				super = append(super, extra)
				placed = true
			}
			super = append(super, it)
		}
		if !placed {
			super = append(super, extra)
		}
		if _, ok := failed[super.Key()]; ok {
			return true
		}
	}
	return false
}

// combinations returns all index combinations of the given size from [0, n),
// in lexicographic order.
func combinations(n, size int) [][]int {
	var out [][]int
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	for {
		pick := make([]int, size)
		copy(pick, idx)
		out = append(out, pick)

		// Advance to the next combination.
		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
