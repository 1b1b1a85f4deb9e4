// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import (
	"sort"
	"strings"
)

// Item identifies a single product. Items are compared by equality only;
// lexicographic order is used solely as the canonical tie-break so that two
// itemsets with the same members are represented identically regardless of
// discovery order.
type Item = string

// keySep separates items inside an Itemset key. Unit separator is not
// expected to occur in product identifiers.
const keySep = "\x1f"

// Itemset is a set of distinct items held in canonical sorted order.
// The zero value is an empty itemset.
type Itemset []Item

// NewItemset builds a canonical itemset from the given items, dropping
// duplicates and sorting lexicographically.
func NewItemset(items ...Item) Itemset {
	if len(items) == 0 {
		return nil
	}
	set := make(Itemset, 0, len(items))
	seen := make(map[Item]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		set = append(set, it)
	}
	sort.Strings(set)
	return set
}

// Key returns the canonical string key for the itemset, suitable for use as
// a map key. Two itemsets with the same members always produce the same key.
func (s Itemset) Key() string {
	return strings.Join(s, keySep)
}

// Contains reports whether the itemset includes the given item.
func (s Itemset) Contains(item Item) bool {
	i := sort.SearchStrings(s, item)
	return i < len(s) && s[i] == item
}

// ContainsAll reports whether every item of other is present in s.
func (s Itemset) ContainsAll(other Itemset) bool {
	for _, it := range other {
		if !s.Contains(it) {
			return false
		}
	}
	return true
}

// Equal reports whether two itemsets have identical members.
func (s Itemset) Equal(other Itemset) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Minus returns the items of s not present in other, preserving canonical
// order. The receiver is not modified.
func (s Itemset) Minus(other Itemset) Itemset {
	out := make(Itemset, 0, len(s))
	for _, it := range s {
		if !other.Contains(it) {
			out = append(out, it)
		}
	}
	return out
}

// String renders the itemset for logs and error messages.
func (s Itemset) String() string {
	return strings.Join(s, ", ")
}

// FrequentItemset pairs an itemset with its support, the fraction of
// transactions containing every item of the set.
type FrequentItemset struct {
	Items   Itemset `json:"items"`
	Support float64 `json:"support"`
}

// AssociationRule is a directional implication antecedent -> consequent
// derived from a frequent itemset. Antecedent and consequent are non-empty,
// disjoint, and their union is frequent.
type AssociationRule struct {
	Antecedent Itemset `json:"antecedents"`
	Consequent Itemset `json:"consequents"`

	// Support is the support of antecedent union consequent.
	Support float64 `json:"support"`

	// Confidence is support(union) / support(antecedent).
	Confidence float64 `json:"confidence"`

	// Lift is confidence / support(consequent). Values above 1 indicate the
	// consequent is more likely given the antecedent than at its base rate.
	Lift float64 `json:"lift"`
}
