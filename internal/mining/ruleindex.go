// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import "fmt"

// Role selects which side of a rule an item lookup matches.
type Role int

const (
	// RoleAntecedent matches rules where the item appears on the "if" side.
	RoleAntecedent Role = iota

	// RoleConsequent matches rules where the item appears on the "then" side.
	RoleConsequent

	// RoleAny matches rules where the item appears on either side.
	RoleAny
)

// ParseRole maps the wire-level role names to a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "antecedent":
		return RoleAntecedent, nil
	case "consequent":
		return RoleConsequent, nil
	case "any", "":
		return RoleAny, nil
	}
	return 0, fmt.Errorf("unknown role %q: want antecedent, consequent or any", s)
}

// RuleIndex answers "rules referencing item X as antecedent/consequent"
// queries in time proportional to the matches rather than the rule count.
// Built once over an immutable rule list; safe for concurrent readers.
type RuleIndex struct {
	rules        []AssociationRule
	byAntecedent map[Item][]int
	byConsequent map[Item][]int
}

// BuildRuleIndex indexes the given rules by the items they reference. The
// rule slice is retained; positions into it preserve the caller's ordering.
func BuildRuleIndex(rules []AssociationRule) *RuleIndex {
	idx := &RuleIndex{
		rules:        rules,
		byAntecedent: make(map[Item][]int),
		byConsequent: make(map[Item][]int),
	}
	for i, r := range rules {
		for _, it := range r.Antecedent {
			idx.byAntecedent[it] = append(idx.byAntecedent[it], i)
		}
		for _, it := range r.Consequent {
			idx.byConsequent[it] = append(idx.byConsequent[it], i)
		}
	}
	return idx
}

// Lookup returns the rules referencing the item in the given role, in the
// order of the indexed rule list. An item never seen in any rule yields an
// empty result, not an error.
func (idx *RuleIndex) Lookup(item Item, role Role) []AssociationRule {
	var positions []int
	switch role {
	case RoleAntecedent:
		positions = idx.byAntecedent[item]
	case RoleConsequent:
		positions = idx.byConsequent[item]
	case RoleAny:
		// Both lists are ascending; merge without duplicates. A rule's two
		// sides are disjoint, so an index never repeats within one list.
		positions = mergeSorted(idx.byAntecedent[item], idx.byConsequent[item])
	}

	out := make([]AssociationRule, 0, len(positions))
	for _, p := range positions {
		out = append(out, idx.rules[p])
	}
	return out
}

// mergeSorted merges two ascending int slices, dropping duplicates.
func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
