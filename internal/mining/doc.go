// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package mining implements frequent itemset discovery and association rule
// derivation over transaction data using the Apriori algorithm.
//
// The pipeline is strictly layered:
//
//	TransactionSet -> Mine (Apriori) -> DeriveRules -> RuleIndex
//
// A TransactionSet is an immutable inverted index from item to the
// transaction indices containing it. Mine performs the level-wise
// candidate-generation-and-pruning search, counting candidate supports in
// parallel against the shared read-only index. DeriveRules enumerates
// antecedent/consequent splits of each frequent itemset and scores them by
// confidence and lift, reusing supports cached during mining. RuleIndex
// answers "rules where item X appears as antecedent/consequent/either"
// lookups without rescanning the rule list.
//
// All outputs are deterministic: itemsets are kept in canonical sorted
// order, so repeated runs over identical input produce identical results.
//
// Note: This package has no dependencies on other internal packages to
// maintain clean separation. Callers own threshold policy, caching across
// requests, and serialization.
package mining
