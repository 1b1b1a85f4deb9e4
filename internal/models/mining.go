// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package models

import "github.com/tomtom215/basketry/internal/mining"

// ProductsResponse lists the distinct products in the loaded dataset.
type ProductsResponse struct {
	ProductsCount int      `json:"products_count"`
	Products      []string `json:"products"`
}

// ItemsetsResponse carries the frequent itemsets for one mining run.
type ItemsetsResponse struct {
	MinSupport float64                  `json:"min_support"`
	Count      int                      `json:"count"`
	Itemsets   []mining.FrequentItemset `json:"itemsets"`
}

// RulesResponse carries the association rules for one mining run.
type RulesResponse struct {
	MinSupport    float64                  `json:"min_support"`
	MinConfidence float64                  `json:"min_confidence"`
	MinLift       float64                  `json:"min_lift,omitempty"`
	Count         int                      `json:"count"`
	Rules         []mining.AssociationRule `json:"rules"`
}

// ItemRulesResponse carries the rules referencing one item in a role.
type ItemRulesResponse struct {
	Item  string                   `json:"item"`
	Role  string                   `json:"role"`
	Count int                      `json:"count"`
	Rules []mining.AssociationRule `json:"rules"`
}

// Recommendation suggests products implied by a rule whose antecedent is
// covered by the customer's selection.
type Recommendation struct {
	BasedOn    []string `json:"based_on"`
	Recommend  []string `json:"recommend"`
	Support    float64  `json:"support"`
	Confidence float64  `json:"confidence"`
	Lift       float64  `json:"lift"`
}

// AssociateResponse carries product recommendations for a selection.
type AssociateResponse struct {
	Message         string           `json:"message,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}
