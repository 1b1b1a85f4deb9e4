// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

// MiningParamsRequest holds the validated threshold query parameters shared
// by the itemsets and rules endpoints. Zero values mean the parameter was
// omitted and the configured default applies, so every tag is omitempty.
//
// Ranges follow the mining engine's contract: support and confidence live in
// (0, 1], lift has no upper bound.
type MiningParamsRequest struct {
	MinSupport    float64 `validate:"omitempty,gt=0,lte=1"`
	MinConfidence float64 `validate:"omitempty,gt=0,lte=1"`
	MinLift       float64 `validate:"omitempty,gt=0"`
}

// ItemRulesRequest holds the validated parameters for the per-item rule
// lookup endpoint.
type ItemRulesRequest struct {
	Item string `validate:"required,min=1,max=500"`
	Role string `validate:"omitempty,oneof=antecedent consequent any"`
	MiningParamsRequest
}

// AssociateRequest is the request body for POST /associate: the customer's
// current selection plus optional threshold overrides.
type AssociateRequest struct {
	Products      []string `json:"products" validate:"required,min=1,max=100,dive,required,max=500"`
	MinSupport    float64  `json:"min_support" validate:"omitempty,gt=0,lte=1"`
	MinConfidence float64  `json:"min_confidence" validate:"omitempty,gt=0,lte=1"`
	MinLift       float64  `json:"min_lift" validate:"omitempty,gt=0"`
}
