// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package models defines the wire-level types shared by the HTTP handlers.
package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by every endpoint.
//
// Status is "success" or "error". Data carries the payload on success;
// Error carries structured details on failure. Metadata is always present.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// QueryTimeMS is the mining/derivation time in milliseconds; it is 0 and
// Cached is true when the response was served from the result cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error payload.
//
// Common codes: VALIDATION_ERROR, EMPTY_DATASET, DATASET_ERROR, NOT_FOUND,
// MINING_ERROR, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
