// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package api provides the HTTP surface of Basketry: Chi routing, request
// validation, the mining engine facade with its result cache, and the
// standardized JSON response envelope.
package api
