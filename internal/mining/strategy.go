// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

// ThresholdStrategy derives a default min_support from transaction
// statistics when the caller does not supply one. There is no single
// canonical formula for this, so it is a policy the caller plugs in rather
// than part of the algorithm.
type ThresholdStrategy func(Stats) float64

// FixedThreshold always returns v.
func FixedThreshold(v float64) ThresholdStrategy {
	return func(Stats) float64 { return v }
}

// AvgFrequencyThreshold scales the average per-item support by the given
// factor, clamped into (0, 1]. With factor 0.5 a dataset where the typical
// item appears in 10% of transactions defaults to min_support 0.05.
func AvgFrequencyThreshold(factor float64) ThresholdStrategy {
	return func(s Stats) float64 {
		v := s.AvgItemFrequency * factor
		if v <= 0 {
			return defaultMinSupport
		}
		if v > 1 {
			return 1
		}
		return v
	}
}

// defaultMinSupport matches the upstream service's historical default.
const defaultMinSupport = 0.01
