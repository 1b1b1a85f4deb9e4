// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package mining

import "fmt"

// EmptyInputError indicates that no usable transactions were supplied:
// either the input sequence was empty, or every row was empty after
// deduplication. Dropped records how many empty rows were discarded.
type EmptyInputError struct {
	Dropped int
}

func (e *EmptyInputError) Error() string {
	if e.Dropped > 0 {
		return fmt.Sprintf("no usable transactions: all %d rows were empty after deduplication", e.Dropped)
	}
	return "no transactions supplied"
}

// InvalidThresholdError indicates a mining parameter outside its valid
// range. Support and confidence thresholds must lie in (0, 1]; a lift
// threshold must be positive.
type InvalidThresholdError struct {
	Param string
	Value float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid %s threshold %g: must be in (0, 1]", e.Param, e.Value)
}

// validateUnitThreshold enforces the (0, 1] range shared by min_support and
// min_confidence. A zero threshold is rejected because it makes the search
// degenerate: every subset of every transaction would qualify.
func validateUnitThreshold(param string, v float64) error {
	if v <= 0 || v > 1 {
		return &InvalidThresholdError{Param: param, Value: v}
	}
	return nil
}
