// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordMiningRunOutcomes(t *testing.T) {
	before := testutil.ToFloat64(MiningRunsTotal.WithLabelValues("itemsets", "ok"))
	RecordMiningRun("itemsets", time.Now(), 12, nil)
	after := testutil.ToFloat64(MiningRunsTotal.WithLabelValues("itemsets", "ok"))
	if after != before+1 {
		t.Errorf("ok counter = %g, want %g", after, before+1)
	}

	beforeEmpty := testutil.ToFloat64(MiningRunsTotal.WithLabelValues("rules", "empty"))
	RecordMiningRun("rules", time.Now(), 0, nil)
	afterEmpty := testutil.ToFloat64(MiningRunsTotal.WithLabelValues("rules", "empty"))
	if afterEmpty != beforeEmpty+1 {
		t.Errorf("empty counter = %g, want %g", afterEmpty, beforeEmpty+1)
	}

	beforeErr := testutil.ToFloat64(MiningRunsTotal.WithLabelValues("itemsets", "error"))
	RecordMiningRun("itemsets", time.Now(), 0, errors.New("boom"))
	afterErr := testutil.ToFloat64(MiningRunsTotal.WithLabelValues("itemsets", "error"))
	if afterErr != beforeErr+1 {
		t.Errorf("error counter = %g, want %g", afterErr, beforeErr+1)
	}
}

func TestSetDatasetStats(t *testing.T) {
	SetDatasetStats(120, 34, 2)

	if got := testutil.ToFloat64(DatasetTransactions); got != 120 {
		t.Errorf("DatasetTransactions = %g, want 120", got)
	}
	if got := testutil.ToFloat64(DatasetProducts); got != 34 {
		t.Errorf("DatasetProducts = %g, want 34", got)
	}
	if got := testutil.ToFloat64(DatasetDroppedRows); got != 2 {
		t.Errorf("DatasetDroppedRows = %g, want 2", got)
	}
}
