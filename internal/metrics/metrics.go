// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

// Package metrics provides Prometheus instrumentation for Basketry:
// mining run latency and output sizes, support-cache efficiency, result
// cache efficiency, API endpoint latency and throughput, and dataset size.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mining metrics
	MiningDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mining_run_duration_seconds",
			Help:    "Duration of mining stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "itemsets", "rules"
	)

	MiningRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mining_runs_total",
			Help: "Total number of mining runs by stage and outcome",
		},
		[]string{"stage", "outcome"}, // outcome: "ok", "error", "empty"
	)

	FrequentItemsetsFound = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mining_frequent_itemsets",
			Help:    "Number of frequent itemsets produced per run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	RulesGenerated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mining_rules_generated",
			Help:    "Number of association rules produced per run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	SupportCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mining_support_cache_hits_total",
			Help: "Total support memo cache hits",
		},
	)

	SupportCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mining_support_cache_misses_total",
			Help: "Total support memo cache misses",
		},
	)

	// Result cache metrics (per threshold-combination TTL cache)
	ResultCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_hits_total",
			Help: "Total mining result cache hits",
		},
	)

	ResultCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_misses_total",
			Help: "Total mining result cache misses",
		},
	)

	// Dataset metrics
	DatasetTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_transactions",
			Help: "Number of transactions in the loaded dataset",
		},
	)

	DatasetProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_products",
			Help: "Number of distinct products in the loaded dataset",
		},
	)

	DatasetDroppedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_dropped_rows",
			Help: "Rows dropped during the last dataset load for being empty",
		},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordMiningRun observes one mining stage: its duration and outcome.
func RecordMiningRun(stage string, start time.Time, produced int, err error) {
	MiningDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case produced == 0:
		outcome = "empty"
	}
	MiningRunsTotal.WithLabelValues(stage, outcome).Inc()

	if err != nil {
		return
	}
	switch stage {
	case "itemsets":
		FrequentItemsetsFound.Observe(float64(produced))
	case "rules":
		RulesGenerated.Observe(float64(produced))
	}
}

// RecordAPIRequest observes one HTTP request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SetDatasetStats updates the dataset gauges after a (re)load.
func SetDatasetStats(transactions, products, dropped int) {
	DatasetTransactions.Set(float64(transactions))
	DatasetProducts.Set(float64(products))
	DatasetDroppedRows.Set(float64(dropped))
}
