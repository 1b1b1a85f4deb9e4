// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/basketry/internal/config"
	"github.com/tomtom215/basketry/internal/dataset"
	"github.com/tomtom215/basketry/internal/logging"
	"github.com/tomtom215/basketry/internal/mining"
	"github.com/tomtom215/basketry/internal/models"
)

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	engine    *Engine
	store     *dataset.Store
	cfg       *config.Config
	startTime time.Time
}

// NewHandler creates a handler set.
func NewHandler(engine *Engine, store *dataset.Store, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		store:     store,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// requestContext bounds a mining request by the configured timeout.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.cfg.API.RequestTimeout)
}

func (h *Handler) respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, start time.Time, cached bool) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondDomainError maps dataset and mining errors onto API error codes.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var thresholdErr *mining.InvalidThresholdError
	var emptyErr *mining.EmptyInputError
	var colErr *dataset.ColumnError

	switch {
	case errors.As(err, &thresholdErr):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, thresholdErr.Error(), nil)
	case errors.As(err, &emptyErr):
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeEmptyDataset, emptyErr.Error(), nil)
	case errors.Is(err, dataset.ErrNotLoaded):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeDatasetError, "dataset not loaded", err)
	case errors.Is(err, dataset.ErrEmptyFile), errors.As(err, &colErr):
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatasetError, err.Error(), err)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "mining did not finish within the request timeout", err)
	case errors.Is(err, context.Canceled):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeTimeout, "request canceled", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred", err)
	}
}

// parseMiningParams extracts and validates the shared threshold parameters.
// Returns false after writing an error response when the parameters are bad.
func parseMiningParams(w http.ResponseWriter, r *http.Request) (MiningParamsRequest, bool) {
	var req MiningParamsRequest
	var err error

	if req.MinSupport, err = getFloatParam(r, "min_support"); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return req, false
	}
	if req.MinConfidence, err = getFloatParam(r, "min_confidence"); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return req, false
	}
	if req.MinLift, err = getFloatParam(r, "min_lift"); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return req, false
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return req, false
	}
	return req, true
}

// Products lists the distinct products in the loaded dataset.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, err := h.store.Snapshot()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.respondSuccess(w, r, models.ProductsResponse{
		ProductsCount: len(snap.Products),
		Products:      snap.Products,
	}, start, false)
}

// Itemsets mines and returns the frequent itemsets for the requested
// support threshold.
func (h *Handler) Itemsets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := parseMiningParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.engine.FrequentItemsets(ctx, req.MinSupport)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	itemsets := result.Itemsets
	if itemsets == nil {
		// Empty results serialize as [] rather than null.
		itemsets = []mining.FrequentItemset{}
	}

	h.respondSuccess(w, r, models.ItemsetsResponse{
		MinSupport: result.MinSupport,
		Count:      len(itemsets),
		Itemsets:   itemsets,
	}, start, result.Cached)
}

// Rules mines and returns association rules for the requested thresholds.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, ok := parseMiningParams(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.engine.Rules(ctx, req.MinSupport, req.MinConfidence, req.MinLift)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	rules := result.Rules
	if rules == nil {
		rules = []mining.AssociationRule{}
	}

	h.respondSuccess(w, r, models.RulesResponse{
		MinSupport:    result.MinSupport,
		MinConfidence: result.MinConfidence,
		MinLift:       result.MinLift,
		Count:         len(rules),
		Rules:         rules,
	}, start, result.Cached)
}

// RulesByItem returns the rules referencing one item, optionally restricted
// to a role (antecedent, consequent, or any).
func (h *Handler) RulesByItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params, ok := parseMiningParams(w, r)
	if !ok {
		return
	}

	req := ItemRulesRequest{
		Item:                chi.URLParam(r, "item"),
		Role:                r.URL.Query().Get("role"),
		MiningParamsRequest: params,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	role, err := mining.ParseRole(req.Role)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.engine.RulesForItem(ctx, req.Item, role, req.MinSupport, req.MinConfidence, req.MinLift)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	roleLabel := req.Role
	if roleLabel == "" {
		roleLabel = "any"
	}
	rules := result.Rules
	if rules == nil {
		rules = []mining.AssociationRule{}
	}
	h.respondSuccess(w, r, models.ItemRulesResponse{
		Item:  req.Item,
		Role:  roleLabel,
		Count: len(rules),
		Rules: rules,
	}, start, result.Cached)
}

// Associate recommends products for a customer's current selection: rules
// whose antecedent is fully covered by the selection, with already-selected
// products removed from the consequent.
func (h *Handler) Associate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AssociateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeMalformedBody, "request body is not valid JSON", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.engine.Rules(ctx, req.MinSupport, req.MinConfidence, req.MinLift)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	selection := make(map[string]struct{}, len(req.Products))
	for _, p := range req.Products {
		selection[p] = struct{}{}
	}

	var recs []models.Recommendation
	for _, rule := range result.Rules {
		if !covered(rule.Antecedent, selection) {
			continue
		}
		var recommend []string
		for _, item := range rule.Consequent {
			if _, have := selection[item]; !have {
				recommend = append(recommend, item)
			}
		}
		if len(recommend) == 0 {
			continue
		}
		recs = append(recs, models.Recommendation{
			BasedOn:    rule.Antecedent,
			Recommend:  recommend,
			Support:    rule.Support,
			Confidence: rule.Confidence,
			Lift:       rule.Lift,
		})
	}

	// Rules arrive sorted by confidence; keep that order but drop duplicate
	// recommendation sets so the client sees each suggestion once.
	recs = dedupeRecommendations(recs)

	resp := models.AssociateResponse{Recommendations: recs}
	if len(recs) == 0 {
		resp.Message = "no associations found for the given products; try lowering min_support or min_confidence"
		resp.Recommendations = []models.Recommendation{}
	}

	h.respondSuccess(w, r, resp, start, result.Cached)
}

func covered(antecedent []string, selection map[string]struct{}) bool {
	for _, item := range antecedent {
		if _, ok := selection[item]; !ok {
			return false
		}
	}
	return true
}

func dedupeRecommendations(recs []models.Recommendation) []models.Recommendation {
	seen := make(map[string]struct{}, len(recs))
	out := recs[:0]
	for _, rec := range recs {
		key := recommendationKey(rec.Recommend)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}

func recommendationKey(items []string) string {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	key := ""
	for _, item := range sorted {
		key += item + "\x1f"
	}
	return key
}

// Health reports overall service health and dataset state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot()

	status := "healthy"
	data := map[string]interface{}{
		"status":         status,
		"dataset_loaded": err == nil,
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if err != nil {
		data["status"] = "degraded"
	} else {
		data["transactions"] = len(snap.Transactions)
		data["products"] = len(snap.Products)
		data["dataset_loaded_at"] = snap.LoadedAt
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	})
}

// HealthLive is the liveness probe: 200 whenever the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady is the readiness probe: 200 only when the dataset is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	_, err := h.store.Snapshot()

	statusCode := http.StatusOK
	status := "ready"
	if err != nil {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status": status,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Reload re-reads the dataset from disk and invalidates cached results.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.engine.Reload(); err != nil {
		respondDomainError(w, r, err)
		return
	}

	snap, err := h.store.Snapshot()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.respondSuccess(w, r, map[string]interface{}{
		"reloaded":     true,
		"transactions": len(snap.Transactions),
		"products":     len(snap.Products),
		"skipped_rows": snap.Skipped,
	}, start, false)
}
