// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/basketry/internal/config"
)

type testEnvelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Cached    bool   `json:"cached"`
		RequestID string `json:"request_id"`
	} `json:"metadata"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	store := newTestStore(t, testCSV)
	cfg := &config.Config{
		API: config.APIConfig{
			CacheTTL:       time.Minute,
			RequestTimeout: 10 * time.Second,
		},
		Mining: testMiningConfig(),
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
		},
	}

	engine := NewEngine(store, cfg.Mining, cfg.API.CacheTTL, zerolog.New(io.Discard))
	handler := NewHandler(engine, store, cfg)
	return NewRouter(handler, NewChiMiddlewareFromConfig(cfg.Security)).SetupChi()
}

func doRequest(t *testing.T, srv http.Handler, method, target string, body []byte) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func TestProductsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/products", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env.Status != "success" {
		t.Errorf("envelope status = %q, want success", env.Status)
	}

	var data struct {
		ProductsCount int      `json:"products_count"`
		Products      []string `json:"products"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.ProductsCount != 3 {
		t.Errorf("products_count = %d, want 3", data.ProductsCount)
	}
	want := []string{"Bread", "Butter", "Milk"}
	for i, p := range want {
		if i >= len(data.Products) || data.Products[i] != p {
			t.Fatalf("products = %v, want %v", data.Products, want)
		}
	}
}

func TestItemsetsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/itemsets?min_support=0.5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		MinSupport float64 `json:"min_support"`
		Count      int     `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.MinSupport != 0.5 || data.Count != 4 {
		t.Errorf("min_support/count = %g/%d, want 0.5/4", data.MinSupport, data.Count)
	}
}

func TestItemsetsValidation(t *testing.T) {
	srv := newTestServer(t)

	for name, target := range map[string]string{
		"above one":   "/api/v1/itemsets?min_support=1.5",
		"negative":    "/api/v1/itemsets?min_support=-0.1",
		"not numeric": "/api/v1/itemsets?min_support=abc",
	} {
		t.Run(name, func(t *testing.T) {
			rec, env := doRequest(t, srv, http.MethodGet, target, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != ErrCodeValidation {
				t.Errorf("error = %+v, want code %s", env.Error, ErrCodeValidation)
			}
		})
	}
}

func TestRulesEndpointAndCaching(t *testing.T) {
	srv := newTestServer(t)
	target := "/api/v1/rules?min_support=0.5&min_confidence=0.5"

	rec, env := doRequest(t, srv, http.MethodGet, target, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if env.Metadata.Cached {
		t.Error("first request reported as cached")
	}

	var data struct {
		Count int `json:"count"`
		Rules []struct {
			Antecedents []string `json:"antecedents"`
			Consequents []string `json:"consequents"`
			Confidence  float64  `json:"confidence"`
		} `json:"rules"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Count != 2 {
		t.Fatalf("count = %d, want 2 (Bread<->Butter)", data.Count)
	}

	_, env2 := doRequest(t, srv, http.MethodGet, target, nil)
	if !env2.Metadata.Cached {
		t.Error("second identical request not served from cache")
	}
}

func TestRulesByItemEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodGet,
		"/api/v1/rules/item/Bread?role=antecedent&min_support=0.5&min_confidence=0.5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Item  string `json:"item"`
		Role  string `json:"role"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Item != "Bread" || data.Role != "antecedent" || data.Count != 1 {
		t.Errorf("item/role/count = %s/%s/%d, want Bread/antecedent/1", data.Item, data.Role, data.Count)
	}
}

func TestRulesByItemInvalidRole(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/rules/item/Bread?role=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeValidation {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeValidation)
	}
}

func TestAssociateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := []byte(`{"products":["Bread"],"min_support":0.5,"min_confidence":0.5}`)
	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/associate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Message         string `json:"message"`
		Recommendations []struct {
			BasedOn   []string `json:"based_on"`
			Recommend []string `json:"recommend"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1; body %s", len(data.Recommendations), rec.Body.String())
	}
	rec0 := data.Recommendations[0]
	if len(rec0.Recommend) != 1 || rec0.Recommend[0] != "Butter" {
		t.Errorf("recommend = %v, want [Butter]", rec0.Recommend)
	}
}

func TestAssociateNoMatches(t *testing.T) {
	srv := newTestServer(t)

	body := []byte(`{"products":["Quinoa"],"min_support":0.5,"min_confidence":0.5}`)
	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/associate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var data struct {
		Message         string        `json:"message"`
		Recommendations []interface{} `json:"recommendations"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Message == "" {
		t.Error("expected explanatory message when no rules match")
	}
	if len(data.Recommendations) != 0 {
		t.Errorf("got %d recommendations, want 0", len(data.Recommendations))
	}
}

func TestAssociateValidation(t *testing.T) {
	srv := newTestServer(t)

	for name, body := range map[string]string{
		"empty products": `{"products":[]}`,
		"missing body":   `{}`,
		"bad threshold":  `{"products":["Bread"],"min_confidence":2}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/associate", []byte(body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil {
				t.Error("missing error payload")
			}
		})
	}

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/associate", []byte("{not json"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeMalformedBody {
		t.Errorf("error = %+v, want code %s", env.Error, ErrCodeMalformedBody)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data["status"] != "healthy" || data["dataset_loaded"] != true {
		t.Errorf("health data = %v, want healthy and loaded", data)
	}

	if rec, _ := doRequest(t, srv, http.MethodGet, "/api/v1/health/live", nil); rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}
	if rec, _ := doRequest(t, srv, http.MethodGet, "/api/v1/health/ready", nil); rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}
}

func TestReloadEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec, env := doRequest(t, srv, http.MethodPost, "/api/v1/admin/reload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Reloaded     bool `json:"reloaded"`
		Transactions int  `json:"transactions"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !data.Reloaded || data.Transactions != 4 {
		t.Errorf("reloaded/transactions = %v/%d, want true/4", data.Reloaded, data.Transactions)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec, _ := doRequest(t, srv, http.MethodGet, "/api/v1/products", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "caller-supplied" {
		t.Errorf("X-Request-ID = %q, want caller-supplied value echoed", got)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", rec.Code)
	}
}
