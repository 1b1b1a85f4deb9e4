// Basketry - Market Basket Analysis and Association Rule Mining
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketry

package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("rules:abc", []string{"a", "b"})

	got, ok := c.Get("rules:abc")
	if !ok {
		t.Fatal("Get() miss for freshly set key")
	}
	if items, ok := got.([]string); !ok || len(items) != 2 {
		t.Errorf("Get() = %v, want stored slice", got)
	}

	if _, ok := c.Get("rules:other"); ok {
		t.Error("Get() hit for unknown key")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTTL("short", "value", 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("Get() returned expired entry")
	}

	stats := c.GetStats()
	if stats.Evictions == 0 {
		t.Error("expired entry was not counted as eviction")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Error("Get() hit after Clear")
	}
	if got := c.GetStats().TotalKeys; got != 0 {
		t.Errorf("TotalKeys after Clear = %d, want 0", got)
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")

	c.Get("k")
	c.Get("k")
	c.Get("missing")

	if got := c.HitRate(); got < 66 || got > 67 {
		t.Errorf("HitRate() = %g, want ~66.7", got)
	}
}

func TestGenerateKeyStability(t *testing.T) {
	type params struct {
		Version    uint64
		MinSupport float64
	}

	k1 := GenerateKey("itemsets", params{1, 0.05})
	k2 := GenerateKey("itemsets", params{1, 0.05})
	k3 := GenerateKey("itemsets", params{2, 0.05})

	if k1 != k2 {
		t.Errorf("same params produced different keys: %s vs %s", k1, k2)
	}
	if k1 == k3 {
		t.Error("different params produced the same key")
	}
}
