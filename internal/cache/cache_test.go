package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey_StableAndPrefixed(t *testing.T) {
	k1 := Key("ollama:some policy text")
	k2 := Key("ollama:some policy text")
	k3 := Key("openai:some policy text")

	if k1 != k2 {
		t.Error("Expected identical keys for identical input")
	}
	if k1 == k3 {
		t.Error("Expected different keys for different embedder prefixes")
	}
	if !strings.HasPrefix(k1, "claimlens:v1:") {
		t.Errorf("Expected versioned prefix, got %q", k1)
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Expected hit with value v, got %q found=%v", val, found)
	}

	_ = c.Delete("k")
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set(Key("text"), []byte("vector"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(Key("text"))
	if !found || string(val) != "vector" {
		t.Errorf("Expected hit, got %q found=%v", val, found)
	}

	// Already-expired entry is treated as a miss and removed
	if err := c.Set(Key("old"), []byte("stale"), -time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get(Key("old")); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Hour)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Fresh layered cache over the same dir: memory is cold, disk hits
	c2 := NewLayeredCache(time.Minute, dir, time.Hour)
	val, found := c2.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Expected disk hit through fresh memory layer, got found=%v", found)
	}
}
