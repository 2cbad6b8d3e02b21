package services

import (
	"context"
	"errors"
	"testing"
)

func TestGeocodeCacheHitSkipsProvider(t *testing.T) {
	provider := &fakeGeocoder{name: "Dostyk Plaza"}
	cache := NewCachedGeocoder(provider, testLogger(t))
	ctx := context.Background()

	first := cache.ResolvePlaceName(ctx, 43.23412, 76.95671)
	if first != "Dostyk Plaza" {
		t.Fatalf("resolved %q, want provider name", first)
	}

	// same grid cell: a slightly different coordinate must hit the cache
	second := cache.ResolvePlaceName(ctx, 43.23414, 76.95669)
	if second != "Dostyk Plaza" {
		t.Errorf("cache returned %q", second)
	}
	if got := provider.callCount(); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
	if got := cache.CacheSize(); got != 1 {
		t.Errorf("cache size = %d, want 1", got)
	}
}

func TestGeocodeCacheDistinctCells(t *testing.T) {
	provider := &fakeGeocoder{name: "somewhere"}
	cache := NewCachedGeocoder(provider, testLogger(t))
	ctx := context.Background()

	cache.ResolvePlaceName(ctx, 43.2341, 76.9567)
	cache.ResolvePlaceName(ctx, 43.2399, 76.9567)

	if got := provider.callCount(); got != 2 {
		t.Errorf("provider calls = %d, want 2", got)
	}
}

func TestGeocodeFallbackOnError(t *testing.T) {
	provider := &fakeGeocoder{err: errors.New("upstream down")}
	cache := NewCachedGeocoder(provider, testLogger(t))
	ctx := context.Background()

	got := cache.ResolvePlaceName(ctx, 43.234100, 76.956700)
	if got != "43.234100, 76.956700" {
		t.Errorf("fallback = %q, want coordinate string", got)
	}

	// the fallback is cached too, the provider is not retried per tick
	cache.ResolvePlaceName(ctx, 43.234100, 76.956700)
	if calls := provider.callCount(); calls != 1 {
		t.Errorf("provider calls = %d, want 1", calls)
	}
}

func TestGeocodeFallbackOnEmptyName(t *testing.T) {
	provider := &fakeGeocoder{name: ""}
	cache := NewCachedGeocoder(provider, testLogger(t))

	got := cache.ResolvePlaceName(context.Background(), 1.5, 2.5)
	if got != "1.500000, 2.500000" {
		t.Errorf("fallback = %q, want coordinate string", got)
	}
}
