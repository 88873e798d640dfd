package cache

import (
	"context"
	"delivery-time-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisPredictionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisPredictionCache(mr.Addr(), ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisPredictionCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	rec := domain.Derive(domain.DefaultRequest())

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if _, ok, err := c.Get(ctx, "v1", rec); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ctx, "v1", rec, 27.3456); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "v1", rec)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got != 27.3456 {
		t.Fatalf("cached minutes = %v, want 27.3456", got)
	}

	if _, ok, _ := c.Get(ctx, "v2", rec); ok {
		t.Fatalf("entry leaked across model versions")
	}
}

func TestRedisPredictionCacheExpires(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	rec := domain.Derive(domain.DefaultRequest())

	if err := c.Put(ctx, "v1", rec, 10); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(31 * time.Second)

	if _, ok, err := c.Get(ctx, "v1", rec); err != nil || ok {
		t.Fatalf("expected expired entry, got ok=%v err=%v", ok, err)
	}
}

func TestRedisPredictionCacheUnreachable(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	rec := domain.Derive(domain.DefaultRequest())
	if _, _, err := c.Get(context.Background(), "v1", rec); err == nil {
		t.Fatal("expected error when redis is down")
	}
}

func TestKey(t *testing.T) {
	a := domain.Derive(domain.DefaultRequest())

	b := domain.DefaultRequest()
	b.DistanceKm = 5.3
	c := domain.DefaultRequest()
	c.Weather = domain.WeatherRainy

	if Key("v1", a) != Key("v1", domain.Derive(domain.DefaultRequest())) {
		t.Fatal("key not stable for equal records")
	}
	if Key("v1", a) == Key("v1", domain.Derive(b)) {
		t.Fatal("distance change did not change key")
	}
	if Key("v1", a) == Key("v1", domain.Derive(c)) {
		t.Fatal("weather change did not change key")
	}
	if Key("v1", a) == Key("v2", a) {
		t.Fatal("version not part of key")
	}
}
