package observability

import (
	"context"
	"testing"
	"time"
)

type recordingSessionHooks struct {
	NoopSessionHooks
	stale []string
}

func (h *recordingSessionHooks) OnStaleResult(ctx context.Context, resourceID string) {
	h.stale = append(h.stale, resourceID)
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

func TestSetSessionHooks(t *testing.T) {
	defer Reset()

	rec := &recordingSessionHooks{}
	SetSessionHooks(rec)

	Session().OnStaleResult(context.Background(), "api")

	if len(rec.stale) != 1 || rec.stale[0] != "api" {
		t.Errorf("stale = %v, want [api]", rec.stale)
	}
}

func TestSetCacheHooks(t *testing.T) {
	defer Reset()

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	Cache().OnCacheHit(context.Background(), "graph")

	if rec.hits != 1 {
		t.Errorf("hits = %d, want 1", rec.hits)
	}
}

func TestSetHooks_NilIgnored(t *testing.T) {
	defer Reset()

	SetSessionHooks(nil)
	SetCacheHooks(nil)

	// Defaults still in place; calls must not panic.
	Session().OnFetchComplete(context.Background(), "api", 1, 3, time.Millisecond, nil)
	Cache().OnCacheMiss(context.Background(), "graph")
}

func TestReset(t *testing.T) {
	rec := &recordingSessionHooks{}
	SetSessionHooks(rec)
	Reset()

	Session().OnStaleResult(context.Background(), "api")

	if len(rec.stale) != 0 {
		t.Errorf("hooks still registered after Reset: %v", rec.stale)
	}
}
