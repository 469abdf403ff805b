package contracttest

import (
	"context"
	"testing"
	"time"

	idempotencyport "github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/idempotency"
)

type IdempotencyStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

// IdempotencyEpoch is the CreatedAt used by RunIdempotencyStore. Stores with an expiry
// must treat records created at this instant as live.
var IdempotencyEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// RunIdempotencyStore checks that records are keyed by the full fingerprint.
func RunIdempotencyStore(t *testing.T, newStore IdempotencyStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{Key: "k1", User: 1, Method: "POST", Path: "/api/trips/generate", BodyHash: "h1"}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get on empty store ok=%v err=%v; want false,nil", ok, err)
	}

	rec := idempotencyport.Record{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"id":1}`), CreatedAt: IdempotencyEpoch}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil || !ok {
		t.Fatalf("Get ok=%v err=%v; want true,nil", ok, err)
	}
	if got.StatusCode != rec.StatusCode || got.ContentType != rec.ContentType || string(got.Body) != string(rec.Body) {
		t.Fatalf("Get = %+v; want %+v", got, rec)
	}

	for name, other := range map[string]idempotencyport.Fingerprint{
		"key":  {Key: "k2", User: 1, Method: "POST", Path: fp.Path, BodyHash: "h1"},
		"user": {Key: "k1", User: 2, Method: "POST", Path: fp.Path, BodyHash: "h1"},
		"path": {Key: "k1", User: 1, Method: "POST", Path: "/api/trips/", BodyHash: "h1"},
		"body": {Key: "k1", User: 1, Method: "POST", Path: fp.Path, BodyHash: "h2"},
	} {
		if _, ok, err := store.Get(ctx, other); err != nil || ok {
			t.Fatalf("Get with different %s ok=%v err=%v; want false,nil", name, ok, err)
		}
	}

	rec2 := rec
	rec2.StatusCode = 201
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if got, _, _ := store.Get(ctx, fp); got.StatusCode != 201 {
		t.Fatalf("Get after overwrite status=%d; want 201", got.StatusCode)
	}
}
