package contracttest

import (
	"context"
	"testing"

	tokenstoreport "github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/tokenstore"
)

type CleanupFunc = func()

type TokenStoreFactory func(t *testing.T) (tokenstoreport.Store, CleanupFunc)

// RunTokenStore checks the single-entry semantics every token store must provide.
// newStore is called twice; both stores must share backing storage so that a value
// saved through the first is visible to the second (a simulated process restart).
func RunTokenStore(t *testing.T, newStore TokenStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if tok, ok, err := store.Load(ctx); err != nil || ok || tok != "" {
		t.Fatalf("Load on empty store = %q,%v,%v; want \"\",false,nil", tok, ok, err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}

	if err := store.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	tok, ok, err := store.Load(ctx)
	if err != nil || !ok || tok != "tok-1" {
		t.Fatalf("Load = %q,%v,%v; want tok-1", tok, ok, err)
	}

	// Overwrite semantics: exactly one entry.
	if err := store.Save(ctx, "tok-2"); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	tok, ok, err = store.Load(ctx)
	if err != nil || !ok || tok != "tok-2" {
		t.Fatalf("Load after overwrite = %q,%v,%v; want tok-2", tok, ok, err)
	}

	reopened, cleanup2 := newStore(t)
	if cleanup2 != nil {
		t.Cleanup(cleanup2)
	}
	tok, ok, err = reopened.Load(ctx)
	if err != nil || !ok || tok != "tok-2" {
		t.Fatalf("reopened Load = %q,%v,%v; want tok-2", tok, ok, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if tok, ok, err := reopened.Load(ctx); err != nil || ok || tok != "" {
		t.Fatalf("Load after Clear = %q,%v,%v; want empty", tok, ok, err)
	}
}
