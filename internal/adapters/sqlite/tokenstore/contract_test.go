package tokenstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/contracttest"
	tokenstoreport "github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/tokenstore"
)

func TestContract_SQLiteTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")

	contracttest.RunTokenStore(t, func(t *testing.T) (tokenstoreport.Store, func()) {
		t.Helper()
		s, err := Open(path, "")
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		return s, func() { _ = s.Close() }
	})
}

func TestStore_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tokens.db")
	a, err := Open(path, "alice")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()
	b, err := Open(path, "bob")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	if err := a.Save(ctx, "tok-a"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, ok, err := b.Load(ctx); err != nil || ok {
		t.Fatalf("bob sees alice's token: ok=%v err=%v", ok, err)
	}
	if err := b.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if tok, ok, _ := a.Load(ctx); !ok || tok != "tok-a" {
		t.Fatalf("alice's token = %q,%v after bob cleared", tok, ok)
	}
}
