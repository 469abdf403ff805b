package itest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/devapi"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/httpclient"
	memclock "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/clock"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/recognizer"
	memtokenstore "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/tokenstore"
	postgres_testutil "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/postgres/testutil"
	pgtokenstore "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/postgres/tokenstore"
	sqlitetokenstore "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/sqlite/tokenstore"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/tokenstore"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendSQLite   backend = "sqlite"
	backendPostgres backend = "postgres"
)

// backendsFromEnv selects the token stores to run against.
func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "sqlite":
		return []backend{backendSQLite}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendSQLite, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|sqlite|postgres|all)")
		return nil
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, b backend)) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) { fn(t, b) })
	}
}

// faults makes the stub fail selected calls with a 500.
type faults struct {
	failMethod atomic.Value // string
}

func (f *faults) failNext(method string) { f.failMethod.Store(method) }

func (f *faults) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m, _ := f.failMethod.Load().(string); m != "" && m == r.Method {
			f.failMethod.Store("")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"Internal server error"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type env struct {
	t       *testing.T
	stack   *devapi.Stack
	clk     *memclock.ManualClock
	baseURL string
	faults  *faults
	tokens  tokenstore.Store
	speech  *recognizer.Platform
}

func newEnv(t *testing.T, b backend) *env {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	stack, err := devapi.NewStack(clk, devapi.StackConfig{
		Issuer:       "itest-issuer",
		Audience:     "itest-aud",
		TokenTTL:     time.Hour,
		PasswordCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	f := &faults{}
	srv := httptest.NewServer(f.wrap(stack.Handler))
	t.Cleanup(srv.Close)

	var tokens tokenstore.Store
	switch b {
	case backendMemory:
		tokens = memtokenstore.NewStore()
	case backendSQLite:
		s, err := sqlitetokenstore.Open(filepath.Join(t.TempDir(), "tokens.db"), "")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		tokens = s
	case backendPostgres:
		tokens = pgtokenstore.NewStore(postgres_testutil.OpenMigratedPool(t), "itest-"+uuid.NewString())
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	return &env{
		t:       t,
		stack:   stack,
		clk:     clk,
		baseURL: srv.URL + devapi.BasePath,
		faults:  f,
		tokens:  tokens,
		speech:  recognizer.NewPlatform(),
	}
}

// client builds an app.Client the way the binaries do. Every call shares the env's
// token store, so a second client observes the first one's persisted session.
func (e *env) client() *app.Client {
	e.t.Helper()

	var c *app.Client
	api, err := httpclient.New(e.baseURL, httpclient.Options{
		Timeout:        5 * time.Second,
		OnUnauthorized: func() { c.HandleUnauthorized() },
	})
	require.NoError(e.t, err)

	c, err = app.NewClient(context.Background(), app.Deps{
		API:    api,
		Tokens: e.tokens,
		Speech: e.speech,
	})
	require.NoError(e.t, err)
	api.SetTokenSource(c.Session)
	return c
}

func (e *env) signup(c *app.Client, username string) {
	e.t.Helper()
	require.NoError(e.t, c.Session.Register(context.Background(), registerInput(username)))
}
