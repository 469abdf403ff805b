package devapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/devapi"
	memclock "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/clock"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/oas"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/idempotency"
)

type harness struct {
	t     *testing.T
	stack *devapi.Stack
	clk   *memclock.ManualClock
	h     http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	stack, err := devapi.NewStack(clk, devapi.StackConfig{
		Issuer:       "test-iss",
		Audience:     "test-aud",
		TokenTTL:     10 * time.Minute,
		PasswordCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	return &harness{t: t, stack: stack, clk: clk, h: stack.Handler}
}

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(h.t, err)
			rdr = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, devapi.BasePath+path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (h *harness) signup(username string) string {
	h.t.Helper()
	rr := h.do(http.MethodPost, "/auth/register", "", map[string]any{
		"email": username + "@example.com", "username": username, "password": "secret",
	})
	require.Equal(h.t, http.StatusOK, rr.Code, rr.Body.String())
	rr = h.do(http.MethodPost, "/auth/login", "", map[string]any{"username": username, "password": "secret"})
	require.Equal(h.t, http.StatusOK, rr.Code, rr.Body.String())
	tok := decodeBody[oas.Token](h.t, rr)
	assert.Equal(h.t, "bearer", tok.TokenType)
	return tok.AccessToken
}

func TestDevAPI_Healthz(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	rr := httptest.NewRecorder()
	h.h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"kid":"devapi-1"`)
}

func TestDevAPI_AuthFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.signup("alice")

	rr := h.do(http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decodeBody[oas.User](t, rr)
	assert.Equal(t, "alice", me.Username)
	assert.True(t, me.IsActive)

	rr = h.do(http.MethodPost, "/auth/login", "", map[string]any{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	er := decodeBody[oas.ErrorResponse](t, rr)
	assert.Equal(t, "Incorrect username or password", er.Detail)

	rr = h.do(http.MethodPost, "/auth/register", "", map[string]any{
		"email": "alice@example.com", "username": "alice", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDevAPI_RegisterRejectsBadEmail(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	rr := h.do(http.MethodPost, "/auth/register", "", map[string]any{
		"email": "not-an-email", "username": "bob", "password": "x",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	msg, _ := decodeBody[oas.ErrorResponse](t, rr).Summary()
	assert.NotEmpty(t, msg)
}

func TestDevAPI_RequiresValidToken(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.signup("alice")

	for name, tok := range map[string]string{"missing": "", "garbage": "abc.def.ghi"} {
		rr := h.do(http.MethodGet, "/trips/", tok, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, name)
	}

	h.clk.Advance(11 * time.Minute)
	rr := h.do(http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDevAPI_InactiveUser(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.signup("alice")

	me := decodeBody[oas.User](t, h.do(http.MethodGet, "/auth/me", token, nil))
	require.NoError(t, h.stack.Backend.Deactivate(domain.UserID(me.Id)))

	rr := h.do(http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Inactive user", decodeBody[oas.ErrorResponse](t, rr).Detail)
}

func TestDevAPI_TripLifecycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.signup("alice")

	rr := h.do(http.MethodPost, "/trips/", token, map[string]any{
		"title": "Kyoto", "destination": "Kyoto", "start_date": "2025-04-01", "end_date": "2025-04-03",
		"traveler_count": 2, "budget": 1200,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	created := decodeBody[oas.Trip](t, rr)
	assert.Equal(t, "draft", created.Status)
	path := "/trips/" + strconv.FormatInt(created.Id, 10)

	rr = h.do(http.MethodPut, path, token, `{"title":"Kyoto & Nara","budget":null}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeBody[oas.Trip](t, rr)
	assert.Equal(t, "Kyoto & Nara", updated.Title)
	assert.Nil(t, updated.Budget)

	rr = h.do(http.MethodPut, path, token, `{"title":null}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = h.do(http.MethodGet, "/trips/?skip=0&limit=10", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]oas.Trip](t, rr), 1)

	rr = h.do(http.MethodGet, "/trips/?limit=ten", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	other := h.signup("bob")
	rr = h.do(http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Trip not found", decodeBody[oas.ErrorResponse](t, rr).Detail)

	rr = h.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = h.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = h.do(http.MethodGet, "/trips/abc", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestDevAPI_GenerateTrip(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.signup("alice")

	rr := h.do(http.MethodPost, "/trips/generate", token, map[string]any{
		"destination": "Tokyo", "start_date": "2025-05-01", "end_date": "2025-05-03", "traveler_count": 1,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tr := decodeBody[oas.Trip](t, rr)
	assert.Len(t, tr.Days, 3)
	assert.Equal(t, "planned", tr.Status)

	rr = h.do(http.MethodPost, "/trips/generate", token, map[string]any{
		"destination": "Tokyo", "start_date": "2025-05-03", "end_date": "2025-05-01", "traveler_count": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(http.MethodPost, "/trips/generate", token, `{"destination":`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestDevAPI_Expenses(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.signup("alice")

	tr := decodeBody[oas.Trip](t, h.do(http.MethodPost, "/trips/", token, map[string]any{
		"title": "Kyoto", "destination": "Kyoto", "start_date": "2025-04-01", "end_date": "2025-04-03",
		"traveler_count": 1, "budget": 100,
	}))
	tripID := strconv.FormatInt(tr.Id, 10)

	rr := h.do(http.MethodPost, "/expenses/", token, map[string]any{
		"trip_id": tr.Id, "category": "food", "amount": 120, "expense_date": "2025-04-02",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	exp := decodeBody[oas.Expense](t, rr)
	assert.Equal(t, "CNY", exp.Currency)

	h.do(http.MethodPost, "/expenses/", token, map[string]any{
		"category": "misc", "amount": 3, "expense_date": "2025-03-30",
	})

	rr = h.do(http.MethodGet, "/expenses/?trip_id="+tripID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[[]oas.Expense](t, rr), 1)

	rr = h.do(http.MethodGet, "/expenses/analysis/"+tripID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	a := decodeBody[oas.BudgetAnalysis](t, rr)
	assert.Equal(t, "over_budget", a.Status)
	assert.InDelta(t, 120.0, a.CategoryBreakdown["food"], 1e-9)

	path := "/expenses/" + strconv.FormatInt(exp.Id, 10)
	rr = h.do(http.MethodPut, path, token, `{"notes":"ramen","amount":80}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeBody[oas.Expense](t, rr)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "ramen", *updated.Notes)

	rr = h.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = h.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Expense not found", decodeBody[oas.ErrorResponse](t, rr).Detail)

	rr = h.do(http.MethodGet, "/expenses/analysis/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func (h *harness) doKeyed(path, token, key, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(http.MethodPost, devapi.BasePath+path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(devapi.IdempotencyKeyHeader, key)
	rr := httptest.NewRecorder()
	h.h.ServeHTTP(rr, req)
	return rr
}

func TestDevAPI_IdempotentGenerateReplays(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.signup("idem")
	body := `{"destination":"Hangzhou","start_date":"2025-04-01","end_date":"2025-04-02","traveler_count":2}`

	first := h.doKeyed("/trips/generate", token, "gen-1", body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Empty(t, first.Header().Get(devapi.ReplayedHeader))

	again := h.doKeyed("/trips/generate", token, "gen-1", body)
	require.Equal(t, http.StatusOK, again.Code, again.Body.String())
	assert.Equal(t, "true", again.Header().Get(devapi.ReplayedHeader))
	assert.Equal(t, first.Body.String(), again.Body.String())

	list := decodeBody[[]oas.Trip](t, h.do(http.MethodGet, "/trips/", token, nil))
	assert.Len(t, list, 1, "replay must not create a second trip")

	other := h.doKeyed("/trips/generate", token, "gen-1", `{"destination":"Suzhou","start_date":"2025-04-01","end_date":"2025-04-02","traveler_count":2}`)
	assert.Equal(t, http.StatusConflict, other.Code)

	// Keys are per user.
	second := h.signup("idem2")
	rr := h.doKeyed("/trips/generate", second, "gen-1", body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get(devapi.ReplayedHeader))
}

func TestDevAPI_IdempotencyKeyExpires(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	token := h.signup("expiring")
	body := `{"title":"T","destination":"D","start_date":"2025-04-01","end_date":"2025-04-03","traveler_count":1}`

	require.Equal(t, http.StatusOK, h.doKeyed("/trips/", token, "c-1", body).Code)
	h.clk.Advance(25 * time.Hour)
	token = h.relogin("expiring")
	rr := h.doKeyed("/trips/", token, "c-1", body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get(devapi.ReplayedHeader))
}

type unwritableIdempotency struct{}

func (unwritableIdempotency) Get(context.Context, idempotency.Fingerprint) (idempotency.Record, bool, error) {
	return idempotency.Record{}, false, nil
}

func (unwritableIdempotency) Put(context.Context, idempotency.Fingerprint, idempotency.Record) error {
	return errors.New("disk full")
}

func TestDevAPI_IdempotencyStoreFailureIsLoggedAndServed(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	clk := memclock.NewManualClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	stack, err := devapi.NewStack(clk, devapi.StackConfig{
		Issuer:       "test-iss",
		Audience:     "test-aud",
		TokenTTL:     10 * time.Minute,
		PasswordCost: bcrypt.MinCost,
		Idempotency:  unwritableIdempotency{},
		Logger:       log.New(&logs, "", 0),
	})
	require.NoError(t, err)
	h := &harness{t: t, stack: stack, clk: clk, h: stack.Handler}
	token := h.signup("unwritable")
	body := `{"title":"T","destination":"D","start_date":"2025-04-01","end_date":"2025-04-03","traveler_count":1}`

	rr := h.doKeyed("/trips/", token, "c-1", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, logs.String(), "devapi: idempotency put POST")
	assert.Contains(t, logs.String(), "disk full")

	// Nothing was recorded, so the retry runs again instead of replaying.
	rr = h.doKeyed("/trips/", token, "c-1", body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get(devapi.ReplayedHeader))
	list := decodeBody[[]oas.Trip](t, h.do(http.MethodGet, "/trips/", token, nil))
	assert.Len(t, list, 2)
}

func (h *harness) relogin(username string) string {
	h.t.Helper()
	rr := h.do(http.MethodPost, "/auth/login", "", map[string]any{"username": username, "password": "secret"})
	require.Equal(h.t, http.StatusOK, rr.Code, rr.Body.String())
	return decodeBody[oas.Token](h.t, rr).AccessToken
}
