package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loggedIn bool

func (l loggedIn) IsLoggedIn() bool { return bool(l) }

func TestDecide(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		target Target
		authed bool
		want   Decision
	}{
		{"protected anonymous", Target{Path: "/trips"}, false, Redirect(LoginPath)},
		{"protected authed", Target{Path: "/trips"}, true, Proceed},
		{"zero target requires auth", Target{}, false, Redirect(LoginPath)},
		{"login authed", Target{Path: LoginPath}, true, Redirect(HomePath)},
		{"register authed", Target{Path: RegisterPath, Public: true}, true, Redirect(HomePath)},
		{"login anonymous", Target{Path: LoginPath, Public: true}, false, Proceed},
		{"public anonymous", Target{Path: "/about", Public: true}, false, Proceed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Decide(tc.target, tc.authed))
			// Same inputs, same answer.
			assert.Equal(t, Decide(tc.target, tc.authed), Decide(tc.target, tc.authed))
		})
	}
}

func TestDecision_String(t *testing.T) {
	t.Parallel()

	assert.True(t, Proceed.Proceeds())
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "redirect /login", Redirect(LoginPath).String())
}

func TestTable_Resolve(t *testing.T) {
	t.Parallel()

	tbl := DefaultTable()

	r, params, ok := tbl.Resolve("/trips/42?tab=days")
	require.True(t, ok)
	assert.Equal(t, "TripDetail", r.Name)
	assert.Equal(t, Params{"id": "42"}, params)

	r, _, ok = tbl.Resolve("/trips/new")
	require.True(t, ok)
	assert.Equal(t, "NewTrip", r.Name)

	r, _, ok = tbl.Resolve("/login/")
	require.True(t, ok)
	assert.True(t, r.Public)

	_, _, ok = tbl.Resolve("/nowhere")
	assert.False(t, ok)

	named, ok := tbl.Named("Expenses")
	require.True(t, ok)
	assert.Equal(t, "/expenses", named.Pattern)
	assert.Len(t, tbl.Routes(), len(DefaultRoutes()))
}

func TestGuard_Check(t *testing.T) {
	t.Parallel()

	tbl := DefaultTable()
	anon := Guard{Table: tbl, Session: loggedIn(false)}
	authed := Guard{Table: tbl, Session: loggedIn(true)}

	assert.Equal(t, Redirect(HomePath), anon.Check("/"))
	assert.Equal(t, Redirect(LoginPath), anon.Check("/trips"))
	assert.Equal(t, Redirect(LoginPath), anon.Check("/trips/7"))
	assert.Equal(t, Redirect(LoginPath), anon.Check("/unknown"))
	assert.Equal(t, Proceed, anon.Check("/login"))
	assert.Equal(t, Proceed, anon.Check("/register"))

	assert.Equal(t, Proceed, authed.Check("/trips/7"))
	assert.Equal(t, Proceed, authed.Check("/expenses"))
	assert.Equal(t, Proceed, authed.Check("/unknown"))
	assert.Equal(t, Redirect(HomePath), authed.Check("/login"))
	assert.Equal(t, Redirect(HomePath), authed.Check("/register?next=/trips"))
}

func TestCleanPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":              "/",
		"/":             "/",
		"trips":         "/trips",
		"/trips/":       "/trips",
		"/trips?x=1":    "/trips",
		"/trips/7#days": "/trips/7",
		"//":            "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanPath(in), "CleanPath(%q)", in)
	}
}
