package routing

import (
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route is one entry of the client route table.
type Route struct {
	Name    string
	Pattern string
	Public  bool
	// Redirect, when set, sends the navigation elsewhere before any auth check.
	Redirect string
}

type Params map[string]string

// Table matches paths against routes with chi's tree router. No handlers are served.
type Table struct {
	mux    *chi.Mux
	routes map[string]Route
	names  map[string]Route
}

// DefaultRoutes is the application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/", Redirect: HomePath},
		{Name: "Login", Pattern: LoginPath, Public: true},
		{Name: "Register", Pattern: RegisterPath, Public: true},
		{Name: "Trips", Pattern: "/trips"},
		{Name: "NewTrip", Pattern: "/trips/new"},
		{Name: "TripDetail", Pattern: "/trips/{id}"},
		{Name: "Expenses", Pattern: "/expenses"},
	}
}

func NewTable(routes []Route) *Table {
	t := &Table{
		mux:    chi.NewRouter(),
		routes: make(map[string]Route, len(routes)),
		names:  make(map[string]Route, len(routes)),
	}
	noop := func(http.ResponseWriter, *http.Request) {}
	for _, r := range routes {
		t.mux.Get(r.Pattern, noop)
		t.routes[r.Pattern] = r
		if r.Name != "" {
			t.names[r.Name] = r
		}
	}
	return t
}

func DefaultTable() *Table { return NewTable(DefaultRoutes()) }

// Resolve finds the route for path. Query strings, fragments and a trailing slash are
// ignored.
func (t *Table) Resolve(path string) (Route, Params, bool) {
	p := CleanPath(path)
	rctx := chi.NewRouteContext()
	pattern := t.mux.Find(rctx, http.MethodGet, p)
	r, ok := t.routes[pattern]
	if pattern == "" || !ok {
		return Route{}, nil, false
	}
	params := make(Params, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return r, params, true
}

// Named returns the route registered under name.
func (t *Table) Named(name string) (Route, bool) {
	r, ok := t.names[name]
	return r, ok
}

// Routes lists the table sorted by pattern.
func (t *Table) Routes() []Route {
	out := make([]Route, 0, len(t.routes))
	for _, r := range t.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

// CleanPath strips the query, the fragment and a trailing slash.
func CleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
