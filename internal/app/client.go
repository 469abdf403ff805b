// Package app assembles the client's components into one context object.
package app

import (
	"context"
	"io"
	"log"

	"github.com/Overland-East-Bay/trip-planner-client/internal/app/expenses"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/routing"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/session"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/speech"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app/trips"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/recognizer"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/tokenstore"
)

// API is the full remote surface the client talks to.
type API interface {
	plannerapi.AuthAPI
	plannerapi.TripsAPI
	plannerapi.ExpensesAPI
}

type Deps struct {
	API    API
	Tokens tokenstore.Store
	// Speech may be nil when no recognition platform exists.
	Speech     recognizer.Platform
	SpeechLang string
	// Routes defaults to routing.DefaultRoutes.
	Routes []routing.Route
	Logger *log.Logger
}

// Client is built once at process start and passed to every view.
type Client struct {
	Session  *session.Manager
	Trips    *trips.Store
	Expenses *expenses.Store
	Speech   *speech.Adapter
	Routes   *routing.Table
	Guard    routing.Guard

	log *log.Logger
}

func NewClient(ctx context.Context, deps Deps) (*Client, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	sess, err := session.NewManager(ctx, deps.API, deps.Tokens, session.Options{Logger: logger})
	if err != nil {
		return nil, err
	}

	routes := deps.Routes
	if routes == nil {
		routes = routing.DefaultRoutes()
	}
	table := routing.NewTable(routes)

	return &Client{
		Session:  sess,
		Trips:    trips.NewStore(deps.API, trips.Options{Logger: logger}),
		Expenses: expenses.NewStore(deps.API, expenses.Options{Logger: logger}),
		Speech:   speech.NewAdapter(deps.Speech, speech.Options{Lang: deps.SpeechLang, Logger: logger}),
		Routes:   table,
		Guard:    routing.Guard{Table: table, Session: sess},
		log:      logger,
	}, nil
}

// Navigate asks the guard whether path may be shown.
func (c *Client) Navigate(path string) routing.Decision {
	return c.Guard.Check(path)
}

// Logout ends the session and drops cached resources that belonged to it.
func (c *Client) Logout(ctx context.Context) {
	c.Session.Logout(ctx)
	c.Trips.Reset()
	c.Expenses.Reset()
}

// HandleUnauthorized is wired to the transport's 401 hook: the held token was refused,
// so the session is ended locally.
func (c *Client) HandleUnauthorized() {
	if !c.Session.IsLoggedIn() {
		return
	}
	c.log.Printf("app: token rejected by the service, logging out")
	c.Logout(context.Background())
}
