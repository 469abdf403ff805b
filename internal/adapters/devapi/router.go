// Package devapi serves the planner REST surface from an in-memory backend for local
// development and integration tests.
package devapi

import (
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/planner"
	"github.com/Overland-East-Bay/trip-planner-client/internal/platform/auth/jwt"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/idempotency"
)

// BasePath is where the API is mounted, matching the client's default base URL.
const BasePath = "/api"

type Options struct {
	Logger *log.Logger
	// JWKS, when set, is served at /.well-known/jwks.json.
	JWKS []byte
	// Idempotency enables Idempotency-Key replay on POST endpoints.
	Idempotency idempotency.Store
	// Clock stamps idempotency records; required with Idempotency.
	Clock clock.Clock
}

// Server implements the planner endpoints over a planner.Backend.
type Server struct {
	backend  *planner.Backend
	signer   *jwt.Signer
	verifier *jwt.Verifier
	log      *log.Logger
	jwks     []byte
	idem     idempotency.Store
	clk      clock.Clock
}

func NewServer(backend *planner.Backend, signer *jwt.Signer, verifier *jwt.Verifier, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		backend:  backend,
		signer:   signer,
		verifier: verifier,
		log:      logger,
		jwks:     opts.JWKS,
		idem:     opts.Idempotency,
		clk:      opts.Clock,
	}
}

// NewRouter constructs the stub HTTP router.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if len(s.jwks) > 0 {
		r.Get("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(s.jwks)
		})
	}

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/auth/register", s.register)
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/auth/me", s.me)

			r.With(s.idempotent).Post("/trips/generate", s.generateTrip)
			r.With(s.idempotent).Post("/trips/", s.createTrip)
			r.Get("/trips/", s.listTrips)
			r.Get("/trips/{id}", s.getTrip)
			r.Put("/trips/{id}", s.updateTrip)
			r.Delete("/trips/{id}", s.deleteTrip)

			r.With(s.idempotent).Post("/expenses/", s.createExpense)
			r.Get("/expenses/", s.listExpenses)
			r.Get("/expenses/analysis/{tripId}", s.analyzeBudget)
			r.Get("/expenses/{id}", s.getExpense)
			r.Put("/expenses/{id}", s.updateExpense)
			r.Delete("/expenses/{id}", s.deleteExpense)
		})
	})
	return r
}
