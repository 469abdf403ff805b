package devapi

import (
	"log"
	"net/http"
	"time"

	memidempotency "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/idempotency"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/planner"
	"github.com/Overland-East-Bay/trip-planner-client/internal/platform/auth/jwt"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/idempotency"
)

type StackConfig struct {
	Issuer   string
	Audience string
	TokenTTL time.Duration
	// PasswordCost is the bcrypt cost; tests use bcrypt.MinCost.
	PasswordCost int
	// IdempotencyTTL bounds Idempotency-Key replay; zero means the store default.
	IdempotencyTTL time.Duration
	// Idempotency replaces the in-memory replay store; IdempotencyTTL is then unused.
	Idempotency idempotency.Store
	Logger      *log.Logger
}

// Stack is a ready-to-serve stub API with a fresh signing key.
type Stack struct {
	Backend *planner.Backend
	Signer  *jwt.Signer
	Handler http.Handler
}

func NewStack(clk clock.Clock, cfg StackConfig) (*Stack, error) {
	key, err := jwt.GenerateKeypair("devapi-1")
	if err != nil {
		return nil, err
	}
	signer, err := jwt.NewSigner(key, cfg.Issuer, cfg.Audience, cfg.TokenTTL, clk)
	if err != nil {
		return nil, err
	}
	jwks, err := jwt.MarshalJWKS(key)
	if err != nil {
		return nil, err
	}
	verifier := jwt.NewVerifierForKeys(jwt.VerifierConfig{Issuer: cfg.Issuer, Audience: cfg.Audience}, clk, key)
	backend := planner.NewBackend(clk, planner.Options{PasswordCost: cfg.PasswordCost})
	idem := cfg.Idempotency
	if idem == nil {
		idem = memidempotency.NewStore(clk, cfg.IdempotencyTTL)
	}
	srv := NewServer(backend, signer, verifier, Options{
		Logger:      cfg.Logger,
		JWKS:        jwks,
		Idempotency: idem,
		Clock:       clk,
	})
	return &Stack{Backend: backend, Signer: signer, Handler: NewRouter(srv)}, nil
}
