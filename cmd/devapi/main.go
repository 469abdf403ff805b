package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/devapi"
	platformclock "github.com/Overland-East-Bay/trip-planner-client/internal/platform/clock"
	"github.com/Overland-East-Bay/trip-planner-client/internal/platform/config"
)

// Dev-only planner API backed by memory.
//
// Serves the REST surface the client talks to under /api, mints RS256 access tokens on
// login and publishes the signing key at /.well-known/jwks.json. State is lost on exit.

func main() {
	cfg, err := config.LoadStubConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid stub config: %v", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	stack, err := devapi.NewStack(platformclock.NewSystemClock(), devapi.StackConfig{
		Issuer:         cfg.Issuer,
		Audience:       cfg.Audience,
		TokenTTL:       cfg.TokenTTL,
		IdempotencyTTL: cfg.IdempotencyTTL,
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("build stub api: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           stack.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("devapi listening on :%s%s (iss=%s aud=%s ttl=%s)", cfg.Port, devapi.BasePath, cfg.Issuer, cfg.Audience, cfg.TokenTTL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
