package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/console/dictation"
	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/httpclient"
	memtokenstore "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/tokenstore"
	postgres "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/postgres"
	pgtokenstore "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/postgres/tokenstore"
	sqlitetokenstore "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/sqlite/tokenstore"
	"github.com/Overland-East-Bay/trip-planner-client/internal/app"
	"github.com/Overland-East-Bay/trip-planner-client/internal/platform/config"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/tokenstore"
)

// cli holds the process-wide client built before each command runs.
type cli struct {
	apiURL  string
	jsonOut bool
	verbose bool

	cfg     config.ClientConfig
	client  *app.Client
	speech  *endNotifier
	cleanup []func()
}

func (c *cli) open(ctx context.Context) error {
	cfg, err := config.LoadClientConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.apiURL != "" {
		cfg.APIURL = c.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.cfg = cfg

	logger := log.New(io.Discard, "", 0)
	if c.verbose {
		logger = log.New(os.Stderr, "tripctl ", log.LstdFlags)
	}

	tokens, err := c.openTokenStore(ctx, cfg)
	if err != nil {
		return err
	}

	var client *app.Client
	api, err := httpclient.New(cfg.APIURL, httpclient.Options{
		Timeout:        cfg.HTTPTimeout,
		OnUnauthorized: func() { client.HandleUnauthorized() },
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	c.speech = newEndNotifier(dictation.NewPlatform(os.Stdin, os.Stderr))
	client, err = app.NewClient(ctx, app.Deps{
		API:        api,
		Tokens:     tokens,
		Speech:     c.speech,
		SpeechLang: cfg.SpeechLang,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	api.SetTokenSource(client.Session)
	c.client = client
	return nil
}

func (c *cli) openTokenStore(ctx context.Context, cfg config.ClientConfig) (tokenstore.Store, error) {
	switch cfg.TokenStore {
	case config.TokenStoreMemory:
		return memtokenstore.NewStore(), nil
	case config.TokenStorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return nil, fmt.Errorf("invalid postgres config: %w", err)
		}
		c.cleanup = append(c.cleanup, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("migrate token table: %w", err)
		}
		return pgtokenstore.NewStore(pool, cfg.TokenKey), nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.TokenStorePath), 0o700); err != nil {
			return nil, fmt.Errorf("create token store dir: %w", err)
		}
		s, err := sqlitetokenstore.Open(cfg.TokenStorePath, cfg.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("open token store: %w", err)
		}
		c.cleanup = append(c.cleanup, func() { _ = s.Close() })
		return s, nil
	}
}

func (c *cli) close() {
	for i := len(c.cleanup) - 1; i >= 0; i-- {
		c.cleanup[i]()
	}
	c.cleanup = nil
}

// requireLogin fails fast when a command needs a session.
func (c *cli) requireLogin() error {
	if !c.client.Session.IsLoggedIn() {
		return fmt.Errorf("not logged in (run `tripctl login`)")
	}
	return nil
}
