// Package tokenstore keeps the access token in Postgres, for clients that share a
// database (e.g. several terminals on one workstation).
package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/postgres"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/tokenstore"
)

type Store struct {
	pool *pgxpool.Pool
	key  string
}

func NewStore(pool *pgxpool.Pool, key string) *Store {
	if key == "" {
		key = tokenstore.DefaultKey
	}
	return &Store{pool: pool, key: key}
}

func (s *Store) Load(ctx context.Context) (string, bool, error) {
	if s.pool == nil {
		return "", false, errors.New("nil postgres pool")
	}
	var tok string
	err := s.pool.QueryRow(ctx, `SELECT token FROM client_tokens WHERE token_key = $1`, s.key).Scan(&tok)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, unavailable(err)
	}
	return tok, true, nil
}

func (s *Store) Save(ctx context.Context, token string) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO client_tokens (token_key, token, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (token_key)
		DO UPDATE SET token = EXCLUDED.token, updated_at = EXCLUDED.updated_at
	`, s.key, token)
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM client_tokens WHERE token_key = $1`, s.key); err != nil {
		return unavailable(err)
	}
	return nil
}

func unavailable(err error) error {
	if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UndefinedTableCode {
		return fmt.Errorf("%w: client_tokens table missing, run migrations: %w", tokenstore.ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %w", tokenstore.ErrUnavailable, err)
}
