package tokenstore

import (
	"context"
	"errors"
)

// DefaultKey is the storage key of the access token entry.
const DefaultKey = "access_token"

// ErrUnavailable indicates the backing storage cannot be reached (e.g. browser storage disabled).
var ErrUnavailable = errors.New("token storage unavailable")

// Store persists the single access token value across process restarts.
//
// Implementations hold exactly one entry. Clear on an empty store is not an error.
type Store interface {
	Load(ctx context.Context) (token string, ok bool, err error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
