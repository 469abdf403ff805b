// Package idempotency is the replay store behind the Idempotency-Key header of the
// stub API's POST endpoints.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
)

// Fingerprint scopes a key to the user and endpoint it was sent to. A fingerprint with
// an empty BodyHash records which body the key was first used with; the same
// fingerprint with the hash set holds the response.
type Fingerprint struct {
	Key      string
	User     domain.UserID
	Method   string
	Path     string
	BodyHash string
}

// WithBody returns fp narrowed to one request body.
func (fp Fingerprint) WithBody(hash string) Fingerprint {
	fp.BodyHash = hash
	return fp
}

// HashBody is the BodyHash of a raw request body.
func HashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Record is a stored response. For the body-only fingerprint, Body holds the hash and
// StatusCode is zero.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Replayable reports whether r is a response worth serving again.
func (r Record) Replayable() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Store persists records. Stores may expire records; an expired record is reported as
// absent.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
