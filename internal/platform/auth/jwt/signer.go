package jwt

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/clock"
)

// Signer mints RS256 access tokens for the dev planner API.
type Signer struct {
	key      Keypair
	issuer   string
	audience string
	ttl      time.Duration
	clock    clock.Clock
}

func NewSigner(key Keypair, issuer, audience string, ttl time.Duration, clk clock.Clock) (*Signer, error) {
	if key.Private == nil || key.Kid == "" {
		return nil, errors.New("signer requires a keypair with a kid")
	}
	if ttl <= 0 {
		return nil, errors.New("signer requires a positive ttl")
	}
	return &Signer{key: key, issuer: issuer, audience: audience, ttl: ttl, clock: clk}, nil
}

// Mint returns a token whose subject is sub and its expiry.
func (s *Signer) Mint(sub string) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(s.ttl)

	header := map[string]any{
		"alg": "RS256",
		"typ": "JWT",
		"kid": s.key.Kid,
	}
	claims := map[string]any{
		"iss": s.issuer,
		"aud": s.audience,
		"sub": sub,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"nbf": now.Unix(),
	}

	hb, err := json.Marshal(header)
	if err != nil {
		return "", time.Time{}, err
	}
	cb, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString(hb) + "." + enc.EncodeToString(cb)
	sum := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key.Private, crypto.SHA256, sum[:])
	if err != nil {
		return "", time.Time{}, err
	}
	return signingInput + "." + enc.EncodeToString(sig), exp, nil
}
