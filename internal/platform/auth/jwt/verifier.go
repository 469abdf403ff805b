package jwt

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/clock"
)

var ErrUnauthorized = errors.New("unauthorized")

type VerifierConfig struct {
	Issuer    string
	Audience  string
	ClockSkew time.Duration
}

// Verifier checks RS256 tokens against a fixed key set.
type Verifier struct {
	cfg   VerifierConfig
	keys  map[string]*rsa.PublicKey
	clock clock.Clock
}

func NewVerifier(cfg VerifierConfig, keys map[string]*rsa.PublicKey, clk clock.Clock) *Verifier {
	return &Verifier{cfg: cfg, keys: keys, clock: clk}
}

// NewVerifierForKeys builds a verifier trusting the public halves of keys.
func NewVerifierForKeys(cfg VerifierConfig, clk clock.Clock, keys ...Keypair) *Verifier {
	m := make(map[string]*rsa.PublicKey, len(keys))
	for _, kp := range keys {
		pub := kp.Private.PublicKey
		m[kp.Kid] = &pub
	}
	return NewVerifier(cfg, m, clk)
}

type header struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Typ string `json:"typ"`
}

type claims struct {
	Iss string          `json:"iss"`
	Sub string          `json:"sub"`
	Aud json.RawMessage `json:"aud"`
	Exp *int64          `json:"exp"`
	Nbf *int64          `json:"nbf"`
}

// Verify verifies a token and returns the subject from the `sub` claim.
//
// Verification:
// - RS256 signature using a known kid
// - iss, aud, exp, and nbf (when present)
func (v *Verifier) Verify(token string) (string, error) {
	h, c, signingInput, sig, err := parse(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	if h.Alg != "RS256" || h.Kid == "" {
		return "", ErrUnauthorized
	}
	pub := v.keys[h.Kid]
	if pub == nil {
		return "", ErrUnauthorized
	}
	sum := sha256.Sum256([]byte(signingInput))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, sum[:], sig); err != nil {
		return "", ErrUnauthorized
	}
	if err := v.validateClaims(c); err != nil {
		return "", ErrUnauthorized
	}
	if c.Sub == "" {
		return "", ErrUnauthorized
	}
	return c.Sub, nil
}

func (v *Verifier) validateClaims(c claims) error {
	now := v.clock.Now()
	skew := v.cfg.ClockSkew

	if c.Iss != v.cfg.Issuer {
		return fmt.Errorf("iss mismatch")
	}
	if !audMatches(c.Aud, v.cfg.Audience) {
		return fmt.Errorf("aud mismatch")
	}
	if c.Exp == nil {
		return fmt.Errorf("missing exp")
	}
	if now.After(time.Unix(*c.Exp, 0).Add(skew)) {
		return fmt.Errorf("token expired")
	}
	if c.Nbf != nil && now.Before(time.Unix(*c.Nbf, 0).Add(-skew)) {
		return fmt.Errorf("token not yet valid")
	}
	return nil
}

func parse(token string) (header, claims, string, []byte, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return header{}, claims{}, "", nil, fmt.Errorf("bad jwt parts")
	}
	enc := base64.RawURLEncoding
	hb, err := enc.DecodeString(parts[0])
	if err != nil {
		return header{}, claims{}, "", nil, err
	}
	cb, err := enc.DecodeString(parts[1])
	if err != nil {
		return header{}, claims{}, "", nil, err
	}
	sig, err := enc.DecodeString(parts[2])
	if err != nil {
		return header{}, claims{}, "", nil, err
	}
	var h header
	if err := json.Unmarshal(hb, &h); err != nil {
		return header{}, claims{}, "", nil, err
	}
	var c claims
	if err := json.Unmarshal(cb, &c); err != nil {
		return header{}, claims{}, "", nil, err
	}
	return h, c, parts[0] + "." + parts[1], sig, nil
}

func audMatches(raw json.RawMessage, expected string) bool {
	if len(raw) == 0 {
		return false
	}
	// aud can be a string or an array of strings.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s == expected
	}
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		for _, v := range arr {
			if v == expected {
				return true
			}
		}
	}
	return false
}
