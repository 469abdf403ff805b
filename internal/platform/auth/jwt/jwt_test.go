package jwt_test

import (
	"encoding/base64"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memclock "github.com/Overland-East-Bay/trip-planner-client/internal/adapters/memory/clock"
	"github.com/Overland-East-Bay/trip-planner-client/internal/platform/auth/jwt"
)

var (
	keyOnce sync.Once
	keyA    jwt.Keypair
	keyB    jwt.Keypair
	keyErr  error
)

func keys(t *testing.T) (jwt.Keypair, jwt.Keypair) {
	t.Helper()
	keyOnce.Do(func() {
		keyA, keyErr = jwt.GenerateKeypair("kid-a")
		if keyErr == nil {
			keyB, keyErr = jwt.GenerateKeypair("kid-b")
		}
	})
	require.NoError(t, keyErr)
	return keyA, keyB
}

var verifierCfg = jwt.VerifierConfig{Issuer: "test-iss", Audience: "test-aud"}

func newPair(t *testing.T) (*jwt.Signer, *jwt.Verifier, *memclock.ManualClock) {
	t.Helper()
	a, _ := keys(t)
	clk := memclock.NewManualClock(time.Unix(1700000000, 0))
	s, err := jwt.NewSigner(a, verifierCfg.Issuer, verifierCfg.Audience, 5*time.Minute, clk)
	require.NoError(t, err)
	return s, jwt.NewVerifierForKeys(verifierCfg, clk, a), clk
}

func TestVerifier_Verify_ValidToken(t *testing.T) {
	t.Parallel()
	s, v, clk := newPair(t)

	token, exp, err := s.Mint("user-7")
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(5*time.Minute), exp)

	sub, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-7", sub)
}

func TestSigner_TokensAreUnique(t *testing.T) {
	t.Parallel()
	s, _, _ := newPair(t)

	first, _, err := s.Mint("user-7")
	require.NoError(t, err)
	second, _, err := s.Mint("user-7")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifier_Verify_Expired(t *testing.T) {
	t.Parallel()
	s, v, clk := newPair(t)

	token, _, err := s.Mint("user-7")
	require.NoError(t, err)

	clk.Advance(5*time.Minute + time.Second)
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwt.ErrUnauthorized)
}

func TestVerifier_Verify_ClockSkew(t *testing.T) {
	t.Parallel()
	a, _ := keys(t)
	clk := memclock.NewManualClock(time.Unix(1700000000, 0))
	s, err := jwt.NewSigner(a, "test-iss", "test-aud", time.Minute, clk)
	require.NoError(t, err)
	cfg := verifierCfg
	cfg.ClockSkew = 30 * time.Second
	v := jwt.NewVerifierForKeys(cfg, clk, a)

	token, _, err := s.Mint("user-7")
	require.NoError(t, err)

	clk.Advance(time.Minute + 20*time.Second)
	_, err = v.Verify(token)
	require.NoError(t, err)
}

func TestVerifier_Verify_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()
	a, _ := keys(t)
	clk := memclock.NewManualClock(time.Unix(1700000000, 0))
	v := jwt.NewVerifierForKeys(verifierCfg, clk, a)

	for _, tc := range []struct{ iss, aud string }{
		{"other-iss", "test-aud"},
		{"test-iss", "other-aud"},
	} {
		s, err := jwt.NewSigner(a, tc.iss, tc.aud, time.Minute, clk)
		require.NoError(t, err)
		token, _, err := s.Mint("user-7")
		require.NoError(t, err)
		_, err = v.Verify(token)
		require.ErrorIs(t, err, jwt.ErrUnauthorized, "iss=%s aud=%s", tc.iss, tc.aud)
	}
}

func TestVerifier_Verify_UnknownKidOrBadSignature(t *testing.T) {
	t.Parallel()
	a, b := keys(t)
	clk := memclock.NewManualClock(time.Unix(1700000000, 0))
	v := jwt.NewVerifierForKeys(verifierCfg, clk, a)

	s, err := jwt.NewSigner(b, verifierCfg.Issuer, verifierCfg.Audience, time.Minute, clk)
	require.NoError(t, err)
	token, _, err := s.Mint("user-7")
	require.NoError(t, err)
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwt.ErrUnauthorized)

	// Signed by b but claiming a's kid.
	forged := jwt.Keypair{Kid: a.Kid, Private: b.Private}
	s, err = jwt.NewSigner(forged, verifierCfg.Issuer, verifierCfg.Audience, time.Minute, clk)
	require.NoError(t, err)
	token, _, err = s.Mint("user-7")
	require.NoError(t, err)
	_, err = v.Verify(token)
	require.ErrorIs(t, err, jwt.ErrUnauthorized)
}

func TestVerifier_Verify_Malformed(t *testing.T) {
	t.Parallel()
	s, v, _ := newPair(t)
	token, _, err := s.Mint("user-7")
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	tampered := base64.RawURLEncoding.EncodeToString([]byte(`{"iss":"test-iss","aud":"test-aud","sub":"admin","exp":9999999999}`))
	for _, bad := range []string{
		"",
		"abc",
		"a.b.c",
		parts[0] + "." + tampered + "." + parts[2],
	} {
		_, err := v.Verify(bad)
		require.ErrorIs(t, err, jwt.ErrUnauthorized, "token %q", bad)
	}
}

func TestJWKS_RoundTrip(t *testing.T) {
	t.Parallel()
	a, b := keys(t)

	doc, err := jwt.MarshalJWKS(a, b)
	require.NoError(t, err)
	parsed, err := jwt.ParseJWKS(doc)
	require.NoError(t, err)

	require.Len(t, parsed, 2)
	assert.Equal(t, 0, parsed["kid-a"].N.Cmp(a.Private.N))
	assert.Equal(t, a.Private.E, parsed["kid-a"].E)

	clk := memclock.NewManualClock(time.Unix(1700000000, 0))
	s, err := jwt.NewSigner(b, verifierCfg.Issuer, verifierCfg.Audience, time.Minute, clk)
	require.NoError(t, err)
	token, _, err := s.Mint("user-9")
	require.NoError(t, err)
	sub, err := jwt.NewVerifier(verifierCfg, parsed, clk).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", sub)
}

func TestParseJWKS_NoUsableKeys(t *testing.T) {
	t.Parallel()
	_, err := jwt.ParseJWKS([]byte(`{"keys":[{"kty":"EC","kid":"x"}]}`))
	require.Error(t, err)
}

func TestNewSigner_RequiresKeyAndTTL(t *testing.T) {
	t.Parallel()
	a, _ := keys(t)
	clk := memclock.NewManualClock(time.Unix(0, 0))
	_, err := jwt.NewSigner(jwt.Keypair{}, "i", "a", time.Minute, clk)
	require.Error(t, err)
	_, err = jwt.NewSigner(a, "i", "a", 0, clk)
	require.Error(t, err)
}
