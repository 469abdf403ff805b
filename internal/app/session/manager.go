// Package session owns the client's access token and the identity it resolves to.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"sync"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/tokenstore"
)

// errSessionInvalid marks an identity lookup failure. It never leaves the package: the
// manager recovers from it by logging out.
var errSessionInvalid = errors.New("session invalid")

type Options struct {
	Logger *log.Logger
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName *string
}

// Manager is safe for concurrent use. Its lock guards the token and user only; remote
// calls run without it.
type Manager struct {
	auth   plannerapi.AuthAPI
	tokens tokenstore.Store
	log    *log.Logger

	mu    sync.RWMutex
	token string
	user  *domain.UserProfile
}

// NewManager seeds the token from durable storage. A store that cannot be read is
// logged and the manager starts logged out. The user profile is not fetched; call
// FetchUserInfo to resolve it.
func NewManager(ctx context.Context, auth plannerapi.AuthAPI, tokens tokenstore.Store, opts Options) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if auth == nil || tokens == nil {
		return nil, errors.New("session: auth API and token store are required")
	}
	m := &Manager{auth: auth, tokens: tokens, log: logger}

	// An unreadable store only costs the saved login.
	tok, ok, err := tokens.Load(ctx)
	switch {
	case err != nil:
		m.log.Printf("session: load stored token: %v; starting logged out", err)
	case ok:
		m.token = tok
	}
	return m, nil
}

// Login exchanges credentials for a token, commits it and then resolves the user.
// On failure the previously held token (if any) is left as it was.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	tok, err := m.auth.Login(ctx, plannerapi.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return &plannerapi.Error{Kind: plannerapi.ErrAuthentication, Message: "empty access token"}
	}
	if err := m.tokens.Save(ctx, tok.AccessToken); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	m.mu.Lock()
	m.token = tok.AccessToken
	m.user = nil
	m.mu.Unlock()

	m.FetchUserInfo(ctx)
	return nil
}

// Register creates the account and then logs in with the same credentials.
func (m *Manager) Register(ctx context.Context, in RegisterInput) error {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)

	details := map[string]any{}
	if err := validateEmail(email); err != nil {
		details["email"] = err.Error()
	}
	if username == "" {
		details["username"] = "must be non-empty"
	}
	if in.Password == "" {
		details["password"] = "must be non-empty"
	}
	if len(details) > 0 {
		return plannerapi.Validation("invalid registration", details)
	}

	req := plannerapi.RegisterRequest{Email: email, Username: username, Password: in.Password}
	if in.FullName != nil {
		if n := domain.NormalizeHumanName(*in.FullName); n != "" {
			req.FullName = &n
		}
	}
	if _, err := m.auth.Register(ctx, req); err != nil {
		return err
	}
	return m.Login(ctx, username, in.Password)
}

// FetchUserInfo resolves the profile behind the held token. Without a token it does
// nothing. Any failure ends the session.
func (m *Manager) FetchUserInfo(ctx context.Context) {
	m.mu.RLock()
	tok := m.token
	m.mu.RUnlock()
	if tok == "" {
		return
	}

	u, err := m.auth.CurrentUser(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", errSessionInvalid, err)
		m.mu.Lock()
		stale := m.token != tok
		m.mu.Unlock()
		if stale {
			return
		}
		m.log.Printf("session: %v; logging out", err)
		m.Logout(ctx)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A logout or another login may have happened meanwhile.
	if m.token != tok {
		return
	}
	m.user = &u
}

// Logout clears the in-memory session and the durable entry. It has no network effect.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.tokens.Clear(ctx); err != nil {
		m.log.Printf("session: clear stored token: %v", err)
	}
}

// IsLoggedIn reports whether a token is held, resolved user or not.
func (m *Manager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the held token, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) CurrentUser() (domain.UserProfile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == "" || m.user == nil {
		return domain.UserProfile{}, false
	}
	return *m.user, true
}

func (m *Manager) Session() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := domain.Session{Token: m.token}
	if m.token != "" && m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("must be a valid email address")
	}
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}
