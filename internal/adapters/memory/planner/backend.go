// Package planner is an in-memory implementation of the planner service's data layer.
// It backs the dev stub API and the HTTP integration suite.
package planner

import (
	"errors"
	"net/mail"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/clock"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("already exists")
	ErrBadCredentials = errors.New("incorrect username or password")
	ErrInactive       = errors.New("inactive user")
)

// RejectedError is returned when the itinerary generator refuses a request.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return "generation rejected: " + e.Reason }

const (
	DefaultLimit    = 100
	DefaultCurrency = "CNY"
)

type account struct {
	profile domain.UserProfile
	hash    []byte
}

type Options struct {
	// PasswordCost is the bcrypt cost. Zero means bcrypt.DefaultCost.
	PasswordCost int
}

// Backend holds users, trips and expenses. It is safe for concurrent use.
type Backend struct {
	clock clock.Clock
	cost  int

	mu         sync.RWMutex
	users      map[domain.UserID]*account
	byName     map[string]domain.UserID
	byEmail    map[string]domain.UserID
	trips      map[domain.TripID]domain.Trip
	expenses   map[domain.ExpenseID]domain.Expense
	nextUser   domain.UserID
	nextTrip   domain.TripID
	nextExp    domain.ExpenseID
	nextDetail int64
}

func NewBackend(clk clock.Clock, opts Options) *Backend {
	cost := opts.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Backend{
		clock:    clk,
		cost:     cost,
		users:    make(map[domain.UserID]*account),
		byName:   make(map[string]domain.UserID),
		byEmail:  make(map[string]domain.UserID),
		trips:    make(map[domain.TripID]domain.Trip),
		expenses: make(map[domain.ExpenseID]domain.Expense),
	}
}

// Register creates an active account.
func (b *Backend) Register(req plannerapi.RegisterRequest) (domain.UserProfile, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)
	details := map[string]any{}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		details["email"] = "value is not a valid email address"
	}
	if username == "" {
		details["username"] = "field required"
	}
	if req.Password == "" {
		details["password"] = "field required"
	}
	if len(details) > 0 {
		return domain.UserProfile{}, plannerapi.Validation("invalid registration", details)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), b.cost)
	if err != nil {
		return domain.UserProfile{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byName[username]; ok {
		return domain.UserProfile{}, ErrConflict
	}
	if _, ok := b.byEmail[strings.ToLower(email)]; ok {
		return domain.UserProfile{}, ErrConflict
	}
	b.nextUser++
	p := domain.UserProfile{
		ID:        b.nextUser,
		Email:     email,
		Username:  username,
		FullName:  req.FullName,
		IsActive:  true,
		CreatedAt: b.clock.Now(),
	}
	b.users[p.ID] = &account{profile: p, hash: hash}
	b.byName[username] = p.ID
	b.byEmail[strings.ToLower(email)] = p.ID
	return p, nil
}

// Authenticate checks a username/password pair.
func (b *Backend) Authenticate(username, password string) (domain.UserProfile, error) {
	b.mu.RLock()
	id, ok := b.byName[strings.TrimSpace(username)]
	var acct account
	if ok {
		acct = *b.users[id]
	}
	b.mu.RUnlock()
	if !ok {
		return domain.UserProfile{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return domain.UserProfile{}, ErrBadCredentials
	}
	if !acct.profile.IsActive {
		return domain.UserProfile{}, ErrInactive
	}
	return acct.profile, nil
}

func (b *Backend) User(id domain.UserID) (domain.UserProfile, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.users[id]
	if !ok {
		return domain.UserProfile{}, ErrNotFound
	}
	return a.profile, nil
}

// Deactivate marks a user inactive; their tokens stop resolving to a profile.
func (b *Backend) Deactivate(id domain.UserID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.users[id]
	if !ok {
		return ErrNotFound
	}
	a.profile.IsActive = false
	return nil
}

// window applies skip/limit paging to n items.
func window(n int, skip, limit *int) (int, int, error) {
	s, l := 0, DefaultLimit
	if skip != nil {
		s = *skip
	}
	if limit != nil {
		l = *limit
	}
	if s < 0 || l < 0 {
		return 0, 0, plannerapi.Validation("invalid paging", map[string]any{"skip": s, "limit": l})
	}
	if s > n {
		s = n
	}
	end := s + l
	if end > n {
		end = n
	}
	return s, end, nil
}
