package domain

import "time"

// UserProfile is the identity returned by the planner service for the authenticated user.
type UserProfile struct {
	ID       UserID
	Email    string
	Username string
	FullName *string

	IsActive  bool
	CreatedAt time.Time
}

// Session is a snapshot of the client's authentication state.
//
// User is only meaningful when Token is non-empty. A token without a user is a valid
// transient state (obtained, profile not fetched yet).
type Session struct {
	Token string
	User  *UserProfile
}

// Authenticated reports whether the snapshot holds a token.
func (s Session) Authenticated() bool { return s.Token != "" }
