package plannerapi

import (
	"context"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
)

type RegisterRequest struct {
	Email    string
	Username string
	Password string
	FullName *string
}

type LoginRequest struct {
	Username string
	Password string
}

// Token is the credential returned by a successful login.
type Token struct {
	AccessToken string
	TokenType   string
}

// AuthAPI is the authentication surface of the planner service.
type AuthAPI interface {
	Register(ctx context.Context, req RegisterRequest) (domain.UserProfile, error)
	Login(ctx context.Context, req LoginRequest) (Token, error)
	CurrentUser(ctx context.Context) (domain.UserProfile, error)
}
