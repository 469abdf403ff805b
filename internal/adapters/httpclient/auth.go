package httpclient

import (
	"context"
	"net/http"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/oas"
	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

func (c *Client) Register(ctx context.Context, req plannerapi.RegisterRequest) (domain.UserProfile, error) {
	var out oas.User
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", public: true, body: oas.RegisterToOAS(req), out: &out})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return oas.UserFromOAS(out), nil
}

func (c *Client) Login(ctx context.Context, req plannerapi.LoginRequest) (plannerapi.Token, error) {
	var out oas.Token
	body := oas.UserLogin{Username: req.Username, Password: req.Password}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", public: true, body: body, out: &out}); err != nil {
		return plannerapi.Token{}, err
	}
	return plannerapi.Token{AccessToken: out.AccessToken, TokenType: out.TokenType}, nil
}

func (c *Client) CurrentUser(ctx context.Context) (domain.UserProfile, error) {
	var out oas.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", out: &out}); err != nil {
		return domain.UserProfile{}, err
	}
	return oas.UserFromOAS(out), nil
}
