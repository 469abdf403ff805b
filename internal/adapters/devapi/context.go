package devapi

import (
	"context"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
)

type userKey struct{}

func WithUser(ctx context.Context, u domain.UserProfile) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func UserFromContext(ctx context.Context) (domain.UserProfile, bool) {
	u, ok := ctx.Value(userKey{}).(domain.UserProfile)
	return u, ok
}
