package devapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Overland-East-Bay/trip-planner-client/internal/domain"
)

// requireUser enforces Authorization: Bearer <JWT> and resolves the subject to an
// active user stored in the request context.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, prefix) {
			writeUnauthorized(w, "Not authenticated")
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
		if raw == "" {
			writeUnauthorized(w, "Not authenticated")
			return
		}

		sub, err := s.verifier.Verify(raw)
		if err != nil {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}
		id, err := strconv.ParseInt(sub, 10, 64)
		if err != nil {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}
		u, err := s.backend.User(domain.UserID(id))
		if err != nil {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}
		if !u.IsActive {
			writeDetail(w, http.StatusBadRequest, "Inactive user")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}
