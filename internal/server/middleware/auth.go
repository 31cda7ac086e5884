package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"surgsim-platform/backend/internal/security"
	"surgsim-platform/backend/internal/user/domain"
)

const bearerPrefix = "bearer "

// UserGetter resolves the full user record (including role) for a verified
// token subject.
type UserGetter interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// RequireAuth wraps next with Bearer token authentication. The token is
// verified once per request; on success the user's identity, including the
// role loaded from storage, is attached to the request context. Requests
// without a valid token get 401 with a JSON error envelope.
func RequireAuth(tokens *security.TokenProvider, users UserGetter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			unauthorized(w)
			return
		}
		userID, username, err := tokens.Verify(token)
		if err != nil {
			unauthorized(w)
			return
		}
		user, err := users.GetByUsername(r.Context(), username)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
			return
		}
		if user == nil || user.ID != userID {
			unauthorized(w)
			return
		}
		ctx := WithIdentity(r.Context(), Identity{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing or invalid authorization"})
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
