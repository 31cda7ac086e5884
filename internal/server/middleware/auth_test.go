package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surgsim-platform/backend/internal/security"
	"surgsim-platform/backend/internal/user/domain"
)

type stubUserGetter struct {
	user *domain.User
	err  error
}

func (s *stubUserGetter) GetByUsername(_ context.Context, _ string) (*domain.User, error) {
	return s.user, s.err
}

func TestRequireAuth(t *testing.T) {
	tokens := security.NewTokenProvider([]byte("middleware-test-secret"), "surgsim-backend", time.Hour)
	user := &domain.User{ID: "user-1", Username: "surgeon_master", Role: domain.RoleSurgeon}

	validToken, err := tokens.Issue(user.ID, user.Username)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	foreign := security.NewTokenProvider([]byte("a-different-secret"), "surgsim-backend", time.Hour)
	foreignToken, err := foreign.Issue(user.ID, user.Username)
	if err != nil {
		t.Fatalf("issue foreign token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		users      *stubUserGetter
		wantStatus int
	}{
		{"valid token", "Bearer " + validToken, &stubUserGetter{user: user}, http.StatusOK},
		{"lowercase scheme", "bearer " + validToken, &stubUserGetter{user: user}, http.StatusOK},
		{"missing header", "", &stubUserGetter{user: user}, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + validToken, &stubUserGetter{user: user}, http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreignToken, &stubUserGetter{user: user}, http.StatusUnauthorized},
		{"unknown user", "Bearer " + validToken, &stubUserGetter{}, http.StatusUnauthorized},
		{"id mismatch", "Bearer " + validToken, &stubUserGetter{user: &domain.User{ID: "someone-else", Username: user.Username}}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIdentity Identity
			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotIdentity, _ = IdentityFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			RequireAuth(tokens, tt.users, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if !called {
					t.Fatal("next handler not called")
				}
				if gotIdentity.UserID != user.ID || gotIdentity.Role != domain.RoleSurgeon {
					t.Errorf("identity = %+v, want user-1 with SURGEON role", gotIdentity)
				}
			} else if called {
				t.Error("next handler called on rejected request")
			}
		})
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	id := Identity{UserID: "user-1", Username: "surgeon_master", Role: domain.RoleSurgeon}
	ctx := WithIdentity(context.Background(), id)

	got, ok := IdentityFromContext(ctx)
	if !ok {
		t.Fatal("identity not found in context")
	}
	if got != id {
		t.Errorf("identity = %+v, want %+v", got, id)
	}

	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("empty context reported an identity")
	}
}
