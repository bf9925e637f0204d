package auth

import (
    "context"
    "net/http"
    "strings"

    "github.com/unclebandit/mailflow-backend/internal/model"
    "github.com/unclebandit/mailflow-backend/internal/repository"
)

type contextKey string

const userContextKey contextKey = "current_user"

// Middleware authenticates requests via a Bearer token and loads the user
// into the request context. Blocked (inactive) accounts are rejected.
type Middleware struct {
    UserRepo  repository.UserRepositoryInterface
    JWTSecret string
}

func (m *Middleware) RequireUser(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        header := r.Header.Get("Authorization")
        if !strings.HasPrefix(header, "Bearer ") {
            http.Error(w, "missing bearer token", http.StatusUnauthorized)
            return
        }

        userID, err := ParseToken(strings.TrimPrefix(header, "Bearer "), m.JWTSecret)
        if err != nil {
            http.Error(w, "invalid token", http.StatusUnauthorized)
            return
        }

        user, err := m.UserRepo.GetByID(userID)
        if err != nil {
            http.Error(w, "invalid token", http.StatusUnauthorized)
            return
        }
        if !user.IsActive {
            http.Error(w, "account is blocked or not verified", http.StatusForbidden)
            return
        }

        ctx := context.WithValue(r.Context(), userContextKey, user)
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// ContextWithUser stores the user the way RequireUser does.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
    return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user, or nil outside the
// RequireUser middleware.
func UserFromContext(ctx context.Context) *model.User {
    user, _ := ctx.Value(userContextKey).(*model.User)
    return user
}
