package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Principal is the authenticated identity for the current request, built
// from verified token claims. It is reconstructed per request and never
// mutated.
type Principal struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	TenantSlug string    `json:"tenantSlug"`
	Role       string    `json:"role"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type contextKey string

const principalKey contextKey = "notes_principal"

// Middleware rejects requests without a valid bearer token and stores the
// resulting Principal in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(w)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			unauthorized(w)
			return
		}

		claims, err := ParseToken(token)
		if err != nil || claims.UserID == "" {
			unauthorized(w)
			return
		}

		principal := Principal{
			UserID:     claims.UserID,
			Email:      claims.Email,
			TenantSlug: claims.TenantSlug,
			Role:       claims.Role,
		}
		if claims.ExpiresAt != nil {
			principal.ExpiresAt = claims.ExpiresAt.Time
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
