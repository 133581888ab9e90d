package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"notes-backend/internal/models"
)

// RequireAdmin rejects non-admin principals. Must run after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if principal.Role != models.RoleAdmin {
			forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireTenant rejects requests whose {slug} URL parameter does not match
// the principal's tenant. A mismatched tenant is denied regardless of role.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		slug := chi.URLParam(r, "slug")
		if slug == "" || principal.TenantSlug != slug {
			forbidden(w, "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func forbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
