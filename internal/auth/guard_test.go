package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"notes-backend/internal/models"
)

func guardedRouter() chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(Middleware)
		r.Route("/tenants/{slug}", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Use(RequireTenant)
			r.Post("/upgrade", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})
	})
	return r
}

func TestGuardOrderAndDecisions(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	acmeAdmin, _ := GenerateToken("u1", "admin@acme.test", "acme", models.RoleAdmin)
	acmeMember, _ := GenerateToken("u2", "user@acme.test", "acme", models.RoleMember)
	globexAdmin, _ := GenerateToken("u3", "admin@globex.test", "globex", models.RoleAdmin)

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"member denied before tenant check", acmeMember, http.StatusForbidden},
		{"admin of another tenant denied", globexAdmin, http.StatusForbidden},
		{"admin of target tenant allowed", acmeAdmin, http.StatusOK},
	}

	router := guardedRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/tenants/acme/upgrade", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
