package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notes-backend/internal/auth"
	"notes-backend/internal/events"
	"notes-backend/internal/models"
	"notes-backend/internal/quota"
	"notes-backend/internal/services"
)

// Store is the storage surface the HTTP handlers depend on. *storage.Storage
// satisfies it; tests substitute an in-memory implementation.
type Store interface {
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	UpgradeTenantPlan(ctx context.Context, slug string) (*models.Tenant, error)
	CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error)
	CreateNote(ctx context.Context, input models.CreateNoteInput) (*models.Note, error)
	ListNotes(ctx context.Context, tenantID string) ([]models.Note, error)
	GetNote(ctx context.Context, tenantID, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, tenantID, id, title, content string) (*models.Note, error)
	DeleteNote(ctx context.Context, tenantID, id string) error
	CountNotes(ctx context.Context, tenantID string) (int, error)
	Ping() error
}

type Handler struct {
	store        Store
	quota        *quota.Enforcer
	auth         *auth.Handler
	events       *events.Publisher
	webhook      *services.WebhookClient
	loginLimiter func(http.Handler) http.Handler
}

func New(store Store, enforcer *quota.Enforcer, authHandler *auth.Handler, publisher *events.Publisher, webhook *services.WebhookClient) *Handler {
	return &Handler{
		store:   store,
		quota:   enforcer,
		auth:    authHandler,
		events:  publisher,
		webhook: webhook,
	}
}

// WithLoginLimiter rate-limits POST /auth/login with the given middleware.
func (h *Handler) WithLoginLimiter(limiter func(http.Handler) http.Handler) *Handler {
	h.loginLimiter = limiter
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		if h.loginLimiter != nil {
			r.Use(h.loginLimiter)
		}
		r.Post("/auth/login", h.auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/me", h.auth.Me)

		r.Get("/notes", h.ListNotes)
		r.Post("/notes", h.CreateNote)
		r.Get("/notes/{id}", h.GetNote)
		r.Put("/notes/{id}", h.UpdateNote)
		r.Delete("/notes/{id}", h.DeleteNote)

		r.Route("/tenants/{slug}", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Use(auth.RequireTenant)
			r.Post("/invite", h.InviteUser)
			r.Post("/upgrade", h.UpgradePlan)
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.store.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// principalTenant resolves the caller's tenant from the authenticated
// principal. The tenant record is fetched fresh so plan changes take effect
// immediately; the slug itself is never read from the client.
func (h *Handler) principalTenant(w http.ResponseWriter, r *http.Request) (auth.Principal, *models.Tenant, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return auth.Principal{}, nil, false
	}

	tenant, err := h.store.GetTenantBySlug(r.Context(), principal.TenantSlug)
	if err != nil {
		log.Printf("ERROR resolve tenant %s: %v", principal.TenantSlug, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return auth.Principal{}, nil, false
	}

	return principal, tenant, true
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
