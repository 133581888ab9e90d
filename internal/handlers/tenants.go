package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notes-backend/internal/auth"
	"notes-backend/internal/events"
	"notes-backend/internal/models"
	"notes-backend/internal/storage"
)

// Invited users start with this password until they change it out of band.
const invitePassword = "password"

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "Email and role required")
		return
	}
	if !models.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	slug := chi.URLParam(r, "slug")
	tenant, err := h.store.GetTenantBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		log.Printf("ERROR invite tenant lookup %s: %v", slug, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	passwordHash, err := auth.HashPassword(invitePassword)
	if err != nil {
		log.Printf("ERROR hash invite password: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.store.CreateUser(r.Context(), models.CreateUserInput{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		TenantID:     tenant.ID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("ERROR invite user %s: %v", req.Email, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.events.Publish(events.TypeUserInvited, tenant.Slug, principal.UserID, user.ID)
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"email":    user.Email,
		"role":     user.Role,
		"tenantId": user.TenantID,
	})
}

func (h *Handler) UpgradePlan(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	slug := chi.URLParam(r, "slug")
	tenant, err := h.store.UpgradeTenantPlan(r.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrTenantNotFound) {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		log.Printf("ERROR upgrade tenant %s: %v", slug, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.events.Publish(events.TypeTenantUpgraded, tenant.Slug, principal.UserID, tenant.ID)
	if werr := h.webhook.NotifyUpgrade(tenant.Slug, principal.Email); werr != nil {
		log.Printf("WARN upgrade webhook: %v", werr)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Tenant upgraded to Pro plan",
		"tenant":  tenant,
	})
}
