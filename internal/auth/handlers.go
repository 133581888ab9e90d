package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"notes-backend/internal/models"
)

// UserStore is the slice of storage the auth handlers need.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetTenantByID(ctx context.Context, id string) (*models.Tenant, error)
}

type Handler struct {
	store UserStore
}

func NewHandler(store UserStore) *Handler {
	return &Handler{store: store}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a signed session token
// @Summary User login
// @Description Authenticates user with email and password, returns session token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{} "Token and user data"
// @Failure 400 {string} string "Invalid request body or missing credentials"
// @Failure 401 {string} string "Invalid credentials"
// @Failure 503 {string} string "Service misconfigured"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("ERROR login lookup for %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || !VerifyPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tenant, err := h.store.GetTenantByID(r.Context(), user.TenantID)
	if err != nil || tenant == nil {
		log.Printf("ERROR login tenant lookup for %s: %v", user.TenantID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := GenerateToken(user.ID, user.Email, tenant.Slug, user.Role)
	if err != nil {
		if errors.Is(err, ErrMissingSecret) {
			writeError(w, http.StatusServiceUnavailable, "Configuration missing")
			return
		}
		log.Printf("ERROR generate token: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":         user.ID,
			"email":      user.Email,
			"role":       user.Role,
			"tenantSlug": tenant.Slug,
		},
	})
}

// Me returns the principal for the presented token
// @Summary Get current principal
// @Description Returns the authenticated identity derived from the session token
// @Tags auth
// @Produce json
// @Success 200 {object} Principal
// @Failure 401 {string} string "Unauthorized"
// @Security BearerAuth
// @Router /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}
	writeJSON(w, http.StatusOK, principal)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
