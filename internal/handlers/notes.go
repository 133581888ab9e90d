package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"notes-backend/internal/events"
	"notes-backend/internal/models"
	"notes-backend/internal/quota"
	"notes-backend/internal/storage"
)

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	_, tenant, ok := h.principalTenant(w, r)
	if !ok {
		return
	}

	notes, err := h.store.ListNotes(r.Context(), tenant.ID)
	if err != nil {
		log.Printf("ERROR list notes for tenant %s: %v", tenant.Slug, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, notes)
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	principal, tenant, ok := h.principalTenant(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Title and content required")
		return
	}

	if err := h.quota.CheckCanCreate(r.Context(), tenant); err != nil {
		h.rejectQuota(w, tenant, err)
		return
	}

	note, err := h.store.CreateNote(r.Context(), models.CreateNoteInput{
		Title:     req.Title,
		Content:   req.Content,
		TenantID:  tenant.ID,
		CreatedBy: principal.UserID,
	})
	if err != nil {
		// The transactional insert re-checks the cap, so a concurrent
		// creator that lost the race still gets the quota error here.
		h.rejectQuota(w, tenant, err)
		return
	}

	h.events.Publish(events.TypeNoteCreated, tenant.Slug, principal.UserID, note.ID)
	respondJSON(w, http.StatusCreated, note)
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	_, tenant, ok := h.principalTenant(w, r)
	if !ok {
		return
	}

	note, err := h.store.GetNote(r.Context(), tenant.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.rejectNote(w, tenant, err)
		return
	}

	respondJSON(w, http.StatusOK, note)
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	principal, tenant, ok := h.principalTenant(w, r)
	if !ok {
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.store.GetNote(r.Context(), tenant.ID, id)
	if err != nil {
		h.rejectNote(w, tenant, err)
		return
	}

	// Absent fields keep their stored value.
	title := req.Title
	if title == "" {
		title = existing.Title
	}
	content := req.Content
	if content == "" {
		content = existing.Content
	}

	note, err := h.store.UpdateNote(r.Context(), tenant.ID, id, title, content)
	if err != nil {
		h.rejectNote(w, tenant, err)
		return
	}

	h.events.Publish(events.TypeNoteUpdated, tenant.Slug, principal.UserID, note.ID)
	respondJSON(w, http.StatusOK, note)
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	principal, tenant, ok := h.principalTenant(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.DeleteNote(r.Context(), tenant.ID, id); err != nil {
		h.rejectNote(w, tenant, err)
		return
	}

	h.events.Publish(events.TypeNoteDeleted, tenant.Slug, principal.UserID, id)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
}

// rejectNote maps storage errors for note lookups. An absent note and a note
// in another tenant produce the same 404.
func (h *Handler) rejectNote(w http.ResponseWriter, tenant *models.Tenant, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Note not found")
		return
	}
	log.Printf("ERROR note operation for tenant %s: %v", tenant.Slug, err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func (h *Handler) rejectQuota(w http.ResponseWriter, tenant *models.Tenant, err error) {
	if errors.Is(err, quota.ErrNoteLimitReached) {
		if werr := h.webhook.NotifyQuotaHit(tenant.Slug); werr != nil {
			log.Printf("WARN quota webhook: %v", werr)
		}
		respondJSON(w, http.StatusForbidden, map[string]string{
			"error":   quota.ReasonNoteLimit,
			"message": "Tenant has reached the note limit for Free plan",
		})
		return
	}
	log.Printf("ERROR create note for tenant %s: %v", tenant.Slug, err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
