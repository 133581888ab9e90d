// Package quota enforces per-tenant plan limits before mutating operations.
package quota

import (
	"context"
	"errors"

	"notes-backend/internal/models"
)

// FreeNoteLimit is the maximum number of notes a free-plan tenant may hold.
const FreeNoteLimit = 3

// ReasonNoteLimit is the stable machine-readable reason code returned to
// clients when the note cap is hit.
const ReasonNoteLimit = "note_limit_reached"

var ErrNoteLimitReached = errors.New(ReasonNoteLimit)

// NoteCounter reports the current number of notes a tenant holds.
type NoteCounter interface {
	CountNotes(ctx context.Context, tenantID string) (int, error)
}

type Enforcer struct {
	notes NoteCounter
}

func NewEnforcer(notes NoteCounter) *Enforcer {
	return &Enforcer{notes: notes}
}

// CheckCanCreate fails with ErrNoteLimitReached when a free-plan tenant is
// already at the cap. This is the cheap pre-check; the storage layer repeats
// the count under a tenant-row lock so concurrent creators cannot overshoot.
func (e *Enforcer) CheckCanCreate(ctx context.Context, tenant *models.Tenant) error {
	if tenant.Plan != models.PlanFree {
		return nil
	}

	count, err := e.notes.CountNotes(ctx, tenant.ID)
	if err != nil {
		return err
	}
	if count >= FreeNoteLimit {
		return ErrNoteLimitReached
	}

	return nil
}
