package quota

import (
	"context"
	"errors"
	"testing"

	"notes-backend/internal/models"
)

type fixedCounter struct {
	count int
	err   error
}

func (f fixedCounter) CountNotes(ctx context.Context, tenantID string) (int, error) {
	return f.count, f.err
}

func TestCheckCanCreateFreePlan(t *testing.T) {
	tenant := &models.Tenant{ID: "t1", Slug: "acme", Plan: models.PlanFree}

	for count := 0; count < FreeNoteLimit; count++ {
		enforcer := NewEnforcer(fixedCounter{count: count})
		if err := enforcer.CheckCanCreate(context.Background(), tenant); err != nil {
			t.Errorf("count %d: unexpected error %v", count, err)
		}
	}

	enforcer := NewEnforcer(fixedCounter{count: FreeNoteLimit})
	err := enforcer.CheckCanCreate(context.Background(), tenant)
	if !errors.Is(err, ErrNoteLimitReached) {
		t.Errorf("at limit: error = %v, want ErrNoteLimitReached", err)
	}

	enforcer = NewEnforcer(fixedCounter{count: FreeNoteLimit + 5})
	if err := enforcer.CheckCanCreate(context.Background(), tenant); !errors.Is(err, ErrNoteLimitReached) {
		t.Errorf("over limit: error = %v, want ErrNoteLimitReached", err)
	}
}

func TestCheckCanCreateProPlan(t *testing.T) {
	tenant := &models.Tenant{ID: "t1", Slug: "acme", Plan: models.PlanPro}

	enforcer := NewEnforcer(fixedCounter{count: 100})
	if err := enforcer.CheckCanCreate(context.Background(), tenant); err != nil {
		t.Errorf("pro plan: unexpected error %v", err)
	}
}

func TestCheckCanCreateCounterError(t *testing.T) {
	tenant := &models.Tenant{ID: "t1", Slug: "acme", Plan: models.PlanFree}
	wantErr := errors.New("db down")

	enforcer := NewEnforcer(fixedCounter{err: wantErr})
	if err := enforcer.CheckCanCreate(context.Background(), tenant); !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

func TestReasonCodeStable(t *testing.T) {
	if ReasonNoteLimit != "note_limit_reached" {
		t.Errorf("ReasonNoteLimit = %q", ReasonNoteLimit)
	}
	if ErrNoteLimitReached.Error() != ReasonNoteLimit {
		t.Errorf("ErrNoteLimitReached message = %q", ErrNoteLimitReached.Error())
	}
}
