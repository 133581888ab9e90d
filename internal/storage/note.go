package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"notes-backend/internal/models"
	"notes-backend/internal/quota"
)

// CreateNote inserts a note for the tenant. The free-plan cap is enforced as
// a hard cap: the tenant row is locked for the duration of the transaction,
// so two concurrent creators at the boundary cannot both slip under the
// limit. Returns quota.ErrNoteLimitReached when the cap is hit.
func (s *Storage) CreateNote(ctx context.Context, input models.CreateNoteInput) (*models.Note, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var plan string
	if err := tx.GetContext(ctx, &plan,
		`SELECT plan FROM tenants WHERE id = $1 FOR UPDATE`, input.TenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	if plan == models.PlanFree {
		var count int
		if err := tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM notes WHERE tenant_id = $1`, input.TenantID); err != nil {
			return nil, err
		}
		if count >= quota.FreeNoteLimit {
			return nil, quota.ErrNoteLimitReached
		}
	}

	query := `
		INSERT INTO notes (id, tenant_id, created_by, title, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, tenant_id, created_by, title, content, created_at
	`

	var note models.Note
	err = tx.GetContext(ctx, &note, query,
		uuid.New().String(), input.TenantID, input.CreatedBy, input.Title, input.Content)
	if err != nil {
		return nil, err
	}

	if err := tx.GetContext(ctx, &note.CreatedByEmail,
		`SELECT email FROM users WHERE id = $1`, input.CreatedBy); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &note, nil
}

// ListNotes returns the tenant's notes, newest first. The tenant id always
// comes from the authenticated principal's resolved tenant, never from the
// client.
func (s *Storage) ListNotes(ctx context.Context, tenantID string) ([]models.Note, error) {
	query := `
		SELECT n.id, n.tenant_id, n.created_by, u.email AS created_by_email,
			n.title, n.content, n.created_at
		FROM notes n
		JOIN users u ON u.id = n.created_by
		WHERE n.tenant_id = $1
		ORDER BY n.created_at DESC
	`

	notes := make([]models.Note, 0)
	if err := s.db.SelectContext(ctx, &notes, query, tenantID); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote returns ErrNotFound both for an absent note and for a note owned
// by another tenant, so existence never leaks across tenants.
func (s *Storage) GetNote(ctx context.Context, tenantID, id string) (*models.Note, error) {
	query := `
		SELECT n.id, n.tenant_id, n.created_by, u.email AS created_by_email,
			n.title, n.content, n.created_at
		FROM notes n
		JOIN users u ON u.id = n.created_by
		WHERE n.id = $1 AND n.tenant_id = $2
	`

	var note models.Note
	if err := s.db.GetContext(ctx, &note, query, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &note, nil
}

func (s *Storage) UpdateNote(ctx context.Context, tenantID, id, title, content string) (*models.Note, error) {
	query := `
		UPDATE notes
		SET title = $1, content = $2
		WHERE id = $3 AND tenant_id = $4
		RETURNING id, tenant_id, created_by, title, content, created_at
	`

	var note models.Note
	if err := s.db.GetContext(ctx, &note, query, title, content, id, tenantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.db.GetContext(ctx, &note.CreatedByEmail,
		`SELECT email FROM users WHERE id = $1`, note.CreatedByID); err != nil {
		return nil, err
	}

	return &note, nil
}

func (s *Storage) DeleteNote(ctx context.Context, tenantID, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) CountNotes(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notes WHERE tenant_id = $1`, tenantID)
	return count, err
}
