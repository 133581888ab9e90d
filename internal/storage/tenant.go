package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"notes-backend/internal/models"
)

func (s *Storage) GetTenantByID(ctx context.Context, id string) (*models.Tenant, error) {
	query := `
		SELECT id, name, slug, plan, created_at
		FROM tenants
		WHERE id = $1
	`

	var tenant models.Tenant
	if err := s.db.GetContext(ctx, &tenant, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return &tenant, nil
}

func (s *Storage) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `
		SELECT id, name, slug, plan, created_at
		FROM tenants
		WHERE slug = $1
	`

	var tenant models.Tenant
	if err := s.db.GetContext(ctx, &tenant, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return &tenant, nil
}

func (s *Storage) CreateTenant(ctx context.Context, input models.CreateTenantInput) (*models.Tenant, error) {
	plan := input.Plan
	if plan == "" {
		plan = models.PlanFree
	}

	query := `
		INSERT INTO tenants (id, name, slug, plan)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, plan, created_at
	`

	var tenant models.Tenant
	err := s.db.GetContext(ctx, &tenant, query, uuid.New().String(), input.Name, input.Slug, plan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	return &tenant, nil
}

// UpgradeTenantPlan moves a tenant to the pro plan. Upgrading an already-pro
// tenant is a no-op that returns the tenant unchanged.
func (s *Storage) UpgradeTenantPlan(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `
		UPDATE tenants
		SET plan = $1
		WHERE slug = $2
		RETURNING id, name, slug, plan, created_at
	`

	var tenant models.Tenant
	if err := s.db.GetContext(ctx, &tenant, query, models.PlanPro, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return &tenant, nil
}
