package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"notes-backend/internal/models"
)

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, tenant_id, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, tenant_id, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (s *Storage) CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, tenant_id, email, password_hash, role, created_at
	`

	var user models.User
	err := s.db.GetContext(ctx, &user, query,
		uuid.New().String(), input.TenantID, input.Email, input.PasswordHash, input.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}
