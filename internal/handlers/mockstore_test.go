package handlers_test

import (
	"context"
	"fmt"
	"time"

	"notes-backend/internal/models"
	"notes-backend/internal/quota"
	"notes-backend/internal/storage"
)

// mockStore is an in-memory stand-in for *storage.Storage. It mirrors the
// real store's contract, including the hard note cap inside CreateNote.
type mockStore struct {
	tenants map[string]*models.Tenant // by slug
	users   map[string]*models.User   // by email
	notes   map[string]*models.Note   // by id
	nextID  int
}

func newMockStore() *mockStore {
	return &mockStore{
		tenants: make(map[string]*models.Tenant),
		users:   make(map[string]*models.User),
		notes:   make(map[string]*models.Note),
	}
}

func (m *mockStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockStore) addTenant(slug, plan string) *models.Tenant {
	tenant := &models.Tenant{
		ID:        m.id("tenant"),
		Name:      slug,
		Slug:      slug,
		Plan:      plan,
		CreatedAt: time.Now(),
	}
	m.tenants[slug] = tenant
	return tenant
}

func (m *mockStore) addUser(email, role, tenantSlug, passwordHash string) *models.User {
	user := &models.User{
		ID:           m.id("user"),
		TenantID:     m.tenants[tenantSlug].ID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	m.users[email] = user
	return user
}

func (m *mockStore) tenantByID(id string) *models.Tenant {
	for _, tenant := range m.tenants {
		if tenant.ID == id {
			return tenant
		}
	}
	return nil
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (m *mockStore) GetTenantByID(ctx context.Context, id string) (*models.Tenant, error) {
	if tenant := m.tenantByID(id); tenant != nil {
		return tenant, nil
	}
	return nil, storage.ErrTenantNotFound
}

func (m *mockStore) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant, ok := m.tenants[slug]
	if !ok {
		return nil, storage.ErrTenantNotFound
	}
	return tenant, nil
}

func (m *mockStore) UpgradeTenantPlan(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant, ok := m.tenants[slug]
	if !ok {
		return nil, storage.ErrTenantNotFound
	}
	tenant.Plan = models.PlanPro
	return tenant, nil
}

func (m *mockStore) CreateUser(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	if _, exists := m.users[input.Email]; exists {
		return nil, storage.ErrEmailTaken
	}
	user := &models.User{
		ID:           m.id("user"),
		TenantID:     input.TenantID,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		CreatedAt:    time.Now(),
	}
	m.users[input.Email] = user
	return user, nil
}

func (m *mockStore) CreateNote(ctx context.Context, input models.CreateNoteInput) (*models.Note, error) {
	tenant := m.tenantByID(input.TenantID)
	if tenant == nil {
		return nil, storage.ErrTenantNotFound
	}
	if tenant.Plan == models.PlanFree {
		count, _ := m.CountNotes(ctx, input.TenantID)
		if count >= quota.FreeNoteLimit {
			return nil, quota.ErrNoteLimitReached
		}
	}

	var creatorEmail string
	for _, user := range m.users {
		if user.ID == input.CreatedBy {
			creatorEmail = user.Email
		}
	}

	note := &models.Note{
		ID:             m.id("note"),
		TenantID:       input.TenantID,
		CreatedByID:    input.CreatedBy,
		CreatedByEmail: creatorEmail,
		Title:          input.Title,
		Content:        input.Content,
		CreatedAt:      time.Now(),
	}
	m.notes[note.ID] = note
	return note, nil
}

func (m *mockStore) ListNotes(ctx context.Context, tenantID string) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	for _, note := range m.notes {
		if note.TenantID == tenantID {
			notes = append(notes, *note)
		}
	}
	return notes, nil
}

func (m *mockStore) GetNote(ctx context.Context, tenantID, id string) (*models.Note, error) {
	note, ok := m.notes[id]
	if !ok || note.TenantID != tenantID {
		return nil, storage.ErrNotFound
	}
	return note, nil
}

func (m *mockStore) UpdateNote(ctx context.Context, tenantID, id, title, content string) (*models.Note, error) {
	note, ok := m.notes[id]
	if !ok || note.TenantID != tenantID {
		return nil, storage.ErrNotFound
	}
	note.Title = title
	note.Content = content
	return note, nil
}

func (m *mockStore) DeleteNote(ctx context.Context, tenantID, id string) error {
	note, ok := m.notes[id]
	if !ok || note.TenantID != tenantID {
		return storage.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *mockStore) CountNotes(ctx context.Context, tenantID string) (int, error) {
	count := 0
	for _, note := range m.notes {
		if note.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) Ping() error {
	return nil
}
