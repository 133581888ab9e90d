// Command seed creates the schema and the demo tenants/users. Safe to run
// repeatedly: existing rows are left untouched.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"notes-backend/internal/auth"
	"notes-backend/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS tenants (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	plan TEXT NOT NULL DEFAULT 'free',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL REFERENCES tenants(id),
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notes (
	id UUID PRIMARY KEY,
	tenant_id UUID NOT NULL REFERENCES tenants(id),
	created_by UUID NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notes_tenant ON notes(tenant_id);
CREATE INDEX IF NOT EXISTS idx_users_tenant ON users(tenant_id);
`

type seedUser struct {
	email string
	role  string
	slug  string
}

func main() {
	db, err := sqlx.Connect("postgres", buildDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Seeding database...")

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	tenants := map[string]string{
		"acme":   "Acme Corporation",
		"globex": "Globex Corporation",
	}
	tenantIDs := make(map[string]string)

	for slug, name := range tenants {
		id, err := upsertTenant(ctx, db, name, slug)
		if err != nil {
			log.Fatalf("Failed to seed tenant %s: %v", slug, err)
		}
		tenantIDs[slug] = id
	}

	passwordHash, err := auth.HashPassword("password")
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	users := []seedUser{
		{email: "admin@acme.test", role: models.RoleAdmin, slug: "acme"},
		{email: "user@acme.test", role: models.RoleMember, slug: "acme"},
		{email: "admin@globex.test", role: models.RoleAdmin, slug: "globex"},
		{email: "user@globex.test", role: models.RoleMember, slug: "globex"},
	}

	for _, u := range users {
		if err := upsertUser(ctx, db, u, tenantIDs[u.slug], passwordHash); err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.email, err)
		}
	}

	log.Println("Database seeded successfully")
}

func upsertTenant(ctx context.Context, db *sqlx.DB, name, slug string) (string, error) {
	query := `
		INSERT INTO tenants (id, name, slug, plan)
		VALUES ($1, $2, $3, 'free')
		ON CONFLICT (slug) DO NOTHING
	`
	if _, err := db.ExecContext(ctx, query, uuid.New().String(), name, slug); err != nil {
		return "", err
	}

	var id string
	err := db.GetContext(ctx, &id, `SELECT id FROM tenants WHERE slug = $1`, slug)
	return id, err
}

func upsertUser(ctx context.Context, db *sqlx.DB, u seedUser, tenantID, passwordHash string) error {
	query := `
		INSERT INTO users (id, tenant_id, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`
	_, err := db.ExecContext(ctx, query, uuid.New().String(), tenantID, u.email, passwordHash, u.role)
	return err
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "notes_user") +
		" password=" + getEnv("DB_PASSWORD", "notes_pass") +
		" dbname=" + getEnv("DB_NAME", "notes") +
		" sslmode=disable"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
