package models

import "time"

type Note struct {
	ID             string    `json:"id" db:"id"`
	TenantID       string    `json:"tenantId" db:"tenant_id"`
	CreatedByID    string    `json:"createdByUserId" db:"created_by"`
	CreatedByEmail string    `json:"createdByEmail" db:"created_by_email"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type CreateNoteInput struct {
	Title     string
	Content   string
	TenantID  string
	CreatedBy string
}
