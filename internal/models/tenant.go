package models

import "time"

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

type Tenant struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Plan      string    `json:"plan" db:"plan"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CreateTenantInput struct {
	Name string
	Slug string
	Plan string
}
