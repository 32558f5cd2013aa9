package model

import "time"

// BaseModel audit timestamps shared by every table
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── roles ──

const (
	RoleAdmin   = "admin"
	RoleAdvisor = "advisor"
)
