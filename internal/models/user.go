package models

import "time"

// Role values recognised by the portal.
const (
	RoleStudent    = "student"
	RoleSupervisor = "supervisor"
)

// User represents an account that can act on the reporting workflow.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
