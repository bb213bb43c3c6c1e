package model

import "time"

type Role string

const (
	RoleClient   Role = "client"
	RoleStaff    Role = "staff"
	RoleDirector Role = "director"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleStaff || r == RoleDirector
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:64;not null" json:"first_name"`
	LastName     string    `gorm:"size:64;not null" json:"last_name"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	Organization string    `gorm:"size:128" json:"organization,omitempty"`
	Department   string    `gorm:"size:128" json:"department,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
