package models

import "time"

type UserRole string

const (
	RoleStaff UserRole = "staff"
	RoleAdmin UserRole = "admin"
)

type AppUser struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Account      string `gorm:"column:account;type:text;uniqueIndex" json:"account"`
	FullName     string `gorm:"column:full_name;type:text" json:"full_name"`
	PasswordHash string `gorm:"column:password_hash;type:text" json:"-"`
	IsAdmin      bool   `gorm:"column:is_admin" json:"is_admin"`
	IsActive     bool   `gorm:"column:is_active" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (AppUser) TableName() string { return "app_users" }

func (u *AppUser) Role() UserRole {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleStaff
}

// Identity is what the request pipeline knows about the caller.
type Identity struct {
	UserID    int64    `json:"id"`
	Username  string   `json:"username"`
	Role      UserRole `json:"role"`
	SessionID string   `json:"-"`
}
