package model

import (
	"time"

	"gorm.io/gorm"
)

// User is an account. IsActive is the only activity flag the code reads; Disabled is kept
// in step with it for the existing schema.
type User struct {
	ID             uint      `gorm:"column:id;primaryKey"`
	Username       *string   `gorm:"column:username;uniqueIndex"`
	Email          *string   `gorm:"column:email;uniqueIndex"`
	FullName       string    `gorm:"column:full_name"`
	HashedPassword string    `gorm:"column:hashed_password;not null"`
	Disabled       bool      `gorm:"column:disabled;not null"`
	Role           string    `gorm:"column:role;size:16;not null"`
	RegisteredAt   time.Time `gorm:"column:registered_at;not null"`
	IsActive       bool      `gorm:"column:is_active;not null"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeSave(*gorm.DB) error {
	u.Disabled = !u.IsActive
	return nil
}

// Subject is the identity a token is issued for: the email, or the username for accounts without one.
func (u *User) Subject() string {
	if u.Email != nil && *u.Email != "" {
		return *u.Email
	}
	if u.Username != nil {
		return *u.Username
	}
	return ""
}

func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func (u *User) UsernameValue() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}
