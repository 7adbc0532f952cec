package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

// User stores employee identity and credentials
type User struct {
	ID         uint      `gorm:"primarykey"`
	Email      string    `gorm:"uniqueIndex;size:256;not null"` // always lower-cased
	Password   string    `gorm:"size:64;not null"`              // bcrypt hash
	Name       string    `gorm:"size:128;not null"`
	Department string    `gorm:"size:64;not null"`
	Role       Role      `gorm:"size:16;not null;default:employee;index"`
	EmployeeID string    `gorm:"uniqueIndex;size:16;not null"`
	Phone      string    `gorm:"size:32"`
	Avatar     string    `gorm:"size:512"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	return nil
}
