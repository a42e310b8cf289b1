package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperador UserRole = "operador"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	CompanyID    uint `gorm:"index;not null"`
	Company      Company
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
