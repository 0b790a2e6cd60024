package models

import (
	"time"
)

type UserRole string

const (
	RoleStaff UserRole = "STAFF"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID            uint     `gorm:"primaryKey"`
	Username      string   `gorm:"unique;not null"`
	Email         string   `gorm:"unique;not null"`
	PasswordHash  string   `gorm:"not null"` // Bcrypt hash of password
	Role          UserRole `gorm:"not null;default:'STAFF'"`
	DisplayName   string
	AvatarURL     string
	Bio           string
	WalletAddress string `gorm:"index"`
	NewsroomRole  string
	ActiveStatus  bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
