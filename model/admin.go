package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrAdminExists is returned when a second admin row is created
var ErrAdminExists = errors.New("only one admin account is allowed")

// Admin is the singleton moderation principal. It is disjoint from Account:
// admin tokens are signed with their own secret and never validate against
// the account verifier.
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
}

// BeforeCreate enforces the single-admin invariant inside the same
// transaction as the insert
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAdminExists
	}
	return nil
}
