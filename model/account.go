package model

import (
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Role is the account role, student or instructor. The admin principal is
// not a role: it lives in its own table and token space.
type Role string

// Account roles
const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// GormDBDataType binds the column to the account_role enum on postgres
func (Role) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "account_role"
	}
	return "varchar(20)"
}

var (
	ErrInvalidRole        = errors.New("role must be either 'instructor' or 'student'")
	ErrInvalidPhoneNumber = errors.New("phone number may contain digits only")
)

var phoneNumberRegex = regexp.MustCompile(`^[0-9]+$`)

// Account represents a registered user: a student or an instructor.
// The singleton admin principal is a separate type, see Admin.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
	Role         Role      `gorm:"not null" json:"role"`

	// Relationships
	Details       *UserDetails   `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	Courses       []Course       `gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments   []Enrollment   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate validates the role before the row is written
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.Role != RoleStudent && a.Role != RoleInstructor {
		return ErrInvalidRole
	}
	return nil
}

// UserDetails holds the profile data owned by exactly one Account.
// Created together with its Account and deleted with it.
type UserDetails struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	AccountID         uint       `gorm:"uniqueIndex;not null" json:"account_id"`
	FullName          string     `gorm:"not null" json:"full_name"`
	Address           string     `json:"address,omitempty"`
	PhoneNumber       string     `json:"phone_number,omitempty"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
}

// BeforeSave rejects non-numeric phone numbers
func (d *UserDetails) BeforeSave(tx *gorm.DB) error {
	if d.PhoneNumber != "" && !phoneNumberRegex.MatchString(d.PhoneNumber) {
		return ErrInvalidPhoneNumber
	}
	return nil
}

// AccountSummary is the public projection of an account, used in
// registration and admin listings. It never carries the password hash.
type AccountSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"full_name,omitempty"`
}

// ToSummary converts an Account (and its details, when loaded) to a summary
func (a *Account) ToSummary() AccountSummary {
	s := AccountSummary{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
	if a.Details != nil {
		s.FullName = a.Details.FullName
	}
	return s
}
