package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/glowstudio/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse permission level of a user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// IsValid reports whether s is a known status
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusDisabled
}

const (
	bcryptCost        = 12
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores bytes beyond 72
)

// User is the account aggregate for both customers and staff
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         Role
	Status       UserStatus
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(email, password, fullName string, role Role) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(fullName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 100 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      hash,
		FullName:          fullName,
		Role:              role,
		Status:            UserStatusActive,
	}, nil
}

// NewCustomer creates a customer account
func NewCustomer(email, password, fullName string) (*User, error) {
	return NewUser(email, password, fullName, RoleCustomer)
}

// UpdateProfile changes the editable profile fields
func (u *User) UpdateProfile(fullName, phone string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(fullName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 100 characters")
	}
	if len(phone) > 30 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 30 characters")
	}
	u.FullName = fullName
	u.Phone = strings.TrimSpace(phone)
	u.IncrementVersion()
	return nil
}

// ChangePassword changes the password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword replaces the password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetStatus enables or disables the account
func (u *User) SetStatus(status UserStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown user status")
	}
	if u.Status == status {
		return nil
	}
	u.Status = status
	u.IncrementVersion()
	return nil
}

// PromoteToAdmin grants the admin role
func (u *User) PromoteToAdmin() {
	if u.Role == RoleAdmin {
		return
	}
	u.Role = RoleAdmin
	u.IncrementVersion()
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.IncrementVersion()
}

// IsActive returns true if the account may log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsAdmin returns true for staff accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lowercases and validates an email address
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email is too long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
