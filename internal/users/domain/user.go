package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Role is the global role of a user. There is exactly one elevated role;
// everything finer-grained is expressed through resource ownership.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
)

// IsValid checks if the role is one of the enumerated values
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleAuthor
}

var (
	ErrInvalidName     = errors.New("name is required and must not exceed 255 characters")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidRole     = errors.New("role must be admin or author")
	ErrEmptyPassword   = errors.New("password hash cannot be empty")
	ErrPasswordTooWeak = errors.New("password must be at least 6 characters")
)

const MaxNameLength = 255

// MinPasswordLength applies to the plaintext password before hashing.
const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User represents an account in the domain. PasswordHash is an opaque
// credential derived outside the domain; the plaintext never enters here.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new user with validation
func NewUser(name, email, passwordHash string, role Role) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, ErrEmptyPassword
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsAdmin reports whether the user holds the elevated role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Rename changes the user's display name with validation
func (u *User) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	return nil
}

// ChangeEmail changes the user's email with validation.
// Uniqueness must be checked by the service layer before calling this.
func (u *User) ChangeEmail(email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

// ChangePassword replaces the stored credential with a new hash
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return ErrEmptyPassword
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

// ChangeRole assigns a new role with validation.
// The self-role-change rule is enforced by the authorization engine, not here.
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

// ValidateEmail checks the basic shape of an email address
func ValidateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks plaintext password strength before hashing
func ValidatePassword(plaintext string) error {
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooWeak
	}
	return nil
}

func validateName(name string) error {
	if name == "" || len(name) > MaxNameLength {
		return ErrInvalidName
	}
	return nil
}
