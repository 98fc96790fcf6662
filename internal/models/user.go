package models

import (
	"strings"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MinPasswordLen is enforced on account creation and password change.
const MinPasswordLen = 5

// NormalizeEmail lower-cases only the domain part of the address, split on
// the last "@". The local part keeps its casing. Addresses without an "@"
// are returned unchanged.
func NormalizeEmail(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return email
	}
	return email[:i+1] + strings.ToLower(email[i+1:])
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return Invalid("email is required")
	}
	if !strings.Contains(u.Email, "@") {
		return Invalid("invalid email")
	}
	return nil
}
