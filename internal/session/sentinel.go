package session

import (
	"fmt"
	"strings"

	"amber-storefront/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminUserID is the id of the built-in administrator.
const AdminUserID = "admin-001"

// Sentinel recognises the built-in administrator credentials without
// contacting the backend.
type Sentinel struct {
	email string
	hash  []byte
}

// NewSentinel creates a sentinel for email. passwordHash is a bcrypt hash;
// when empty, password is hashed instead. With neither, the sentinel
// matches nothing.
func NewSentinel(email, password, passwordHash string) (*Sentinel, error) {
	s := &Sentinel{email: normalizeEmail(email)}

	switch {
	case passwordHash != "":
		s.hash = []byte(passwordHash)
	case password != "":
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		s.hash = hash
	}
	return s, nil
}

// Match reports whether the credentials belong to the administrator.
func (s *Sentinel) Match(email, password string) bool {
	if s == nil || s.email == "" || len(s.hash) == 0 {
		return false
	}
	if normalizeEmail(email) != s.email {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
}

// Session returns the administrator user and a fresh opaque token.
func (s *Sentinel) Session() (domain.User, string) {
	user := domain.User{
		ID:       AdminUserID,
		Email:    s.email,
		Name:     "Administrator",
		LastName: "System",
		Role:     domain.RoleAdmin,
	}
	return user, "admin-token-" + uuid.NewString()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
