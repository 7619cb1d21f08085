package entity

import (
	"net/mail"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
)

// User is the identity anchor a credit balance hangs off.
// The ledger only ever checks that a user exists.
type User struct {
	ID        uint64
	Email     string
	Name      string
	CreatedAt time.Time
}

// NewUser creates a new user with the given identity
func NewUser(id uint64, email, name string, timeProvider coreport.TimeProvider) (*User, error) {
	if id == 0 {
		return nil, errs.ErrInvalidUserID
	}

	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errs.ErrInvalidRequest
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.ErrInvalidRequest
	}

	return &User{
		ID:        id,
		Email:     email,
		Name:      name,
		CreatedAt: timeProvider.Now().UTC(),
	}, nil
}
