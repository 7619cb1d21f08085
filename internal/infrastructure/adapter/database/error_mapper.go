package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErr "github.com/amirhossein-jamali/credit-ledger/internal/domain/error"
	"gorm.io/gorm"
)

// ErrorMapper classifies driver errors and maps them to domain errors.
// Classification is by message so it works for both pgx and sqlite.
type ErrorMapper struct{}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// IsDuplicateKey reports a unique constraint violation
func (m *ErrorMapper) IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// IsForeignKeyViolation reports a reference to a missing parent row
func (m *ErrorMapper) IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// IsRetryable reports whether the whole transaction can be safely re-run
func (m *ErrorMapper) IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "could not serialize access") ||
		strings.Contains(msg, "serialization failure") ||
		strings.Contains(msg, "lock timeout") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "server closed") ||
		strings.Contains(msg, "too many connections") ||
		strings.Contains(msg, "unexpected eof")
}

// MapError maps a storage error to a domain error. Domain errors pass through.
func (m *ErrorMapper) MapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if domainErr.ErrorCode(err) != domainErr.CodeInternalServer ||
		errors.Is(err, domainErr.ErrInternalServer) ||
		errors.Is(err, domainErr.ErrDatabaseConnection) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr.ErrUserNotFound
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", domainErr.ErrDatabaseConnection, operation, err)
	}

	if m.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %s", domainErr.ErrDuplicateUser, operation)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "check constraint") ||
		strings.Contains(msg, "foreign key constraint"):
		return fmt.Errorf("%w: %s: %v", domainErr.ErrConstraintViolation, operation, err)

	case m.IsRetryable(err) ||
		strings.Contains(msg, "no connection") ||
		strings.Contains(msg, "dial"):
		return fmt.Errorf("%w: %s: %v", domainErr.ErrDatabaseConnection, operation, err)

	default:
		return fmt.Errorf("%w: %s: %v", domainErr.ErrInternalServer, operation, err)
	}
}
