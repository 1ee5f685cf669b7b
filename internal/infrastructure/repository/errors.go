// Package repository provides gorm-backed implementations of the domain
// repository interfaces. All persistence failures are surfaced as typed
// persistence errors; callers must not assume partial writes succeeded.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/slatepos/slate/internal/shared/errors"
)

// wrapDBError converts a gorm error into a typed persistence error.
func wrapDBError(message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewPersistenceError(apperrors.PersistenceNotFound, message, err)
	}
	if isConstraintError(err) {
		return apperrors.NewPersistenceError(apperrors.PersistenceConstraint, message, err)
	}
	return apperrors.NewPersistenceError(apperrors.PersistenceIO, message, err)
}

func notFound(message string) error {
	return apperrors.NewPersistenceError(apperrors.PersistenceNotFound, message, gorm.ErrRecordNotFound)
}

func isConstraintError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint") || strings.Contains(msg, "unique")
}
