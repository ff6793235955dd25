package db

import (
	"errors"
	"strings"

	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (1062)
	if strings.Contains(err.Error(), "Error 1062") {
		return true
	}

	// SQLite (2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// Translate maps driver errors onto the apperr kinds. Unique violations
// become conflicts, missing rows become not-found for resource, and
// everything else is a StoreError tagged with op.
func Translate(resource, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case apperr.Kind(err) != "":
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(resource)
	case IsDuplicateKeyErr(err):
		return apperr.Conflict(resource, "already exists")
	default:
		return apperr.Store(op, err)
	}
}
