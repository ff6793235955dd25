package db

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	assert.Nil(t, Translate("invoice", "load", nil))
	assert.True(t, apperr.IsNotFound(Translate("invoice", "load", gorm.ErrRecordNotFound)))
	assert.True(t, apperr.IsConflict(Translate("invoice", "insert", gorm.ErrDuplicatedKey)))
	assert.True(t, apperr.IsConflict(Translate("invoice", "insert", errors.New("UNIQUE constraint failed: invoices.invoice_number"))))
	assert.Equal(t, "store_error", apperr.Kind(Translate("invoice", "insert", errors.New("connection reset"))))

	validation := apperr.Invalid("quantity", "must be greater than zero")
	assert.Same(t, validation, Translate("invoice_item", "insert", validation))
}

func TestForUpdateSkipsSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:forupdate?mode=memory"), &gorm.Config{})
	require.NoError(t, err)

	assert.Equal(t, "", ForUpdate(conn))
	assert.Equal(t, "", ForUpdate(nil))
}

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)

	dialector, err := Dialect(Config{Type: "postgres", Host: "localhost", Port: "5432", Name: "ledgerbook", User: "postgres", SSLMode: "disable"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", dialector.Name())
}
