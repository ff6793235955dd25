package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("invoice 42: %w", NotFound("customer"))

	assert.Equal(t, "not_found", Kind(err))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestStoreKeepsExistingKind(t *testing.T) {
	conflict := Conflict("invoice", "invoice is cancelled")

	assert.Same(t, conflict, Store("update invoice", conflict))
	assert.Nil(t, Store("noop", nil))

	wrapped := Store("insert invoice", errors.New("fk violation"))
	assert.Equal(t, "store_error", Kind(wrapped))
	assert.ErrorContains(t, wrapped, "insert invoice")
}

func TestFieldOf(t *testing.T) {
	assert.Equal(t, "quantity", FieldOf(Invalid("quantity", "must be greater than zero")))
	assert.Equal(t, "", FieldOf(errors.New("plain")))
	assert.Equal(t, "", Kind(errors.New("plain")))
}

func TestNest(t *testing.T) {
	err := Nest(Invalid("quantity", "must be greater than zero"), "items[1]")
	assert.Equal(t, "items[1].quantity", FieldOf(err))

	conflict := Conflict("invoice", "invoice is cancelled")
	assert.Same(t, conflict, Nest(conflict, "items[0]"))
}
