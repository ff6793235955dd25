package ids

import (
	"testing"

	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	id, err := Parse("invoice_id", " 1754383453011972096 ")
	require.NoError(t, err)
	assert.Equal(t, "1754383453011972096", id.String())

	for _, raw := range []string{"", "abc", "0", "-4", "12a"} {
		_, err := Parse("invoice_id", raw)
		assert.Equal(t, "invoice_id", apperr.FieldOf(err), raw)
	}
}

func TestParseOptional(t *testing.T) {
	id, err := ParseOptional("product_id", "")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = ParseOptional("product_id", "42")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.EqualValues(t, 42, *id)

	_, err = ParseOptional("product_id", "x")
	assert.True(t, apperr.IsValidation(err))
}
