package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumber(t *testing.T) {
	issued := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		template string
		seq      int64
		want     string
	}{
		{DefaultInvoiceNumberTemplate, 1, "INV-2025-26-0001"},
		{"RE/{YYYY}/{SEQ5}", 42, "RE/2025/00042"},
		{"{YY}{MM}{DD}-{SEQ}", 12345, "250607-12345"},
		{"INV-{SEQ2}", 123, "INV-123"},
	}
	for _, tt := range tests {
		got, err := FormatInvoiceNumber(tt.template, issued, tt.seq)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatInvoiceNumberErrors(t *testing.T) {
	issued := time.Now()

	_, err := FormatInvoiceNumber("", issued, 1)
	assert.Error(t, err)
	_, err = FormatInvoiceNumber("INV-{SEQ}", issued, 0)
	assert.Error(t, err)
	_, err = FormatInvoiceNumber("INV-{BRANCH}-{SEQ}", issued, 1)
	assert.Error(t, err)
}

func TestFinancialYear(t *testing.T) {
	assert.Equal(t, "2024-25", FinancialYear(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-26", FinancialYear(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2099-00", FinancialYear(time.Date(2099, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
