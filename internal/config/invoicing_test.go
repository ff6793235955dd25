package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInvoicingConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoicing.yml")
	content := `invoicing:
  chargesPolicy: folded
  defaultDueDays: 30
  numberTemplate: "RE/{YYYY}/{SEQ5}"
  homeState: Gujarat
  dashboardCacheTTL: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	holder, err := NewInvoicingConfigHolder(Config{InvoicingConfigPath: path}, zap.NewNop())
	require.NoError(t, err)

	cfg := holder.Get()
	assert.Equal(t, "folded", cfg.ChargesPolicy)
	assert.Equal(t, 30, cfg.DefaultDueDays)
	assert.Equal(t, "18", cfg.DefaultTaxRate)
	assert.Equal(t, "RE/{YYYY}/{SEQ5}", cfg.NumberTemplate)
	assert.Equal(t, "Gujarat", cfg.HomeState)
	assert.Equal(t, 90*time.Second, cfg.DashboardCacheTTL)
}

func TestInvoicingConfigRejectsUnknownPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invoicing.yml")
	require.NoError(t, os.WriteFile(path, []byte("invoicing:\n  chargesPolicy: merged\n"), 0o600))

	_, err := NewInvoicingConfigHolder(Config{InvoicingConfigPath: path}, zap.NewNop())
	assert.Error(t, err)
}

func TestStaticInvoicingConfig(t *testing.T) {
	holder := NewStaticInvoicingConfig(DefaultInvoicingConfig())
	assert.Equal(t, 15, holder.Get().DefaultDueDays)
	assert.Equal(t, "separate", holder.Get().ChargesPolicy)
}
