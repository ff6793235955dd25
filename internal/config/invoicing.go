package config

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// InvoicingConfig carries the business policies applied while computing and
// numbering invoices. It can be changed at runtime through invoicing.yml.
type InvoicingConfig struct {
	ChargesPolicy     string        `mapstructure:"chargesPolicy"`
	DefaultDueDays    int           `mapstructure:"defaultDueDays"`
	DefaultTaxRate    string        `mapstructure:"defaultTaxRate"`
	NumberTemplate    string        `mapstructure:"numberTemplate"`
	HomeState         string        `mapstructure:"homeState"`
	DashboardCacheTTL time.Duration `mapstructure:"dashboardCacheTTL"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		ChargesPolicy:     "separate",
		DefaultDueDays:    15,
		DefaultTaxRate:    "18",
		NumberTemplate:    "INV-{FY}-{SEQ4}",
		DashboardCacheTTL: 5 * time.Minute,
	}
}

type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

// NewStaticInvoicingConfig returns a holder that never reloads.
func NewStaticInvoicingConfig(cfg InvoicingConfig) *InvoicingConfigHolder {
	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewInvoicingConfigHolder(app Config, log *zap.Logger) (*InvoicingConfigHolder, error) {
	log = log.Named("config.invoicing")
	v := viper.New()

	if app.InvoicingConfigPath != "" {
		v.SetConfigFile(app.InvoicingConfigPath)
	} else {
		v.SetConfigName("invoicing")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/ledgerbook")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LEDGERBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoicingConfig()
	v.SetDefault("invoicing.chargesPolicy", defaults.ChargesPolicy)
	v.SetDefault("invoicing.defaultDueDays", defaults.DefaultDueDays)
	v.SetDefault("invoicing.defaultTaxRate", defaults.DefaultTaxRate)
	v.SetDefault("invoicing.numberTemplate", defaults.NumberTemplate)
	v.SetDefault("invoicing.homeState", defaults.HomeState)
	v.SetDefault("invoicing.dashboardCacheTTL", defaults.DashboardCacheTTL)

	fileLoaded := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileLoaded = false
	}

	cfg, err := decodeInvoicing(v)
	if err != nil {
		return nil, err
	}
	if err := validateInvoicingConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticInvoicingConfig(cfg)
	if !fileLoaded {
		log.Info("invoicing config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeInvoicing(v)
		if err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := validateInvoicingConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	return h.current.Load().(InvoicingConfig)
}

// decodeInvoicing goes through Unmarshal so nested defaults are merged.
func decodeInvoicing(v *viper.Viper) (InvoicingConfig, error) {
	var wrapper struct {
		Invoicing InvoicingConfig `mapstructure:"invoicing"`
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return InvoicingConfig{}, err
	}
	return wrapper.Invoicing, nil
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	switch strings.ToLower(strings.TrimSpace(cfg.ChargesPolicy)) {
	case "separate", "folded":
	default:
		return errors.New("invoicing.chargesPolicy must be separate or folded")
	}
	if cfg.DefaultDueDays < 0 {
		return errors.New("invoicing.defaultDueDays cannot be negative")
	}
	if strings.TrimSpace(cfg.NumberTemplate) == "" {
		return errors.New("invoicing.numberTemplate cannot be empty")
	}
	if cfg.DashboardCacheTTL < 0 {
		return errors.New("invoicing.dashboardCacheTTL cannot be negative")
	}
	return nil
}
