package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Defaults are company-level fallbacks applied when a document or client does
// not set its own value. They live in tallybook.yml so operators can tune
// them without a redeploy.
type Defaults struct {
	CurrencyCode    string `mapstructure:"currencyCode"`
	PaymentTermDays int    `mapstructure:"paymentTermDays"`

	InvoiceNumberTemplate string `mapstructure:"invoiceNumberTemplate"`
	QuoteNumberTemplate   string `mapstructure:"quoteNumberTemplate"`
	CreditNumberTemplate  string `mapstructure:"creditNumberTemplate"`
}

func DefaultDefaults() Defaults {
	return Defaults{
		CurrencyCode:          "USD",
		PaymentTermDays:       30,
		InvoiceNumberTemplate: "INV-{YYYY}{MM}-{SEQ6}",
		QuoteNumberTemplate:   "QTE-{YYYY}{MM}-{SEQ6}",
		CreditNumberTemplate:  "CRD-{YYYY}{MM}-{SEQ6}",
	}
}

// DefaultsHolder hot-reloads company defaults when the config file changes.
type DefaultsHolder struct {
	current atomic.Value // holds Defaults
}

func NewDefaultsHolder() (*DefaultsHolder, error) {
	v := viper.New()

	v.SetConfigName("tallybook")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/tallybook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TALLYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultDefaults()
		v.SetDefault("defaults.currencyCode", defaults.CurrencyCode)
		v.SetDefault("defaults.paymentTermDays", defaults.PaymentTermDays)
		v.SetDefault("defaults.invoiceNumberTemplate", defaults.InvoiceNumberTemplate)
		v.SetDefault("defaults.quoteNumberTemplate", defaults.QuoteNumberTemplate)
		v.SetDefault("defaults.creditNumberTemplate", defaults.CreditNumberTemplate)
	}

	var cfg Defaults
	if err := v.UnmarshalKey("defaults", &cfg); err != nil {
		return nil, err
	}
	if err := validateDefaults(cfg); err != nil {
		return nil, err
	}

	holder := &DefaultsHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Defaults
		if err := v.UnmarshalKey("defaults", &updated); err != nil {
			log.Printf("[defaults-config] reload failed: %v", err)
			return
		}
		if err := validateDefaults(updated); err != nil {
			log.Printf("[defaults-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[defaults-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticDefaultsHolder wraps fixed defaults without file watching.
func NewStaticDefaultsHolder(cfg Defaults) *DefaultsHolder {
	holder := &DefaultsHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *DefaultsHolder) Get() Defaults {
	return h.current.Load().(Defaults)
}

func validateDefaults(cfg Defaults) error {
	if strings.TrimSpace(cfg.CurrencyCode) == "" {
		return errors.New("defaults.currencyCode cannot be empty")
	}
	if cfg.PaymentTermDays < 0 {
		return errors.New("defaults.paymentTermDays cannot be negative")
	}
	return nil
}
