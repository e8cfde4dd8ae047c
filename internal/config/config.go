// Package config loads the storefront deployment settings: store identity,
// checkout pricing, the payment backend and the local snapshot slot.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tasselgroup/storefront/internal/domain"
	"github.com/tasselgroup/storefront/internal/port"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

type Config struct {
	StoreName      string `yaml:"store_name"`
	SiteURL        string `yaml:"site_url"`
	WhatsAppNumber string `yaml:"whatsapp_number"`
	Currency       string `yaml:"currency"`
	DeliveryFee    string `yaml:"delivery_fee"`

	APIBaseURL         string `yaml:"api_base_url"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`
	SnapshotDir        string `yaml:"snapshot_dir"`

	Credential Credential `yaml:"credential"`

	fee  decimal.Decimal
	unit currency.Unit
}

// Credential is the stored login slot: the bearer token and the profile
// saved next to it, used to gate the cart and prefill checkout.
type Credential struct {
	Token string `yaml:"token"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

// Default returns the settings the storefront ships with.
func Default() Config {
	cfg := Config{
		StoreName:          "Tassel Studio",
		SiteURL:            "tasselgroup.co.za",
		WhatsAppNumber:     "27729605153",
		Currency:           "ZAR",
		DeliveryFee:        "200.00",
		APIBaseURL:         "https://api.tasselgroup.co.za",
		HTTPTimeoutSeconds: 30,
		SnapshotDir:        "data/cart",
	}
	if err := cfg.finalize(); err != nil {
		panic(err) // defaults are static and always parse
	}
	return cfg
}

// Load reads a YAML file over the defaults. Unset fields keep their default
// values.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("os.ReadFile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("yaml.Unmarshal: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) finalize() error {
	if c.WhatsAppNumber == "" {
		return fmt.Errorf("whatsapp_number is empty")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is empty")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("http_timeout_seconds must be positive")
	}

	fee, err := decimal.NewFromString(c.DeliveryFee)
	if err != nil {
		return fmt.Errorf("delivery_fee[%s] is not a valid amount: %w", c.DeliveryFee, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("delivery_fee is negative")
	}
	c.fee = fee

	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err)
	}
	c.unit = unit

	return nil
}

// DeliveryFeeAmount returns the parsed fixed delivery fee.
func (c Config) DeliveryFeeAmount() decimal.Decimal { return c.fee }

// CurrencyUnit returns the parsed trading currency.
func (c Config) CurrencyUnit() currency.Unit { return c.unit }

// HTTPTimeout returns the client-side timeout for the payment call.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Credentials exposes the stored login slot as a credential source.
func (c Config) Credentials() port.CredentialSource {
	return staticCredentials{cred: c.Credential}
}

type staticCredentials struct {
	cred Credential
}

func (s staticCredentials) Token(context.Context) (string, error) {
	return s.cred.Token, nil
}

func (s staticCredentials) Customer(context.Context) (domain.Customer, error) {
	return domain.Customer{
		Name:  s.cred.Name,
		Email: s.cred.Email,
		Phone: s.cred.Phone,
	}, nil
}
