package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/Pravindgholap/fashion-store/pkg/cache"
)

type Config struct {
	Environment string `default:"development"`
	Port        string `default:"8080"`
	JWTSecret   string `split_words:"true" default:"dev-secret"`
	AdminAPIKey string `split_words:"true"`

	Database Database     `split_words:"true"`
	Redis    cache.Config `split_words:"true"`
	Pricing  Pricing      `split_words:"true"`
}

type Database struct {
	// URL wins over the individual fields when set.
	URL      string `split_words:"true"`
	Host     string `default:"localhost"`
	Port     string `default:"5432"`
	User     string `default:"postgres"`
	Password string
	Name     string `default:"fashion_store"`
	SSLMode  string `split_words:"true" default:"disable"`
}

// DSN builds the postgres connection string the GORM driver expects.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Pricing holds the checkout arithmetic knobs. Defaults match the store's
// launch configuration: 18% GST, 50 flat shipping free above 500.
type Pricing struct {
	TaxRate               decimal.Decimal `split_words:"true" default:"0.18"`
	ShippingFee           decimal.Decimal `split_words:"true" default:"50"`
	FreeShippingThreshold decimal.Decimal `split_words:"true" default:"500"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
