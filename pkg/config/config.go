package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"

	"github.com/fbettencourt22/printcost-engine/pkg/pricing"
)

// Config holds all configuration for printcost-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values. Secrets (database
// password, JWT signing key) must only come from environment variables.
type Config struct {
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// MigrationsPath is the directory containing golang-migrate SQL files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Pricing  PricingConfig  `yaml:"pricing"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// JWTSigningKey verifies bearer tokens issued by the auth collaborator.
	JWTSigningKey string `yaml:"-" env:"JWT_SIGNING_KEY"` // Secret - not in YAML
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"printcost"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"printcost_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// URL builds the connection string for pgx and the migration runner.
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// PricingConfig holds the rate constants for the pricing engine as decimal
// strings, so alternate tariffs can be configured without code changes.
type PricingConfig struct {
	EnergyTariff        string `yaml:"energy_tariff" env:"PRICING_ENERGY_TARIFF" env-default:"0.158"`
	PrinterPowerW       string `yaml:"printer_power_w" env:"PRICING_PRINTER_POWER_W" env-default:"140"`
	LabourRatePerHour   string `yaml:"labour_rate_per_hour" env:"PRICING_LABOUR_RATE_PER_HOUR" env-default:"20"`
	FilamentWasteFactor string `yaml:"filament_waste_factor" env:"PRICING_FILAMENT_WASTE_FACTOR" env-default:"0.10"`
	MachineRatePerHour  string `yaml:"machine_rate_per_hour" env:"PRICING_MACHINE_RATE_PER_HOUR" env-default:"0.20"`
}

// Tariffs parses the configured rates into pricing tariffs.
func (c *PricingConfig) Tariffs() (pricing.Tariffs, error) {
	t := pricing.Tariffs{}
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"energy_tariff", c.EnergyTariff, &t.EnergyTariff},
		{"printer_power_w", c.PrinterPowerW, &t.PrinterPowerW},
		{"labour_rate_per_hour", c.LabourRatePerHour, &t.LabourRatePerHour},
		{"filament_waste_factor", c.FilamentWasteFactor, &t.FilamentWasteFactor},
		{"machine_rate_per_hour", c.MachineRatePerHour, &t.MachineRatePerHour},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return pricing.Tariffs{}, fmt.Errorf("invalid pricing config %s=%q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return t, nil
}

// Load reads configuration from config.yaml with environment variable
// overrides. When no config file exists, configuration comes entirely from
// the environment. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	}

	if _, err := cfg.Pricing.Tariffs(); err != nil {
		return nil, err
	}

	return cfg, nil
}
