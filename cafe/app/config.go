package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"cafebot/cafe/catalog"
	coreconfig "cafebot/core/config"
	"cafebot/core/database"
)

// Hours is the café schedule surfaced in the help text.
type Hours struct {
	Open  int `yaml:"open" envconfig:"CAFE_OPEN_HOUR"`
	Close int `yaml:"close" envconfig:"CAFE_CLOSE_HOUR"`
}

// CafeConfig is the café-specific section: identity, menu and dialogue
// bounds. A missing or malformed section falls back to built-in
// defaults so the bot still starts and serves the default menu.
type CafeConfig struct {
	Name  string          `yaml:"name" envconfig:"CAFE_NAME"`
	Phone string          `yaml:"phone" envconfig:"CAFE_PHONE"`
	Menu  []catalog.Entry `yaml:"menu"`
	// MaxQuantity bounds the portion count per order, default 5.
	MaxQuantity int `yaml:"max_quantity" envconfig:"CAFE_MAX_QUANTITY"`
	// MaxParty bounds the booking party size, default 12.
	MaxParty int   `yaml:"max_party" envconfig:"CAFE_MAX_PARTY"`
	Hours    Hours `yaml:"hours"`
	// SessionTTLMinutes expires parked dialogues; 0 disables expiry.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" envconfig:"CAFE_SESSION_TTL_MINUTES"`
}

const (
	// StorageMemory keeps sessions in process memory.
	StorageMemory = "memory"
	// StoragePostgres keeps sessions in Postgres so in-flight orders
	// survive restarts.
	StoragePostgres = "postgres"
)

// StorageConfig selects the session store backend.
type StorageConfig struct {
	Driver   string          `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	Postgres database.Config `yaml:"postgres"`
}

// Config is the full application configuration: the transport and
// logging sections plus the café and storage sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Cafe    CafeConfig    `yaml:"cafe"`
	Storage StorageConfig `yaml:"storage"`
}

const (
	defaultCafeName = "Кофейня"
	defaultPhone    = "+7 (XXX) XXX-XX-XX"
)

// Load reads the YAML file at path, applies environment overrides and
// validates. Transport problems fail fast; café-section problems are
// recovered with defaults and reported as warnings for the caller to
// log once the logger is up.
func Load(path string) (*Config, []string, error) {
	var (
		cfg      Config
		warnings []string
	)

	data, err := os.ReadFile(path)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("config file %s unreadable (%v), using env and defaults", path, err))
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, nil, fmt.Errorf("process env overrides: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, cfg.normalizeCafe()...)
	if err := cfg.normalizeStorage(); err != nil {
		return nil, nil, err
	}

	return &cfg, warnings, nil
}

// normalizeCafe applies defaults for missing café fields and returns a
// warning per applied fallback.
func (c *Config) normalizeCafe() []string {
	var warnings []string

	if strings.TrimSpace(c.Cafe.Name) == "" {
		c.Cafe.Name = defaultCafeName
		warnings = append(warnings, "cafe.name missing, using default")
	}
	if strings.TrimSpace(c.Cafe.Phone) == "" {
		c.Cafe.Phone = defaultPhone
		warnings = append(warnings, "cafe.phone missing, using default")
	}
	if c.Cafe.MaxQuantity <= 0 {
		c.Cafe.MaxQuantity = 5
	}
	if c.Cafe.MaxParty <= 0 {
		c.Cafe.MaxParty = 12
	}
	if c.Cafe.Hours.Open == 0 && c.Cafe.Hours.Close == 0 {
		c.Cafe.Hours = Hours{Open: 9, Close: 21}
	}
	if c.Cafe.SessionTTLMinutes < 0 {
		c.Cafe.SessionTTLMinutes = 0
	}
	return warnings
}

func (c *Config) normalizeStorage() error {
	driver := strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if driver == "" {
		driver = StorageMemory
	}
	switch driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: %s, %s", c.Storage.Driver, StorageMemory, StoragePostgres)
	}
	c.Storage.Driver = driver
	return nil
}

// BuildCatalog constructs the menu catalog from config, falling back to
// the built-in default menu when the section is missing or invalid.
func (c *Config) BuildCatalog() (*catalog.Catalog, []string) {
	cat, err := catalog.New(c.Cafe.Menu)
	if err != nil {
		cat = catalog.Default()
		return cat, []string{fmt.Sprintf("cafe.menu invalid (%v), serving default menu", err)}
	}
	return cat, nil
}
