// Package config loads the application configuration and the mailing
// configuration. Both are JSON files; missing files yield defaults where
// that is safe, and validation fills in the rest.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/civicpost/internal/logging"
	"github.com/civicpost/internal/model"
	"github.com/civicpost/internal/storage"
)

// LookupCacheConfig configures the embedded zip-lookup response cache.
type LookupCacheConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
	TTLDays int    `json:"ttl_days,omitempty"`
}

// Config is the application configuration.
type Config struct {
	CacheDir     string            `json:"cache_dir"`
	StateDir     string            `json:"state_dir"`
	OutDir       string            `json:"out_dir"`
	LookupURL    string            `json:"lookup_url,omitempty"`
	EncoderURL   string            `json:"encoder_url,omitempty"`
	UserAgent    string            `json:"user_agent,omitempty"`
	HTTPTimeout  string            `json:"http_timeout,omitempty"`
	RewritesPath string            `json:"rewrites_path,omitempty"`
	LookupCache  LookupCacheConfig `json:"lookup_cache"`
	Logging      logging.Config    `json:"logging"`
}

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:    ".cache",
		StateDir:    ".",
		OutDir:      "mailings",
		HTTPTimeout: "30s",
		LookupCache: LookupCacheConfig{
			Enabled: true,
			Path:    ".cache/usps-lookup",
			TTLDays: 90,
		},
		Logging: logging.Config{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads the configuration from a JSON file. A missing file returns
// the defaults.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := storage.ReadFile(&cfg, configPath); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// validate ensures the configuration is usable and sets defaults.
func (c *Config) validate() error {
	if c.CacheDir == "" {
		c.CacheDir = ".cache"
	}
	if c.StateDir == "" {
		c.StateDir = "."
	}
	if c.OutDir == "" {
		c.OutDir = "mailings"
	}
	if c.HTTPTimeout == "" {
		c.HTTPTimeout = "30s"
	}
	if _, err := time.ParseDuration(c.HTTPTimeout); err != nil {
		return fmt.Errorf("invalid http_timeout: %w", err)
	}
	if c.LookupCache.Enabled && c.LookupCache.Path == "" {
		return fmt.Errorf("lookup_cache path is required when enabled")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

// Timeout returns the parsed HTTP timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Indicia is the permit indicia printed on the envelope.
type Indicia struct {
	CityState string `json:"city_state"`
	PermitID  string `json:"permit_id"`
}

// PostageStatementCfg configures the postage statement form.
type PostageStatementCfg struct {
	Adr               model.Mailpiece `json:"adr"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	PostOfficeMailing string          `json:"post_office_mailing"`
	MailingDate       string          `json:"mailing_date"`
	LastStatementID   uint16          `json:"last_statement_id"`
}

// MailingCfg holds the mailer identification and envelope configuration.
// It is loaded once at startup; LastMailpieceID is the only field mutated,
// after a mailing commits.
type MailingCfg struct {
	MailerID         string              `json:"mailer_id"`
	CRID             string              `json:"crid"`
	EPSID            string              `json:"eps_id"`
	NonprofitAuthID  string              `json:"nonprofit_auth_id"`
	LastMailpieceID  uint32              `json:"last_mailpiece_id"`
	Indicia          Indicia             `json:"indicia"`
	From             model.Mailpiece     `json:"from"`
	PostageStatement PostageStatementCfg `json:"ps"`
	// BarcodeFontPath points at the IMb TTF used on envelopes. When
	// empty the envelope renders the raw F/A/D/T string in a fallback
	// font for proofing.
	BarcodeFontPath string `json:"barcode_font_path,omitempty"`
}

// LoadMailingCfg reads the mailing configuration. The file is required.
func LoadMailingCfg(path string) (*MailingCfg, error) {
	var cfg MailingCfg
	if err := storage.ReadFile(&cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid mailing configuration: %w", err)
	}
	return &cfg, nil
}

func (c *MailingCfg) validate() error {
	if len(c.MailerID) != 9 {
		return fmt.Errorf("mailer_id must be 9 digits, got %q", c.MailerID)
	}
	for _, ch := range c.MailerID {
		if ch < '0' || ch > '9' {
			return fmt.Errorf("mailer_id must be 9 digits, got %q", c.MailerID)
		}
	}
	if c.From.Name == "" || c.From.Address1 == "" {
		return fmt.Errorf("from address is required")
	}
	return nil
}

// Save writes the mailing configuration back to disk, preserving the
// advanced LastMailpieceID after a committed mailing.
func (c *MailingCfg) Save(path string) error {
	return storage.WriteFile(c, path)
}
