// Package config handles loading and validation of mirror configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFilter matches every title. Running with it keeps the courtesy
// limit active.
const DefaultFilter = "."

// DefaultDestination is the mirror root created when none is configured.
const DefaultDestination = "./UnExoticA-Mirror"

// DefaultCourtesyLimit caps a default-filter run. A full mirror pulls
// thousands of files from a volunteer-run service; anyone who wants one must
// opt in deliberately by narrowing or widening the filter.
const DefaultCourtesyLimit = 10

// MirrorConfig selects what gets mirrored and where.
type MirrorConfig struct {
	// Destination is the mirror root directory.
	Destination string `yaml:"destination"`

	// Filter is a case-insensitive regular expression matched against raw
	// title names, anchored at the start (an unanchored ".*Zool.*" style
	// pattern works as expected).
	Filter string `yaml:"filter"`

	// SkipCDDA excludes archives carrying CD audio rips of CD32 games.
	SkipCDDA bool `yaml:"skip_cdda"`

	// CourtesyLimit caps the number of entries processed when Filter is the
	// default match-everything pattern. Nil means DefaultCourtesyLimit;
	// explicit 0 disables the cap.
	CourtesyLimit *int `yaml:"courtesy_limit"`
}

// EffectiveCourtesyLimit returns the entry cap for a default-filter run.
func (m *MirrorConfig) EffectiveCourtesyLimit() int {
	if m.CourtesyLimit == nil {
		return DefaultCourtesyLimit
	}
	return *m.CourtesyLimit
}

// NetworkConfig tunes the HTTP side.
type NetworkConfig struct {
	// BaseURL is the wiki host; FilesURL the archive file server. Both are
	// also overridable via UNEXOTICA_BASE_URL / UNEXOTICA_FILES_URL, which
	// is how tests point the tool at a local server.
	BaseURL  string `yaml:"base_url"`
	FilesURL string `yaml:"files_url"`

	// UserAgent identifies the mirror tool to the origin service.
	UserAgent string `yaml:"user_agent"`

	// Concurrency is the download worker pool size. Defaults to 1, strictly
	// sequential.
	Concurrency int `yaml:"concurrency"`

	// RequestsPerSecond feeds the shared rate limiter. Zero keeps the
	// built-in default.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// Config is the top-level configuration structure.
type Config struct {
	Mirror  MirrorConfig  `yaml:"mirror"`
	Network NetworkConfig `yaml:"network"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Mirror: MirrorConfig{
			Destination: DefaultDestination,
			Filter:      DefaultFilter,
		},
		Network: NetworkConfig{
			Concurrency: 1,
		},
	}
}

// Load reads configuration from a YAML file and environment variables. A
// missing file yields the defaults (the tool is fully usable from flags
// alone). If a .env file exists in the current directory it is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if v := os.Getenv("UNEXOTICA_BASE_URL"); v != "" {
		cfg.Network.BaseURL = v
	}
	if v := os.Getenv("UNEXOTICA_FILES_URL"); v != "" {
		cfg.Network.FilesURL = v
	}
	if v := os.Getenv("UNEXOTICA_USER_AGENT"); v != "" {
		cfg.Network.UserAgent = v
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Mirror.Destination == "" {
		cfg.Mirror.Destination = DefaultDestination
	}
	if cfg.Mirror.Filter == "" {
		cfg.Mirror.Filter = DefaultFilter
	}
	if cfg.Network.Concurrency == 0 {
		cfg.Network.Concurrency = 1
	}
}

// Validate checks the configuration. An unparseable filter pattern is the
// one globally fatal error class: it is caught here, before any network or
// filesystem work starts.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.CompileFilter(); err != nil {
		errs = append(errs, fmt.Errorf("invalid filter pattern %q: %w", c.Mirror.Filter, err))
	}
	if c.Network.Concurrency < 1 {
		errs = append(errs, errors.New("network.concurrency must be at least 1"))
	}
	if c.Network.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("network.requests_per_second must not be negative"))
	}
	if limit := c.Mirror.CourtesyLimit; limit != nil && *limit < 0 {
		errs = append(errs, errors.New("mirror.courtesy_limit must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// CompileFilter compiles the title filter: case-insensitive and anchored at
// the start of the title.
func (c *Config) CompileFilter() (*regexp.Regexp, error) {
	return regexp.Compile("(?i)^(?:" + c.Mirror.Filter + ")")
}

// FilterIsDefault reports whether the filter is the default
// match-everything pattern, which keeps the courtesy limit active.
func (c *Config) FilterIsDefault() bool {
	return c.Mirror.Filter == DefaultFilter
}
