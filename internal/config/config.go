package config

import (
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Range    RangeConfig    `envPrefix:"RANGE_"`
	Catalog  CatalogConfig  `envPrefix:"CATALOG_"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	// empty disables CORS headers
	CORSOriginPattern string `env:"CORS_ORIGIN_PATTERN"`
	PprofEnabled      bool   `env:"PPROF_ENABLED" envDefault:"false"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type DatabaseConfig struct {
	Hosts         []string `env:"HOSTS" envDefault:"localhost:27017"`
	Direct        bool     `env:"DIRECT" envDefault:"false"`
	Username      string   `env:"USERNAME"`
	Password      string   `env:"PASSWORD"`
	AuthDB        string   `env:"AUTH_DB" envDefault:"admin"`
	Database      string   `env:"DATABASE" envDefault:"catalog"`
	// when false, startup only warns about missing indexes
	EnsureIndexes bool     `env:"ENSURE_INDEXES" envDefault:"false"`
}

const (
	RangeProviderMongo = "mongo"
	RangeProviderHTTP  = "http"
)

type RangeConfig struct {
	Provider string        `env:"PROVIDER" envDefault:"mongo"`
	BaseURL  string        `env:"BASE_URL"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

type CatalogConfig struct {
	// AdminEmailPattern is matched in Go (RE2) and sent verbatim to Mongo
	// (PCRE). Keep it to the shared subset: anchors, classes, alternation and
	// a leading (?i). RE2 rejects lookarounds and backreferences at startup.
	AdminEmailPattern string `env:"ADMIN_EMAIL_PATTERN" envDefault:"(?i)^admin@"`
	DefaultPageSize   int64  `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize       int64  `env:"MAX_PAGE_SIZE" envDefault:"100"`
	SimilarLimit      int64  `env:"SIMILAR_LIMIT" envDefault:"6"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Range.Provider {
	case RangeProviderMongo:
	case RangeProviderHTTP:
		if c.Range.BaseURL == "" {
			return fmt.Errorf("RANGE_BASE_URL is required for provider %q", RangeProviderHTTP)
		}
	default:
		return fmt.Errorf("unknown range provider %q", c.Range.Provider)
	}
	if _, err := regexp.Compile(c.Catalog.AdminEmailPattern); err != nil {
		return fmt.Errorf("invalid CATALOG_ADMIN_EMAIL_PATTERN: %w", err)
	}
	if c.Server.CORSOriginPattern != "" {
		if _, err := regexp.Compile(c.Server.CORSOriginPattern); err != nil {
			return fmt.Errorf("invalid SERVER_CORS_ORIGIN_PATTERN: %w", err)
		}
	}
	if c.Catalog.DefaultPageSize <= 0 || c.Catalog.MaxPageSize < c.Catalog.DefaultPageSize {
		return fmt.Errorf("invalid page sizes: default=%d max=%d", c.Catalog.DefaultPageSize, c.Catalog.MaxPageSize)
	}
	if c.Catalog.SimilarLimit <= 0 {
		return fmt.Errorf("CATALOG_SIMILAR_LIMIT must be positive")
	}
	return nil
}
