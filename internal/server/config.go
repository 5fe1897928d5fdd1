package server

import (
	"errors"
	"fmt"

	"github.com/ulule/limiter/v3"
)

const DefaultAddr = "127.0.0.1:8080"

type Config struct {
	HTTP HTTPConfig

	// DBPath is the sqlite file backing the access log. ":memory:" is
	// accepted for tests.
	DBPath string

	// RateLimit in limiter notation ("100-M"). Empty disables limiting.
	RateLimit string

	// CacheSize bounds the rendered-page cache. Zero means the default.
	CacheSize int
}

type HTTPConfig struct {
	Addr     string
	CertFile string
	KeyFile  string
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("bind address is required")
	}

	if (c.HTTP.CertFile == "") != (c.HTTP.KeyFile == "") {
		return errors.New("cert and key must be provided together")
	}

	if c.DBPath == "" {
		return errors.New("database path is required")
	}

	if c.RateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
			return fmt.Errorf("invalid rate limit %q: %w", c.RateLimit, err)
		}
	}

	return nil
}
