package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTP:   HTTPConfig{Addr: DefaultAddr},
			DBPath: ":memory:",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.HTTP.Addr = "" },
			wantErr: "bind address",
		},
		{
			name:    "cert without key",
			mutate:  func(c *Config) { c.HTTP.CertFile = "/tls/cert.pem" },
			wantErr: "cert and key",
		},
		{
			name:    "key without cert",
			mutate:  func(c *Config) { c.HTTP.KeyFile = "/tls/key.pem" },
			wantErr: "cert and key",
		},
		{
			name:    "missing db path",
			mutate:  func(c *Config) { c.DBPath = "" },
			wantErr: "database path",
		},
		{
			name:    "bad rate limit",
			mutate:  func(c *Config) { c.RateLimit = "lots" },
			wantErr: "invalid rate limit",
		},
		{
			name:   "valid rate limit",
			mutate: func(c *Config) { c.RateLimit = "100-M" },
		},
		{
			name: "tls pair",
			mutate: func(c *Config) {
				c.HTTP.CertFile = "/tls/cert.pem"
				c.HTTP.KeyFile = "/tls/key.pem"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
