package server

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/statichq/webstand/internal/clock"
	"github.com/statichq/webstand/internal/server/accesslog"
	"github.com/statichq/webstand/internal/server/handlers/health"
	"github.com/statichq/webstand/internal/server/handlers/pages"
)

type Services struct {
	Pages     *pages.Handler
	Health    *health.Handler
	AccessLog *accesslog.Logger
}

func NewServices(config *Config, database *sqlx.DB) (*Services, error) {
	clk := clock.System{}

	pagesH, err := pages.New(clk, config.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create pages handler: %w", err)
	}

	logger, err := accesslog.New(database)
	if err != nil {
		return nil, fmt.Errorf("create access logger: %w", err)
	}

	return &Services{
		Pages:     pagesH,
		Health:    health.New(clk),
		AccessLog: logger,
	}, nil
}
