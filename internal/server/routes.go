package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	slogGin "github.com/samber/slog-gin"

	"github.com/statichq/webstand/internal/server/handlers/pages"
	"github.com/statichq/webstand/internal/server/middlewares"
)

// SetupRoutes builds the routing table: three informational pages, the
// health check, embedded static assets, and HTML/JSON fallbacks.
func SetupRoutes(config *Config, svc *Services) http.Handler {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	httpLogger := slog.Default().WithGroup("http")
	r.Use(slogGin.NewWithConfig(httpLogger, slogGin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(gzip.Gzip(gzip.BestSpeed))
	r.Use(cors.Default())
	r.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	r.Use(svc.AccessLog.Middleware())
	if config.RateLimit != "" {
		r.Use(middlewares.RateLimiter(config.RateLimit))
	}

	r.GET("/", svc.Pages.Home)
	r.GET("/home", svc.Pages.Home)
	r.GET("/contact", svc.Pages.Contact)
	r.GET("/about", svc.Pages.About)
	r.GET("/health", svc.Health.Check)
	r.StaticFS("/static", http.FS(pages.Static()))

	r.NoRoute(svc.Pages.NotFound)

	r.NoMethod(func(c *gin.Context) {
		c.PureJSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	})

	return r.Handler()
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
