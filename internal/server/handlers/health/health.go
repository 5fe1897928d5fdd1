// Package health implements the monitoring health-check endpoint.
package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statichq/webstand/internal/clock"
	"github.com/statichq/webstand/internal/version"
)

const StatusHealthy = "healthy"

// Response is the health-check payload.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type Handler struct {
	clk clock.Clock
}

func New(clk clock.Clock) *Handler {
	return &Handler{clk: clk}
}

// Check reports the service as healthy with the current timestamp. Used by
// monitoring and deployment verification; it has no dependencies that can fail.
func (h *Handler) Check(c *gin.Context) {
	c.PureJSON(http.StatusOK, &Response{
		Status:    StatusHealthy,
		Timestamp: h.clk.Now().Format(time.RFC3339),
		Version:   version.Version,
	})
}
