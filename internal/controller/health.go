package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything that can report reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger checks the optional cache.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves the liveness and readiness probes.
type HealthController struct {
	db    Pinger
	cache CachePinger
}

// NewHealthController returns probes over the pool and the cache (which may be nil).
func NewHealthController(db Pinger, cache CachePinger) *HealthController {
	return &HealthController{db: db, cache: cache}
}

// Health returns 200 if the process is alive. Used by load balancers.
func (h *HealthController) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the database (and the cache, when enabled) answer.
func (h *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database ping failed"})
		return
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
	}
	c.String(http.StatusOK, "OK")
}
