package controller

import (
	"context"
	"net/http"
	"time"

	"coursehub/logger"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
)

const livenessMessage = "🚀 Online Learning Platform Server is Running..."

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	log     *logger.Logger
	store   Pinger
	timeout time.Duration
}

func NewHealthController(log *logger.Logger, store Pinger, timeout time.Duration) *HealthController {
	return &HealthController{log: log.With("controller", "health"), store: store, timeout: timeout}
}

func (h *HealthController) Root(c *gin.Context) {
	c.String(http.StatusOK, livenessMessage)
}

// Ready reports whether the backing store answers a ping.
func (h *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("store ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, utils.Envelope("store_unavailable", "store unavailable"))
		return
	}
	c.String(http.StatusOK, "ok")
}
