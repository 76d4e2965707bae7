package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/peopleapi/pkg/logger"
)

// Pinger is anything whose reachability the health check reports
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	title string
	store Pinger
}

func NewHealthHandler(title string, store Pinger) *HealthHandler {
	return &HealthHandler{
		title: title,
		store: store,
	}
}

// HealthCheck reports whether the service can reach its store
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"title":  h.title,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"title":  h.title,
	})
}
