package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-admin/internal/repository/sqlstore"
)

const pingTimeout = 2 * time.Second

// Store is the part of the database handle the probes need.
type Store interface {
	Ping(ctx context.Context) error
	Dialect() sqlstore.Dialect
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts /health/live and /health/ready. Both stay outside the
// API key check.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/health")
	g.GET("/live", h.live)
	g.GET("/ready", h.ready)
}

func (h *Handler) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	driver := h.store.Dialect().Driver
	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "DOWN",
			"driver": driver,
			"reason": "database unreachable: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP", "driver": driver})
}
