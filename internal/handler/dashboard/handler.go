package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-admin/internal/handler"
	"github.com/jwalitptl/hospital-admin/internal/service/dashboard"
)

type Handler struct {
	service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/dashboard", h.Stats)
}

// Stats always carries the four counts. They are zero when the store could
// not be read.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, &handler.Response{
			Status:  "error",
			Message: "Failed to fetch dashboard stats: " + err.Error(),
			Data:    stats,
		})
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
