package panel

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/jwalitptl/hospital-admin/internal/handler"
	"github.com/jwalitptl/hospital-admin/internal/model"
	"github.com/jwalitptl/hospital-admin/internal/service/panel"
	apperrors "github.com/jwalitptl/hospital-admin/pkg/errors"
)

// Handler exposes one entity's panel operations as JSON.
type Handler struct {
	service *panel.Service
}

func NewHandler(service *panel.Service) *Handler {
	return &Handler{service: service}
}

type formRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

type searchQuery struct {
	Column string `form:"column" binding:"required_with=Q"`
	Q      string `form:"q" binding:"required_with=Column"`
}

type deleteQuery struct {
	Confirm bool `form:"confirm"`
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	rows := r.Group("/" + h.service.Entity().Slug)
	{
		rows.GET("", h.List)
		rows.POST("", h.Create)
		rows.PUT("/:key", h.Update)
		rows.DELETE("/:key", h.Delete)
	}
}

// List returns every row, or the search result when column and q are given.
func (h *Handler) List(c *gin.Context) {
	var query searchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(apperrors.BadRequest("Please select search field and enter search value", err))
		return
	}

	var (
		rows []model.Row
		err  error
	)
	if query.Column == "" && query.Q == "" {
		rows, err = h.service.List(c.Request.Context())
	} else {
		rows, err = h.service.Search(c.Request.Context(), query.Column, query.Q)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.render(rows)))
}

func (h *Handler) Create(c *gin.Context) {
	form, ok := h.bindForm(c)
	if !ok {
		return
	}

	row, err := h.service.Create(c.Request.Context(), form)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewMessageResponse(
		fmt.Sprintf("%s added successfully!", h.service.Entity().Name),
		h.service.FieldsFromRow(row)))
}

// Update rewrites the row stored under :key. The body may carry a new key.
func (h *Handler) Update(c *gin.Context) {
	form, ok := h.bindForm(c)
	if !ok {
		return
	}

	row, err := h.service.Update(c.Request.Context(), c.Param("key"), form)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse(
		fmt.Sprintf("%s updated successfully!", h.service.Entity().Name),
		h.service.FieldsFromRow(row)))
}

// Delete needs ?confirm=true. Without it nothing is deleted and no error is
// reported.
func (h *Handler) Delete(c *gin.Context) {
	var query deleteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(apperrors.BadRequest("invalid confirm flag", err))
		return
	}

	if !query.Confirm {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": false}))
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("key")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewMessageResponse(
		fmt.Sprintf("%s deleted successfully!", h.service.Entity().Name),
		gin.H{"deleted": true}))
}

func (h *Handler) bindForm(c *gin.Context) (model.Row, bool) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("invalid request body", err))
		return nil, false
	}
	form, err := h.service.FormFromFields(req.Fields)
	if err != nil {
		c.Error(err)
		return nil, false
	}
	return form, true
}

func (h *Handler) render(rows []model.Row) []map[string]string {
	return lo.Map(rows, func(r model.Row, _ int) map[string]string {
		return h.service.FieldsFromRow(r)
	})
}
