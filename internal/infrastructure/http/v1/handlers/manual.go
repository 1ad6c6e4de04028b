package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "transita/internal/core/context"
	"transita/internal/core/id"
	"transita/internal/domain/manual"
	"transita/internal/infrastructure/http/v1/dto"
)

// ManualTransferHandler handles manually captured transfer endpoints.
type ManualTransferHandler struct {
	*BaseHandler
	service *manual.Service
}

// NewManualTransferHandler creates a new manual transfer handler.
func NewManualTransferHandler(base *BaseHandler, service *manual.Service) *ManualTransferHandler {
	return &ManualTransferHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /manual-transfers.
func (h *ManualTransferHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, len(items)))
}

// Flagged handles GET /manual-transfers/flagged.
func (h *ManualTransferHandler) Flagged(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.ListFlagged(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, len(items)))
}

// Stats handles GET /manual-transfers/stats.
func (h *ManualTransferHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Get handles GET /manual-transfers/:id.
func (h *ManualTransferHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.GetByID(ctx, transferID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Create handles POST /manual-transfers.
func (h *ManualTransferHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateManualTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if user := appctx.GetUser(ctx); user != nil {
		if userID, err := id.Parse(user.UserID); err == nil {
			t.CreatedBy = &userID
		}
	}

	if err := h.service.Create(ctx, t); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// Update handles PUT /manual-transfers/:id.
func (h *ManualTransferHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateManualTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.GetByID(ctx, transferID)
	if err != nil {
		h.Error(c, err)
		return
	}

	itemsChanged, err := req.ApplyTo(t)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, t, itemsChanged); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /manual-transfers/:id.
// Confirmed transfers cannot be deleted.
func (h *ManualTransferHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, transferID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers manual transfer routes.
func (h *ManualTransferHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/flagged", h.Flagged)
	group.GET("/stats", h.Stats)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
