package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transita/internal/domain/inventories"
	"transita/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles inventory planning endpoints.
type InventoryHandler struct {
	*BaseHandler
	service *inventories.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventories.Service) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /inventories.
func (h *InventoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, len(items)))
}

// Period handles GET /inventories/period.
func (h *InventoryHandler) Period(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}
	if err := query.Validate(); err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.ListPeriod(ctx, query.StartDate, query.EndDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, len(items)))
}

// Destinations handles GET /inventories/destinations.
func (h *InventoryHandler) Destinations(c *gin.Context) {
	ctx := c.Request.Context()

	stores, err := h.service.Destinations(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(stores, len(stores)))
}

// Get handles GET /inventories/:id.
func (h *InventoryHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	entry, err := h.service.GetByID(ctx, entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Create handles POST /inventories.
func (h *InventoryHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateInventoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, entry); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Update handles PUT /inventories/:id.
func (h *InventoryHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateInventoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.service.GetByID(ctx, entryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(entry); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, entry); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /inventories/:id.
func (h *InventoryHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	entryID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, entryID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers inventory routes.
func (h *InventoryHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/period", h.Period)
	group.GET("/destinations", h.Destinations)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
