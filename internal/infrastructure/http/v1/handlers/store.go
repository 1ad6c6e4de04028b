package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transita/internal/domain/catalogs/store"
	"transita/internal/infrastructure/http/v1/dto"
)

// StoreHandler handles store directory endpoints.
type StoreHandler struct {
	*BaseHandler
	service *store.Service
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(base *BaseHandler, service *store.Service) *StoreHandler {
	return &StoreHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /stores.
func (h *StoreHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.StoreListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	stores, err := h.service.List(ctx, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(stores, len(stores)))
}

// Get handles GET /stores/:id.
func (h *StoreHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	st, err := h.service.GetByID(ctx, storeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, st)
}

// Create handles POST /stores.
func (h *StoreHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateStoreRequest
	if !h.BindJSON(c, &req) {
		return
	}

	st := req.ToEntity()
	if err := h.service.Create(ctx, st); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, st)
}

// Update handles PUT /stores/:id.
func (h *StoreHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateStoreRequest
	if !h.BindJSON(c, &req) {
		return
	}

	st, err := h.service.GetByID(ctx, storeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(st)

	if err := h.service.Update(ctx, st); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, st)
}

// Delete handles DELETE /stores/:id.
func (h *StoreHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	storeID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Delete(ctx, storeID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers store routes.
func (h *StoreHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
