package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "transita/internal/core/context"
	"transita/internal/core/id"
	"transita/internal/domain/transfers"
	"transita/internal/infrastructure/http/v1/dto"
)

// TransferHandler handles transfer document endpoints.
type TransferHandler struct {
	*BaseHandler
	service *transfers.Service
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(base *BaseHandler, service *transfers.Service) *TransferHandler {
	return &TransferHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /transfers.
func (h *TransferHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.TransferListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, len(items)))
}

// Period handles GET /transfers/period.
func (h *TransferHandler) Period(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.PeriodQuery
	if !h.BindQuery(c, &query) {
		return
	}
	if err := query.Validate(); err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.List(ctx, transfers.ListFilter{
		StartDate: &query.StartDate,
		EndDate:   &query.EndDate,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, len(items)))
}

// Flagged handles GET /transfers/flagged.
func (h *TransferHandler) Flagged(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.List(ctx, transfers.ListFilter{FlaggedOnly: true})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, len(items)))
}

// Get handles GET /transfers/:id.
func (h *TransferHandler) Get(c *gin.Context) {
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

// Create handles POST /transfers.
func (h *TransferHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTransferRequest
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

// Update handles PUT /transfers/:id.
func (h *TransferHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.GetByID(ctx, transferID)
	if err != nil {
		h.Error(c, err)
		return
	}

	movementsChanged, err := req.ApplyTo(t)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, t, movementsChanged); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /transfers/:id.
func (h *TransferHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	deleted, err := h.service.Delete(ctx, transferID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, deleted)
}

// UpdateGroup handles PUT /transfers/groups. All transfers matching the
// criteria are updated in a single statement.
func (h *TransferHandler) UpdateGroup(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GroupUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	criteria, err := req.Criteria.ToCriteria()
	if err != nil {
		h.Error(c, err)
		return
	}
	updates, err := req.Updates.ToUpdates()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.UpdateGroup(ctx, criteria, updates)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GroupUpdateResponse{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		Transfers:     result.Updated,
	})
}

// SetBarcode handles PUT /transfers/barcode.
func (h *TransferHandler) SetBarcode(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SetBarcodeRequest
	if !h.BindJSON(c, &req) {
		return
	}

	transferID, err := dto.ParseID(req.TransferID, "transferId")
	if err != nil {
		h.Error(c, err)
		return
	}
	lineID, err := dto.ParseID(req.LineID, "lineId")
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.SetMovementBarcode(ctx, transferID, lineID, req.Barcode)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// Calendar handles GET /transfers/calendar.
func (h *TransferHandler) Calendar(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.CalendarQuery
	if !h.BindQuery(c, &query) {
		return
	}

	days, err := h.service.Calendar(ctx, query.StartDate, query.EndDate, query.ToFilterSpec())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

// CheckBarcodes handles POST /transfers/:id/check-barcodes.
func (h *TransferHandler) CheckBarcodes(c *gin.Context) {
	ctx := c.Request.Context()

	transferID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	t, err := h.service.CheckBarcodes(ctx, transferID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// RegisterRoutes registers transfer routes. Static paths register before
// the :id routes so gin does not shadow them.
func (h *TransferHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/period", h.Period)
	group.GET("/flagged", h.Flagged)
	group.GET("/calendar", h.Calendar)
	group.POST("", h.Create)
	group.PUT("/groups", h.UpdateGroup)
	group.PUT("/barcode", h.SetBarcode)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/check-barcodes", h.CheckBarcodes)
}
