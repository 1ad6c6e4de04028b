package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transita/internal/domain/reports"
	"transita/internal/infrastructure/http/v1/dto"
)

// StatsHandler handles reporting endpoints.
type StatsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(base *BaseHandler, service *reports.Service) *StatsHandler {
	return &StatsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Transfers handles GET /stats/transfers.
func (h *StatsHandler) Transfers(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.TransferStatsQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	stats, err := h.service.GetTransferStats(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
