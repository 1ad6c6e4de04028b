package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appctx "transita/internal/core/context"
	"transita/internal/core/id"
	"transita/internal/domain/settings"
	"transita/internal/infrastructure/http/v1/dto"
)

// SettingsHandler handles application settings endpoints.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetImportFolder handles GET /settings/import-folder.
func (h *SettingsHandler) GetImportFolder(c *gin.Context) {
	ctx := c.Request.Context()

	folder, err := h.service.GetImportFolder(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, folder)
}

// SetImportFolder handles PUT /settings/import-folder.
func (h *SettingsHandler) SetImportFolder(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateImportFolderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var updatedBy *id.ID
	if user := appctx.GetUser(ctx); user != nil {
		if userID, err := id.Parse(user.UserID); err == nil {
			updatedBy = &userID
		}
	}

	folder, err := h.service.SetImportFolder(ctx, req.Path, updatedBy)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, folder)
}
