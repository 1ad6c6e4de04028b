package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transita/internal/domain/auth"
	"transita/internal/infrastructure/http/v1/dto"
)

// UserHandler handles user administration endpoints.
type UserHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *BaseHandler, service *auth.Service) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.UserListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	users, total, err := h.service.ListUsers(ctx, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]*dto.UserResponse, len(users))
	for i := range users {
		items[i] = dto.FromUser(&users[i])
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, total))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	user, err := h.service.GetUserByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(user))
}

// Update handles PUT /users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.GetUserByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(user)

	if err := h.service.UpdateUser(ctx, user); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromUser(user))
}

// ChangePassword handles PUT /users/:id/password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(ctx, userID, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "password changed")
}

// Delete handles DELETE /users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := dto.ParseID(c.Param("id"), "id")
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.DeleteUser(ctx, userID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers user administration routes.
func (h *UserHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.PUT("/:id/password", h.ChangePassword)
	group.DELETE("/:id", h.Delete)
}
