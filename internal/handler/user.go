package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/dto"
	"github.com/photoshare/api/internal/service"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
)

type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

func (h *UserHandler) Me(c *gin.Context) {
	if user := currentUser(c); user != nil {
		c.JSON(http.StatusOK, dto.NewUserResponse(user))
	}
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "UpdateMe")
	user := currentUser(c)
	if user == nil {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	updated, err := h.userService.UpdateProfile(ctx, user, req)
	if err != nil {
		respondError(ctx, c, "Update profile", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(updated))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ChangePassword")
	user := currentUser(c)
	if user == nil {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	if err := h.userService.ChangePassword(ctx, user, req); err != nil {
		respondError(ctx, c, "Change password", err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgPasswordChanged))
}

func (h *UserHandler) List(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "ListUsers")
	pagination := constants.ParsePaginationParams(c)

	users, total, err := h.userService.List(ctx, pagination)
	if err != nil {
		respondError(ctx, c, "List users", err)
		return
	}

	data := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, dto.NewUserResponse(&users[i]))
	}

	logger.DebugWithContext(ctx, "Users fetched").
		Int("page", pagination.Page).
		Int64("total", total).
		Log()
	c.JSON(http.StatusOK, constants.BuildListResponse(total, pagination.Page, pagination.PageTotal(total), data))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "GetUser")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(ctx, id)
	if err != nil {
		respondError(ctx, c, "Get user", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (h *UserHandler) SetRole(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "SetRole")
	actor := currentUser(c)
	id, ok := pathID(c, "id")
	if actor == nil || !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	user, err := h.userService.SetRole(ctx, actor, id, req.Role)
	if err != nil {
		respondError(ctx, c, "Set role", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (h *UserHandler) SetActive(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "SetActive")
	actor := currentUser(c)
	id, ok := pathID(c, "id")
	if actor == nil || !ok {
		return
	}

	var req dto.UpdateActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	user, err := h.userService.SetActive(ctx, actor, id, *req.IsActive)
	if err != nil {
		respondError(ctx, c, "Set active", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

func (h *UserHandler) RevokeTokens(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "RevokeTokens")
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	n, err := h.authService.RevokeUserTokens(ctx, id)
	if err != nil {
		respondError(ctx, c, "Revoke tokens", err)
		return
	}
	c.JSON(http.StatusOK, dto.RevokeTokensResponse{Message: constants.MsgTokensRevoked, Revoked: n})
}
