package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/dto"
	"github.com/photoshare/api/internal/middleware"
	"github.com/photoshare/api/internal/service"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Signup")

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	user, err := h.authService.Signup(ctx, req)
	if err != nil {
		respondError(ctx, c, "Signup", err)
		return
	}

	logger.InfoWithContext(ctx, "Signup request completed").
		Uint("user_id", user.ID).
		Log()
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login takes urlencoded username and password fields, as OAuth2 password-flow clients send them.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(ctx, c, err)
		return
	}

	resp, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondError(ctx, c, "Login", err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Logout")
	user := currentUser(c)
	if user == nil {
		return
	}

	if err := h.authService.Logout(ctx, user, middleware.AccessToken(c)); err != nil {
		respondError(ctx, c, "Logout", err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLoggedOut))
}
