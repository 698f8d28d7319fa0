package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/constants"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/model"
	"github.com/photoshare/api/internal/service"
	ctxutil "github.com/photoshare/api/pkg/context"
	"github.com/photoshare/api/pkg/logger"
)

// Authenticator is satisfied by *service.AccessGate.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type AuthMiddleware struct {
	gate Authenticator
}

func NewAuthMiddleware(gate Authenticator) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// RequireAuth resolves the bearer token to an active user and stores both on the gin context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithOperation(c.Request.Context(), "middleware", "RequireAuth")

		token, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			logger.WarnWithContext(ctx, "Missing or malformed Authorization header").
				String("path", c.Request.URL.Path).
				Log()
			abortUnauthorized(c)
			return
		}

		user, err := m.gate.Authenticate(ctx, token)
		if err != nil {
			logger.WarnWithContext(ctx, "Request rejected by access gate").
				String("path", c.Request.URL.Path).
				Err(err).
				Log()
			if apperrors.IsTokenRejection(err) || errors.Is(err, apperrors.ErrUserNotFound) {
				abortUnauthorized(c)
				return
			}
			abortWithError(c, err)
			return
		}

		c.Set(constants.GinKeyCurrentUser, user)
		c.Set(constants.GinKeyAccessToken, token)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := CurrentUser(c)
		if _, err := service.RequireRole(user, roles...); err != nil {
			logger.WarnWithContext(c.Request.Context(), "Insufficient role").
				String("path", c.Request.URL.Path).
				Log()
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(constants.GinKeyCurrentUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// AccessToken returns the raw bearer token of the request.
func AccessToken(c *gin.Context) string {
	return c.GetString(constants.GinKeyAccessToken)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.AuthSchemeBearer) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// abortUnauthorized never says which check failed.
func abortUnauthorized(c *gin.Context) {
	c.Header(constants.HeaderWWWAuthenticate, constants.AuthSchemeBearer)
	c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
}

func abortWithError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	message := apperrors.GetErrorMessage(err)
	if status == http.StatusInternalServerError {
		message = constants.MsgInternalError
	}
	c.AbortWithStatusJSON(status, constants.BuildErrorResponse(message, nil))
}
