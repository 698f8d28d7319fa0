package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/constants"
	apperrors "github.com/photoshare/api/internal/errors"
	"github.com/photoshare/api/internal/middleware"
	"github.com/photoshare/api/internal/model"
	"github.com/photoshare/api/pkg/logger"
	"github.com/photoshare/api/pkg/validation"
)

// respondError writes a domain error with its mapped status. Internal failures are logged
// and never expose their cause.
func respondError(ctx context.Context, c *gin.Context, action string, err error) {
	status := apperrors.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, action+" failed").
			Int("http_status", status).
			Err(err).
			Log()
		message := constants.MsgInternalError
		if status == http.StatusServiceUnavailable {
			message = constants.MsgServiceUnavailable
		}
		c.JSON(status, constants.BuildErrorResponse(message, nil))
		return
	}

	logger.WarnWithContext(ctx, action+" rejected").
		Int("http_status", status).
		Err(err).
		Log()
	if status == http.StatusUnauthorized {
		c.Header(constants.HeaderWWWAuthenticate, constants.AuthSchemeBearer)
	}
	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
}

func respondBindError(ctx context.Context, c *gin.Context, err error) {
	logger.WarnWithContext(ctx, "Invalid request body").
		Err(err).
		Log()
	c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgValidationFailed, validation.FormatErrors(err)))
}

// pathID parses a positive numeric path parameter, answering 400 itself when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, "invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// currentUser is only called behind RequireAuth.
func currentUser(c *gin.Context) *model.User {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return nil
	}
	return user
}
