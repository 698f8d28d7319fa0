package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/config"
	"github.com/photoshare/api/internal/handler"
	"github.com/photoshare/api/internal/middleware"
	"github.com/photoshare/api/pkg/logger"
	"go.uber.org/zap"
)

type Router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	photoHandler   *handler.PhotoHandler
	commentHandler *handler.CommentHandler
	healthHandler  *handler.HealthHandler

	authMw *middleware.AuthMiddleware
	Config *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	user *handler.UserHandler,
	photo *handler.PhotoHandler,
	comment *handler.CommentHandler,
	health *handler.HealthHandler,

	authMw *middleware.AuthMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:    auth,
		userHandler:    user,
		photoHandler:   photo,
		commentHandler: comment,
		healthHandler:  health,

		authMw: authMw,
		Config: config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	// forwarded headers only count when they come from a configured proxy;
	// with none configured the socket address is the client
	if err := router.SetTrustedProxies(r.Config.App.TrustedProxies); err != nil {
		logger.GetLogger().Warn("Invalid trusted proxies, trusting none",
			zap.Strings("trusted_proxies", r.Config.App.TrustedProxies),
			zap.Error(err),
		)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RequestContext(r.Config.App.Timeout))
	router.Use(middleware.CORS())

	router.GET("/health", r.healthHandler.HealthCheck)

	r.authRoutes(&router.RouterGroup)
	r.userRoutes(&router.RouterGroup)
	r.photoRoutes(&router.RouterGroup)
	r.commentRoutes(&router.RouterGroup)

	return router
}

// authenticated requires a valid token of an active user.
func (r *Router) authenticated(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{r.authMw.RequireAuth()}, handlers...)
}

func (r *Router) rateLimit() gin.HandlerFunc {
	return middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second)
}
