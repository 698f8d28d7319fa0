package router

import (
	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/middleware"
)

func (r *Router) userRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(r.authMw.RequireAuth())
	{
		users.GET("/me", r.userHandler.Me)
		users.PATCH("/me", r.userHandler.UpdateMe)
		users.PUT("/me/password", r.userHandler.ChangePassword)

		admin := users.Group("")
		admin.Use(middleware.RequireRole(constants.RoleAdmin))
		{
			admin.GET("", r.userHandler.List)
			admin.GET("/:id", r.userHandler.GetByID)
			admin.PUT("/:id/role", r.userHandler.SetRole)
			admin.PUT("/:id/active", r.userHandler.SetActive)
			admin.POST("/:id/revoke-tokens", r.userHandler.RevokeTokens)
		}
	}
}
