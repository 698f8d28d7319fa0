package router

import (
	"github.com/gin-gonic/gin"
	"github.com/photoshare/api/internal/constants"
	"github.com/photoshare/api/internal/middleware"
)

func (r *Router) commentRoutes(rg *gin.RouterGroup) {
	rg.GET("/photos/:id/comments/", r.commentHandler.List)
	rg.POST("/photos/:id/comments/", r.authenticated(r.commentHandler.Create)...)

	comments := rg.Group("/comments")
	comments.Use(r.authMw.RequireAuth())
	{
		comments.PUT("/:id/", r.commentHandler.Update)
		comments.DELETE("/:id/", middleware.RequireRole(constants.RoleAdmin, constants.RoleModerator), r.commentHandler.Delete)
	}
}
