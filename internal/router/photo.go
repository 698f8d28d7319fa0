package router

import "github.com/gin-gonic/gin"

func (r *Router) photoRoutes(rg *gin.RouterGroup) {
	photos := rg.Group("/photos")
	{
		photos.GET("", r.photoHandler.List)
		photos.GET("/:id", r.photoHandler.Get)

		photos.POST("", r.authenticated(r.photoHandler.Create)...)
		photos.PUT("/:id", r.authenticated(r.photoHandler.Update)...)
		photos.DELETE("/:id", r.authenticated(r.photoHandler.Delete)...)
		photos.POST("/:id/ratings", r.authenticated(r.photoHandler.Rate)...)
	}
}
