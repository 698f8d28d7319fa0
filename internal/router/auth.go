package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", r.rateLimit(), r.authHandler.Signup)
	rg.POST("/login", r.rateLimit(), r.authHandler.Login)
	rg.POST("/logout", r.authenticated(r.authHandler.Logout)...)
}
