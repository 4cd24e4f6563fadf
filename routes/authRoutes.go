package routes

import (
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/controllers"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ctrl *controllers.AuthController) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ctrl.RegisterUser)
		auth.POST("/login", ctrl.LoginUser)
		auth.POST("/logout", ctrl.LogoutUser)
		auth.GET("/me", middlewares.AuthMiddleware(), ctrl.GetMe)
	}
}
