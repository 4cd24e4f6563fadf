package routes

import (
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/controllers"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/middlewares"

	"github.com/gin-gonic/gin"
)

const dailySubmissionLimit = 10

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, ctrl *controllers.IssueController) {
	issue := r.Group("/api/issue")
	{
		issue.POST("/create", middlewares.AuthMiddleware(), middlewares.IssueRateLimiter(dailySubmissionLimit), ctrl.CreateIssue)
		issue.GET("/", ctrl.GetAllIssues)
		issue.GET("/mine", middlewares.AuthMiddleware(), ctrl.GetIssuesByUser)
		issue.GET("/map", ctrl.MapIssues)
		issue.GET("/:id", middlewares.AuthMiddleware(), ctrl.GetIssue)
	}
}
