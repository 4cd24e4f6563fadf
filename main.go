package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/config"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/controllers"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/models"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/routes"
	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	if err := models.EnsureIssueIndexes(db.Collection("issues")); err != nil {
		log.Printf("Failed to ensure issue indexes: %v", err)
	}

	config.ConnectRedis()
	objects := config.ConnectObjectStorage()

	store := services.NewMongoStore(db)
	submissions := services.NewSubmissionService(store, objects)

	issueCtrl := controllers.NewIssueController(submissions, store)
	authCtrl := controllers.NewAuthController(store)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r, authCtrl)
	routes.IssueRoutes(r, issueCtrl)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
