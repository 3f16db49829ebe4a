package main

import (
	"log"
	"net/http"
	"os"

	"novelbranch/config"
	"novelbranch/handlers"
	"novelbranch/middleware"
	"novelbranch/repositories"
	"novelbranch/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	db := config.InitDB()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	novelRepo := repositories.NewNovelRepository(db)
	chapterRepo := repositories.NewChapterRepository(db)
	mergeRepo := repositories.NewMergeRequestRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	novelService := services.NewNovelService(novelRepo)
	chapterService := services.NewChapterService(chapterRepo, novelRepo)
	mergeService := services.NewMergeService(mergeRepo, chapterRepo, novelRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	novelHandler := handlers.NewNovelHandler(novelService)
	chapterHandler := handlers.NewChapterHandler(chapterService)
	mergeHandler := handlers.NewMergeRequestHandler(mergeService)

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public reads
		v1.GET("/novels", novelHandler.GetNovels)
		v1.GET("/novels/:novel_id", novelHandler.GetNovel)
		v1.GET("/novels/:novel_id/chapters", chapterHandler.GetNovelChapters)
		v1.GET("/novels/:novel_id/chapters/main", chapterHandler.GetMainChapters)
		v1.GET("/novels/:novel_id/chapters/merged", chapterHandler.GetMergedChapters)
		v1.GET("/novels/:novel_id/merge-requests", mergeHandler.GetMergeRequests)
		v1.GET("/chapters/:chapter_id", chapterHandler.GetChapter)
		v1.GET("/chapters/:chapter_id/forks", chapterHandler.GetForkChapters)
		v1.GET("/chapters/:chapter_id/merged", chapterHandler.GetMergedChaptersForParent)

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)

			// Novels
			protected.POST("/novels", novelHandler.CreateNovel)
			protected.PUT("/novels/:novel_id", novelHandler.UpdateNovel)
			protected.DELETE("/novels/:novel_id", novelHandler.DeleteNovel)

			// Chapters
			protected.POST("/novels/:novel_id/chapters", chapterHandler.CreateChapter)
			protected.PUT("/chapters/:chapter_id", chapterHandler.UpdateChapter)
			protected.DELETE("/chapters/:chapter_id", chapterHandler.DeleteChapter)
			protected.POST("/chapters/:chapter_id/fork", chapterHandler.ForkChapter)
			protected.GET("/chapters/:chapter_id/can-submit", mergeHandler.CheckSubmissionEligibility)

			// Merge requests
			protected.POST("/novels/:novel_id/merge-requests", mergeHandler.SubmitForReview)
			protected.PUT("/merge-requests/:mr_id/approve", mergeHandler.ApproveMergeRequest)
			protected.PUT("/merge-requests/:mr_id/reject", mergeHandler.RejectMergeRequest)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
