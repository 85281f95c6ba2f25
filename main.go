package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"dearday/auth"
	"dearday/cache"
	"dearday/common"
	"dearday/database"
	"dearday/media"
	"dearday/public"
	"dearday/wedding"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment as-is")
	}

	db := common.ConnectDb()
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	router := gin.Default()

	uploadBase := os.Getenv("UPLOAD_BASE")
	if uploadBase == "" {
		uploadBase = "uploads"
	}
	router.Static("/uploads", uploadBase)

	authModule := auth.NewAuthModule(db)
	authModule.RegisterRoutes(router)

	mediaModule := media.NewMediaModule(db, uploadBase)
	weddingModule := wedding.NewWeddingModule(db, mediaModule)

	api := router.Group("/api/v1")
	api.Use(authModule.RequireAuth)
	weddingModule.RegisterRoutes(api)
	mediaModule.RegisterRoutes(api)

	router.Use(cache.InviteMiddleware(10 * time.Minute))
	publicModule := public.NewPublicModule(db, mediaModule)
	publicModule.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
