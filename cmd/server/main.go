package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/ringrush/backend/internal/api"
	"github.com/ringrush/backend/internal/config"
	"github.com/ringrush/backend/internal/database"
	"github.com/ringrush/backend/internal/game"
	"github.com/ringrush/backend/internal/migrations"
	"github.com/ringrush/backend/internal/redis"
	"github.com/ringrush/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()

	// Initialize the session manager (ticker + reaper workers)
	game.InitializeManager(ctx, db, rdb, cfg)

	// Wire the WS hub: frames flow manager -> hub, expiry events flow
	// through Redis pub/sub for cross-instance delivery
	go ws.GameHub.Run()
	game.Manager.SetBroadcaster(ws.GameHub.BroadcastToSession)
	ws.SetRedisClient(rdb, cfg)
	ws.StartSessionEventSubscriber(ctx)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Initialize API handlers
	api.SetupRoutes(router, db, rdb, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting RingRush server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
