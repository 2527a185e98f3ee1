package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/ringrush/backend/internal/api/handlers"
	"github.com/ringrush/backend/internal/config"
	"github.com/ringrush/backend/internal/middleware"
	"github.com/ringrush/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	// No-cache middleware in development
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/modes", handlers.ListModes())
		v1.GET("/leaderboard", handlers.GetLeaderboard(cfg))
		v1.GET("/leaderboard/:mode", handlers.GetLeaderboard(cfg))
		v1.POST("/replay", handlers.ReplayRun())

		// Session endpoints
		session := v1.Group("/session")
		{
			session.POST("", handlers.CreateSession(cfg))
			session.GET("/:token", handlers.GetSession())
			session.GET("/:token/replay", handlers.VerifySession(db))
			session.GET("/:token/ws", ws.HandleSessionWebSocket())
		}

		// Admin endpoints
		adminGroup := v1.Group("/admin")
		{
			adminGroup.POST("/login", handlers.AdminLogin(db, rdb, cfg))

			authed := adminGroup.Group("")
			authed.Use(handlers.AdminAuthMiddleware(cfg))
			{
				authed.GET("/me", handlers.AdminMe())
				authed.GET("/stats", handlers.GetAdminStats(db))
				authed.GET("/sessions", handlers.GetAdminSessions(db))
				authed.GET("/sessions/:id/events", handlers.GetAdminScoreEvents(db))
				authed.GET("/audit", handlers.GetAdminAuditLogs(db))
			}
		}
	}
}
