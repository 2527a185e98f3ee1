package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ringrush/backend/internal/game"
)

var startTime = time.Now()

const version = "1.2.0"

// HealthCheck returns server health status
func HealthCheck(c *gin.Context) {
	sessions := 0
	if game.Manager != nil {
		sessions = game.Manager.GetActiveSessionCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"service":         "ringrush-api",
		"version":         version,
		"uptime":          time.Since(startTime).String(),
		"active_sessions": sessions,
	})
}
