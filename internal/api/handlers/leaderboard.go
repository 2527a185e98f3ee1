package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ringrush/backend/internal/config"
	"github.com/ringrush/backend/internal/game"
	"github.com/ringrush/backend/internal/sim"
)

// GetLeaderboard returns the top scores for a mode. With no mode
// parameter the default mode's board is served.
func GetLeaderboard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := c.Param("mode")
		if mode == "" {
			mode = cfg.DefaultMode
		}
		if _, ok := sim.Preset(mode); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown mode"})
			return
		}

		entries, err := game.Manager.Leaderboard(mode)
		if err != nil {
			log.Printf("[LEADERBOARD] Fetch failed for mode %s: %v", mode, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"mode": mode, "entries": entries})
	}
}
