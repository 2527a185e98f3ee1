package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/ringrush/backend/internal/config"
	"github.com/ringrush/backend/internal/game"
	"github.com/ringrush/backend/internal/sim"
)

// CreateSession starts a new hosted run and returns its token
func CreateSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PlayerName string `json:"player_name"`
			Mode       string `json:"mode"`
			Seed       int64  `json:"seed"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		playerName := strings.TrimSpace(req.PlayerName)
		if playerName == "" {
			playerName = "anonymous"
		}
		mode := strings.TrimSpace(req.Mode)
		if mode == "" {
			mode = cfg.DefaultMode
		}

		session, err := game.Manager.CreateSession(playerName, mode, req.Seed)
		if err != nil {
			log.Printf("[SESSION] Create failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.Header("X-Session-ID", session.ID)
		c.JSON(http.StatusCreated, gin.H{
			"id":     session.ID,
			"token":  session.Token,
			"mode":   session.Mode,
			"seed":   session.Seed,
			"ws_url": "/api/v1/session/" + session.Token + "/ws",
		})
	}
}

// GetSession returns the current snapshot of a session
func GetSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		session, err := game.Manager.GetSessionByToken(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, session.Snapshot())
	}
}

// VerifySession replays a finished run from its seed and checks the
// recorded score against the deterministic outcome.
func VerifySession(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		var row struct {
			Mode            string `db:"mode"`
			Seed            int64  `db:"seed"`
			Score           int    `db:"score"`
			FramesSimulated int64  `db:"frames_simulated"`
			Status          string `db:"status"`
		}
		err := db.Get(&row, `SELECT mode, seed, score, frames_simulated, status FROM game_sessions WHERE session_token=$1`, token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if row.Status != string(game.StatusCompleted) {
			c.JSON(http.StatusConflict, gin.H{"error": "session is not completed"})
			return
		}

		result, err := game.VerifyScore(row.Mode, row.Seed, row.FramesSimulated, row.Score)
		if err != nil {
			log.Printf("[REPLAY] Verify failed for token %s: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "replay failed"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// ReplayRun re-simulates an arbitrary seed/mode/frames triple. Useful
// for clients that want to reproduce a run without a stored session.
func ReplayRun() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Mode   string `json:"mode" binding:"required"`
			Seed   int64  `json:"seed" binding:"required"`
			Frames int64  `json:"frames" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode, seed and frames required"})
			return
		}
		if req.Frames < 0 || req.Frames > 1_000_000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "frames out of range"})
			return
		}

		session, err := game.Replay(req.Mode, req.Seed, req.Frames)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, session.Snapshot())
	}
}

// ListModes returns the available game mode presets
func ListModes() gin.HandlerFunc {
	return func(c *gin.Context) {
		type modeInfo struct {
			Name          string `json:"name"`
			RingCount     int    `json:"ring_count"`
			RingsEnabled  bool   `json:"rings_enabled"`
			WallsEnabled  bool   `json:"walls_enabled"`
			ParticleStyle string `json:"particle_style"`
		}

		modes := make([]modeInfo, 0)
		for _, name := range sim.Modes() {
			cfg, ok := sim.Preset(name)
			if !ok {
				continue
			}
			modes = append(modes, modeInfo{
				Name:          name,
				RingCount:     cfg.RingCount,
				RingsEnabled:  cfg.RingsEnabled,
				WallsEnabled:  cfg.WallsEnabled,
				ParticleStyle: string(cfg.ParticleStyle),
			})
		}
		c.JSON(http.StatusOK, gin.H{"modes": modes})
	}
}
