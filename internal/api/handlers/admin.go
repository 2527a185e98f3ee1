package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/ringrush/backend/internal/admin"
	"github.com/ringrush/backend/internal/config"
	"github.com/ringrush/backend/internal/models"
)

const (
	adminLoginMaxAttempts = 5
	adminLoginWindow      = 15 * time.Minute
)

// checkAdminLoginRate increments the per-IP attempt counter and reports
// whether the caller is still within the allowed window.
func checkAdminLoginRate(rdb *redis.Client, ip string) bool {
	if rdb == nil {
		return true
	}
	ctx := context.Background()
	key := "admin_login_attempts:" + ip

	set, err := rdb.SetNX(ctx, key, 1, adminLoginWindow).Result()
	if err != nil {
		log.Printf("[ADMIN] Rate limit check failed for %s: %v", ip, err)
		return true
	}
	if set {
		return true
	}
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	return count <= adminLoginMaxAttempts
}

// AdminLogin validates credentials and issues a bearer JWT
func AdminLogin(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checkAdminLoginRate(rdb, c.ClientIP()) {
			log.Printf("[ADMIN] Login rate limit hit for IP %s", c.ClientIP())
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts, try again later"})
			return
		}

		var req struct {
			Username string `json:"username" binding:"required"`
			Token    string `json:"token" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		username := strings.TrimSpace(req.Username)

		adminAcc, err := admin.ValidateAdminCredentials(db, username, req.Token)
		if err != nil {
			log.Printf("[ADMIN] Login failed for username %s: %v", username, err)
			admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login", map[string]interface{}{"username": username}, false)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		exp := time.Now().Add(time.Duration(cfg.SessionTimeoutMin) * time.Minute)
		claims := jwt.MapClaims{
			"admin_username": adminAcc.Username,
			"roles":          []string(adminAcc.Roles),
			"exp":            exp.Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("[ADMIN] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login_success", map[string]interface{}{"username": username}, true)
		c.JSON(http.StatusOK, gin.H{
			"token":      signed,
			"expires_at": exp.Format(time.RFC3339),
			"admin": gin.H{
				"username":     adminAcc.Username,
				"display_name": adminAcc.DisplayName,
				"roles":        adminAcc.Roles,
			},
		})
	}
}

// AdminAuthMiddleware validates bearer JWT and sets admin_username in context
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		username, ok := claims["admin_username"].(string)
		if !ok || username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("admin_username", username)
		c.Next()
	}
}

// AdminMe returns the current admin identity
func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("admin_username")
		c.JSON(http.StatusOK, gin.H{"username": username})
	}
}

// GetAdminStats returns platform-wide statistics
func GetAdminStats(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		stats := gin.H{}

		var sessionStats struct {
			TotalSessions     int `db:"total_sessions"`
			LiveSessions      int `db:"live_sessions"`
			CompletedSessions int `db:"completed_sessions"`
			ExpiredSessions   int `db:"expired_sessions"`
		}
		err := db.Get(&sessionStats, `
			SELECT
				COUNT(*) as total_sessions,
				SUM(CASE WHEN status IN ('live', 'paused') THEN 1 ELSE 0 END) as live_sessions,
				SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) as completed_sessions,
				SUM(CASE WHEN status = 'expired' THEN 1 ELSE 0 END) as expired_sessions
			FROM game_sessions
		`)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch session stats: %v", err)
		} else {
			stats["total_sessions"] = sessionStats.TotalSessions
			stats["live_sessions"] = sessionStats.LiveSessions
			stats["completed_sessions"] = sessionStats.CompletedSessions
			stats["expired_sessions"] = sessionStats.ExpiredSessions
		}

		var scoreStats struct {
			TopScore int     `db:"top_score"`
			AvgScore float64 `db:"avg_score"`
		}
		err = db.Get(&scoreStats, `
			SELECT COALESCE(MAX(score), 0) as top_score, COALESCE(AVG(score), 0) as avg_score
			FROM game_sessions
			WHERE status = 'completed'
		`)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch score stats: %v", err)
		} else {
			stats["top_score"] = scoreStats.TopScore
			stats["avg_score"] = scoreStats.AvgScore
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/stats", "get_stats", nil, true)
		c.JSON(http.StatusOK, stats)
	}
}

// GetAdminSessions returns paginated game sessions with filters
func GetAdminSessions(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		status := c.DefaultQuery("status", "all")
		mode := c.DefaultQuery("mode", "all")

		if limit > 200 {
			limit = 200
		}

		type sessionRow struct {
			models.GameSession
			TotalCount int `db:"total_count" json:"-"`
		}

		var rows []sessionRow
		err := db.Select(&rows, `
			SELECT id, session_token, player_name, mode, seed, status, score,
				rings_destroyed, frames_simulated, created_at, completed_at, expiry_time,
				COUNT(*) OVER() as total_count
			FROM game_sessions
			WHERE ($1 = 'all' OR status = $1)
				AND ($2 = 'all' OR mode = $2)
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4
		`, status, mode, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch sessions: %v", err)
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/sessions", "get_sessions", nil, false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
			return
		}

		total := 0
		if len(rows) > 0 {
			total = rows[0].TotalCount
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/sessions", "get_sessions", map[string]interface{}{"count": len(rows)}, true)
		c.JSON(http.StatusOK, gin.H{"sessions": rows, "total": total, "limit": limit, "offset": offset})
	}
}

// GetAdminScoreEvents returns the scoring timeline of one session
func GetAdminScoreEvents(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")

		sessionID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}

		var events []models.ScoreEvent
		err = db.Select(&events, `
			SELECT id, session_id, event_type, ring_id, points, frame, created_at
			FROM score_events
			WHERE session_id = $1
			ORDER BY frame
		`, sessionID)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch score events for session %d: %v", sessionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch score events"})
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/sessions/"+c.Param("id")+"/events", "get_score_events", map[string]interface{}{"count": len(events)}, true)
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

// GetAdminAuditLogs returns paginated admin audit entries
func GetAdminAuditLogs(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		username := c.DefaultQuery("username", "")

		if limit > 200 {
			limit = 200
		}

		var (
			logs []models.AdminAudit
			err  error
		)
		if username != "" {
			logs, err = admin.GetAdminAuditLogsByUsername(db, username, limit, offset)
		} else {
			logs, err = admin.GetAdminAuditLogs(db, limit, offset)
		}
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch audit logs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}
