package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// GameSession represents one simulated run of the arena
type GameSession struct {
	ID              int          `db:"id" json:"id"`
	SessionToken    string       `db:"session_token" json:"session_token"`
	PlayerName      string       `db:"player_name" json:"player_name"`
	Mode            string       `db:"mode" json:"mode"`
	Seed            int64        `db:"seed" json:"seed"`
	Status          string       `db:"status" json:"status"`
	Score           int          `db:"score" json:"score"`
	RingsDestroyed  int          `db:"rings_destroyed" json:"rings_destroyed"`
	FramesSimulated int64        `db:"frames_simulated" json:"frames_simulated"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	CompletedAt     sql.NullTime `db:"completed_at" json:"completed_at,omitempty"`
	ExpiryTime      time.Time    `db:"expiry_time" json:"expiry_time"`
}

// Session statuses
const (
	SessionLive      = "live"
	SessionPaused    = "paused"
	SessionCompleted = "completed"
	SessionExpired   = "expired"
)

// ScoreEvent records a single scoring moment within a session
type ScoreEvent struct {
	ID        int       `db:"id" json:"id"`
	SessionID int       `db:"session_id" json:"session_id"`
	EventType string    `db:"event_type" json:"event_type"`
	RingID    int       `db:"ring_id" json:"ring_id"`
	Points    int       `db:"points" json:"points"`
	Frame     int64     `db:"frame" json:"frame"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LeaderboardEntry is one row of the Redis-backed leaderboard
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

// AdminAccount represents an operator login
type AdminAccount struct {
	Username    string         `db:"username" json:"username"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	AllowedIPs  pq.StringArray `db:"allowed_ips" json:"allowed_ips,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit records one admin action for the audit trail
type AdminAudit struct {
	ID            int             `db:"id" json:"id"`
	AdminUsername string          `db:"admin_username" json:"admin_username"`
	IP            string          `db:"ip" json:"ip"`
	Route         string          `db:"route" json:"route"`
	Action        string          `db:"action" json:"action"`
	Details       json.RawMessage `db:"details" json:"details,omitempty"`
	Success       bool            `db:"success" json:"success"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
