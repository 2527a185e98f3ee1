package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/ringrush/backend/internal/config"
	"github.com/ringrush/backend/internal/models"
	"github.com/ringrush/backend/internal/sim"
)

const sessionDeadlinesKey = "session_deadlines"

// SessionManager owns all live sessions on this instance
type SessionManager struct {
	sessions   map[string]*Session // session ID -> session
	tokenIndex map[string]string   // session token -> session ID
	rdb        *redis.Client
	db         *sqlx.DB
	config     *config.Config

	// broadcast pushes a message to every client attached to a session
	// token. Wired by the WS layer at startup to avoid an import cycle.
	broadcast func(sessionToken string, message interface{})

	mu sync.RWMutex
}

var (
	// Global session manager instance
	Manager *SessionManager
)

// InitializeManager initializes the global session manager with Redis, DB and config
func InitializeManager(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewSessionManager(db, rdb, cfg)
	go Manager.StartTicker(ctx)
	go Manager.StartReaper(ctx)
}

// NewSessionManager creates a new session manager
func NewSessionManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *SessionManager {
	return &SessionManager{
		sessions:   make(map[string]*Session),
		tokenIndex: make(map[string]string),
		rdb:        rdb,
		db:         db,
		config:     cfg,
	}
}

// SetBroadcaster wires the frame broadcast callback
func (sm *SessionManager) SetBroadcaster(fn func(sessionToken string, message interface{})) {
	sm.mu.Lock()
	sm.broadcast = fn
	sm.mu.Unlock()
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateSessionID generates a unique session ID
func generateSessionID() string {
	return "sess_" + generateToken(8)
}

// CreateSession starts a new hosted simulation for the given mode.
// A zero seed asks the server to pick one.
func (sm *SessionManager) CreateSession(playerName, mode string, seed int64) (*Session, error) {
	cfg, ok := sim.Preset(mode)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= sm.config.MaxSessions {
		return nil, errors.New("session capacity reached")
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sessionID := generateSessionID()
	token := generateToken(16)
	session := NewSession(sessionID, token, playerName, mode, seed, cfg)

	sm.sessions[sessionID] = session
	sm.tokenIndex[token] = sessionID

	log.Printf("[SESSION] Created: %s mode=%s seed=%d player=%s", sessionID, mode, seed, playerName)

	// Persist a game_sessions row
	if sm.db != nil {
		expiry := time.Now().Add(time.Duration(sm.config.SessionExpiryMinutes) * time.Minute)
		var dbID int
		err := sm.db.QueryRowx(`INSERT INTO game_sessions (session_token, player_name, mode, seed, status, created_at, expiry_time) VALUES ($1, $2, $3, $4, $5, NOW(), $6) RETURNING id`,
			token, playerName, mode, seed, string(StatusLive), expiry).Scan(&dbID)
		if err != nil {
			log.Printf("[DB] Failed to create game_session: %v", err)
		} else {
			session.DBSessionID = dbID
		}
	}

	// Schedule the expiry deadline and save the first snapshot
	sm.scheduleDeadline(session)
	sm.saveSessionToRedis(session)

	return session, nil
}

// GetSession retrieves a session by ID
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

// GetSessionByToken retrieves a session by its token, rebuilding it
// from the Redis snapshot when this instance does not hold it in memory.
func (sm *SessionManager) GetSessionByToken(token string) (*Session, error) {
	sm.mu.RLock()
	if id, ok := sm.tokenIndex[token]; ok {
		if session, ok := sm.sessions[id]; ok {
			sm.mu.RUnlock()
			return session, nil
		}
	}
	sm.mu.RUnlock()

	session, err := sm.loadSessionFromRedis(token)
	if err != nil {
		return nil, errors.New("session not found")
	}

	sm.mu.Lock()
	sm.sessions[session.ID] = session
	sm.tokenIndex[session.Token] = session.ID
	sm.mu.Unlock()

	log.Printf("[SESSION] Rebuilt %s from snapshot (frame=%d)", session.ID, session.Frame)
	return session, nil
}

// EndSession finalizes a session and removes it from memory
func (sm *SessionManager) EndSession(sessionID string, finalStatus SessionStatus) {
	sm.mu.Lock()
	session, exists := sm.sessions[sessionID]
	if exists {
		delete(sm.sessions, sessionID)
		delete(sm.tokenIndex, session.Token)
	}
	sm.mu.Unlock()

	if !exists {
		return
	}

	snap := session.Snapshot()
	log.Printf("[SESSION] Ended: %s status=%s score=%d frames=%d", sessionID, finalStatus, snap.Score, snap.Frame)

	if sm.db != nil && session.DBSessionID > 0 {
		ringsDestroyed := 0
		for _, r := range snap.State.Rings {
			if r.Destroyed {
				ringsDestroyed++
			}
		}
		_, err := sm.db.Exec(`UPDATE game_sessions SET status=$1, score=$2, rings_destroyed=$3, frames_simulated=$4, completed_at=NOW() WHERE id=$5`,
			string(finalStatus), snap.Score, ringsDestroyed, snap.Frame, session.DBSessionID)
		if err != nil {
			log.Printf("[DB] Failed to finalize game_session %d: %v", session.DBSessionID, err)
		}
	}

	if sm.rdb != nil {
		ctx := context.Background()
		sm.rdb.ZRem(ctx, sessionDeadlinesKey, session.Token)
		if finalStatus == StatusCompleted && snap.Score > 0 {
			key := "leaderboard:" + session.Mode
			if err := sm.rdb.ZAddGT(ctx, key, redis.Z{Score: float64(snap.Score), Member: session.PlayerName}).Err(); err != nil {
				log.Printf("[REDIS] Failed to update leaderboard %s: %v", key, err)
			}
		}
	}
}

// GetActiveSessionCount returns the number of sessions held in memory
func (sm *SessionManager) GetActiveSessionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// Leaderboard returns the top scores for a mode from the Redis sorted set
func (sm *SessionManager) Leaderboard(mode string) ([]models.LeaderboardEntry, error) {
	if sm.rdb == nil {
		return nil, errors.New("no redis client")
	}

	ctx := context.Background()
	key := "leaderboard:" + mode
	size := int64(sm.config.LeaderboardSize)

	zs, err := sm.rdb.ZRevRangeWithScores(ctx, key, 0, size-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		name, _ := z.Member.(string)
		entries = append(entries, models.LeaderboardEntry{
			Rank:       i + 1,
			PlayerName: name,
			Score:      int(z.Score),
		})
	}
	return entries, nil
}

// RecordScoreEvent persists a single scoring event (best-effort)
func (sm *SessionManager) RecordScoreEvent(session *Session, ev sim.Event, frame int64) {
	if sm.db == nil || session.DBSessionID == 0 {
		return
	}

	_, err := sm.db.Exec(`INSERT INTO score_events (session_id, event_type, ring_id, points, frame, created_at) VALUES ($1,$2,$3,$4,$5,NOW())`,
		session.DBSessionID, ev.Type, ev.RingID, ev.Score, frame)
	if err != nil {
		log.Printf("[DB] Failed to record score event for session %d: %v", session.DBSessionID, err)
	}
}

// TouchSession refreshes a session's expiry deadline
func (sm *SessionManager) TouchSession(session *Session) {
	session.Touch()
	sm.scheduleDeadline(session)
}

// scheduleDeadline writes the session's reap deadline into the sorted set
func (sm *SessionManager) scheduleDeadline(session *Session) {
	if sm.rdb == nil {
		return
	}
	ctx := context.Background()
	deadline := time.Now().Add(time.Duration(sm.config.SessionExpiryMinutes) * time.Minute).Unix()
	if err := sm.rdb.ZAdd(ctx, sessionDeadlinesKey, redis.Z{Score: float64(deadline), Member: session.Token}).Err(); err != nil {
		log.Printf("[REDIS] Failed to schedule deadline for %s: %v", session.ID, err)
	}
}

// StartTicker drives every live session at the configured tick rate
func (sm *SessionManager) StartTicker(ctx context.Context) {
	tickRate := sm.config.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)

	log.Printf("[TICKER] Session ticker started at %d Hz", tickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	snapshotEvery := int64(tickRate) // snapshot roughly once a second

	for {
		select {
		case <-ctx.Done():
			log.Println("[TICKER] Session ticker stopping")
			return
		case <-ticker.C:
			sm.mu.RLock()
			live := make([]*Session, 0, len(sm.sessions))
			for _, s := range sm.sessions {
				if s.CurrentStatus() == StatusLive {
					live = append(live, s)
				}
			}
			broadcast := sm.broadcast
			sm.mu.RUnlock()

			for _, session := range live {
				events := session.Advance(1.0)

				for _, ev := range events {
					if ev.Type == sim.EventRingDestroyed || ev.Type == sim.EventGameOver {
						sm.RecordScoreEvent(session, ev, session.Frame)
					}
				}

				if broadcast != nil {
					snap := session.Snapshot()
					broadcast(session.Token, FrameMessage{
						Type:   "frame",
						Frame:  snap.Frame,
						Score:  snap.Score,
						State:  snap.State,
						Events: events,
					})
				}

				if session.Frame%snapshotEvery == 0 {
					sm.saveSessionToRedis(session)
				}

				if session.CurrentStatus() == StatusCompleted {
					sm.saveSessionToRedis(session)
					sm.EndSession(session.ID, StatusCompleted)
					if broadcast != nil {
						final := session.Snapshot()
						broadcast(session.Token, map[string]interface{}{
							"type":   "game_over",
							"score":  final.Score,
							"frames": final.Frame,
						})
					}
				}
			}
		}
	}
}

// FrameMessage is one broadcast simulation frame
type FrameMessage struct {
	Type   string      `json:"type"`
	Frame  int64       `json:"frame"`
	Score  int         `json:"score"`
	State  sim.State   `json:"state"`
	Events []sim.Event `json:"events,omitempty"`
}

// saveSessionToRedis persists a session snapshot with a TTL
func (sm *SessionManager) saveSessionToRedis(session *Session) {
	if sm.rdb == nil {
		return
	}

	ctx := context.Background()
	key := "session:" + session.Token + ":state"

	data, err := json.Marshal(session.Snapshot())
	if err != nil {
		log.Printf("[REDIS] Failed to marshal session %s: %v", session.ID, err)
		return
	}

	ttl := time.Duration(sm.config.SnapshotTTLSeconds) * time.Second
	if err := sm.rdb.SetEx(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("[REDIS] Failed to save session %s: %v", session.ID, err)
	}
}

// loadSessionFromRedis rebuilds a session from its snapshot. The
// snapshot carries seed, mode and frame count, so the authoritative
// state is recovered by re-simulating from the seed rather than by
// trusting the stored state.
func (sm *SessionManager) loadSessionFromRedis(token string) (*Session, error) {
	if sm.rdb == nil {
		return nil, errors.New("no redis client")
	}

	ctx := context.Background()
	key := "session:" + token + ":state"

	data, err := sm.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, errors.New("session not found in redis")
	}
	if err != nil {
		return nil, err
	}

	var snap SessionSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}

	session, err := Replay(snap.Mode, snap.Seed, snap.Frame)
	if err != nil {
		return nil, err
	}
	session.ID = snap.ID
	session.Token = snap.Token
	session.PlayerName = snap.PlayerName
	session.Status = SessionStatus(snap.Status)
	session.CreatedAt = snap.CreatedAt
	session.LastActivity = time.Now()

	// Re-attach the DB row if one exists
	if sm.db != nil {
		var dbID int
		if err := sm.db.Get(&dbID, `SELECT id FROM game_sessions WHERE session_token=$1`, token); err == nil {
			session.DBSessionID = dbID
		}
	}

	return session, nil
}
