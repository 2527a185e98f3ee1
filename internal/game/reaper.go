package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const reaperPollInterval = 30 * time.Second

// StartReaper runs a background worker that expires idle sessions
// using the Redis sorted set of deadlines.
func (sm *SessionManager) StartReaper(ctx context.Context) {
	if sm.rdb == nil {
		log.Println("[REAPER] Redis missing; session reaper not started")
		return
	}

	log.Println("[REAPER] Session reaper started")
	ticker := time.NewTicker(reaperPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[REAPER] Session reaper stopping")
			return
		case <-ticker.C:
			sm.reapExpiredSessions(ctx)
		}
	}
}

// reapExpiredSessions expires every session whose deadline has passed
func (sm *SessionManager) reapExpiredSessions(ctx context.Context) {
	now := time.Now().Unix()

	tokens, err := sm.rdb.ZRangeByScore(ctx, sessionDeadlinesKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[REAPER] Failed to fetch expired deadlines: %v", err)
		return
	}

	for _, token := range tokens {
		// Attempt to remove (race-safe across instances)
		removed, _ := sm.rdb.ZRem(ctx, sessionDeadlinesKey, token).Result()
		if removed == 0 {
			continue
		}

		sm.mu.RLock()
		id, held := sm.tokenIndex[token]
		sm.mu.RUnlock()

		if held {
			if session, err := sm.GetSession(id); err == nil {
				// A session that finished on its own was already
				// finalized; only live or paused runs get reaped.
				status := session.CurrentStatus()
				if status == StatusLive || status == StatusPaused {
					log.Printf("[REAPER] Expiring idle session %s (token=%s)", id, token)
					session.Expire()
					sm.EndSession(id, StatusExpired)
					sm.publishExpiry(ctx, token)
				}
				continue
			}
		}

		// Not held in memory on this instance: mark the DB row directly
		if sm.db != nil {
			res, err := sm.db.Exec(`UPDATE game_sessions SET status=$1, completed_at=NOW() WHERE session_token=$2 AND status IN ($3, $4)`,
				string(StatusExpired), token, string(StatusLive), string(StatusPaused))
			if err != nil {
				log.Printf("[REAPER] Failed to expire session token=%s in DB: %v", token, err)
				continue
			}
			if n, _ := res.RowsAffected(); n > 0 {
				log.Printf("[REAPER] Expired unheld session token=%s", token)
				sm.publishExpiry(ctx, token)
			}
		}
	}
}

// publishExpiry notifies WS subscribers that a session was reaped
func (sm *SessionManager) publishExpiry(ctx context.Context, token string) {
	payload := map[string]interface{}{
		"type":          "session_expired",
		"session_token": token,
		"message":       "Session expired due to inactivity.",
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[REAPER] Failed to marshal expiry event: %v", err)
		return
	}
	if n, err := sm.rdb.Publish(ctx, "session_events", b).Result(); err != nil {
		log.Printf("[REAPER] publish session_expired failed: token=%s err=%v", token, err)
	} else {
		log.Printf("[REAPER] published session_expired: token=%s subscribers=%d", token, n)
	}
}
