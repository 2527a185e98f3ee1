package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/ringrush/backend/internal/config"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartSessionEventSubscriber subscribes to the session_events channel
// and relays reaper events to the affected rooms. This is how clients
// of one instance learn about sessions expired by another.
func StartSessionEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; session event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "session_events")
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] session_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			typeStr, _ := payload["type"].(string)
			token, _ := payload["session_token"].(string)
			if token == "" {
				log.Printf("[WS] event missing session_token: type=%s", typeStr)
				continue
			}

			switch typeStr {
			case "session_expired":
				GameHub.mu.RLock()
				if room, exists := GameHub.rooms[token]; !exists {
					log.Printf("[WS] no room for session %s; expiry will not be broadcast", token)
				} else {
					log.Printf("[WS] broadcasting session_expired to session %s (room_size=%d)", token, len(room))
				}
				GameHub.mu.RUnlock()
				GameHub.BroadcastToSession(token, map[string]interface{}{
					"type":    "session_expired",
					"message": payload["message"],
				})

			default:
				log.Printf("[WS] unknown event type: %s", typeStr)
			}
		}
	}()
}
