package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ringrush/backend/internal/game"
)

// HandleSessionWebSocket upgrades the connection and attaches the
// client to a session room. Frames are pushed by the session ticker;
// this handler only consumes control messages.
func HandleSessionWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session token required"})
			return
		}

		session, err := game.Manager.GetSessionByToken(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade failed for session %s: %v", token, err)
			return
		}

		idBytes := make([]byte, 8)
		rand.Read(idBytes)
		client := &Client{
			conn:         conn,
			clientID:     "c_" + hex.EncodeToString(idBytes),
			sessionToken: token,
			send:         make(chan []byte, 256),
		}

		GameHub.register <- client
		go client.writePump()

		// Initial snapshot so the client can render before the next frame
		snap := session.Snapshot()
		client.sendJSON(map[string]interface{}{
			"type":    "session_state",
			"session": snap,
			"tick":    snap.Frame,
			"status":  snap.Status,
			"mode":    snap.Mode,
			"seed":    snap.Seed,
		})

		go client.readPump(session)
	}
}

// readPump consumes control messages until the connection closes
func (c *Client) readPump(session *game.Session) {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error for client %s: %v", c.clientID, err)
			}
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}

		game.Manager.TouchSession(session)

		switch msg.Type {
		case "start":
			// Sessions are born live; "start" resumes a paused run and
			// is otherwise an acknowledgement.
			if session.CurrentStatus() == game.StatusPaused {
				if err := session.Resume(); err != nil {
					c.sendError(err.Error())
					continue
				}
			}
			c.sendJSON(map[string]interface{}{"type": "session_started", "status": string(session.CurrentStatus())})

		case "pause":
			if err := session.Pause(); err != nil {
				c.sendError(err.Error())
				continue
			}
			GameHub.BroadcastToSession(c.sessionToken, map[string]interface{}{"type": "session_paused"})

		case "resume":
			if err := session.Resume(); err != nil {
				c.sendError(err.Error())
				continue
			}
			GameHub.BroadcastToSession(c.sessionToken, map[string]interface{}{"type": "session_resumed"})

		case "ping":
			c.sendJSON(map[string]interface{}{"type": "pong"})

		default:
			c.sendError("unknown message type: " + msg.Type)
		}
	}
}
