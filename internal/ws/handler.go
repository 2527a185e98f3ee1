package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is validated by the CORS middleware upstream
	},
}

// Client represents a connected WebSocket client
type Client struct {
	conn         *websocket.Conn
	clientID     string
	sessionToken string
	send         chan []byte
}

// Hub maintains the set of active clients grouped by session
type Hub struct {
	clients    map[string]*Client            // clientID -> Client
	rooms      map[string]map[string]*Client // session token -> clientID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// GameHub is the global hub for session spectators and players
var GameHub = NewHub()

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister requests. Call once at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.clientID] = client
			room, exists := h.rooms[client.sessionToken]
			if !exists {
				room = make(map[string]*Client)
				h.rooms[client.sessionToken] = room
			}
			room[client.clientID] = client
			h.mu.Unlock()
			log.Printf("[WS] Client %s joined session %s", client.clientID, client.sessionToken)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, exists := h.clients[client.clientID]; exists {
				delete(h.clients, client.clientID)
				close(client.send)
			}
			if room, exists := h.rooms[client.sessionToken]; exists {
				delete(room, client.clientID)
				if len(room) == 0 {
					delete(h.rooms, client.sessionToken)
				}
			}
			h.mu.Unlock()
			log.Printf("[WS] Client %s left session %s", client.clientID, client.sessionToken)
		}
	}
}

// BroadcastToSession sends a message to every client watching a session
func (h *Hub) BroadcastToSession(sessionToken string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, exists := h.rooms[sessionToken]; exists {
		for _, client := range room {
			select {
			case client.send <- data:
			default:
				// Client's buffer is full; frames are disposable
				log.Printf("[WS] Dropping frame for client %s in session %s (buffer full)", client.clientID, sessionToken)
			}
		}
	}
}

// SessionHasWatchers reports whether any client is attached to a session
func (h *Hub) SessionHasWatchers(sessionToken string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionToken]) > 0
}

// WSMessage is an inbound client control message
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for client %s: %v", c.clientID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for client %s: %v", c.clientID, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	select {
	case c.send <- data:
	default:
	}
}

// sendJSON sends an arbitrary message to this client only
func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
