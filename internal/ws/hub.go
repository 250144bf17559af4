package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client represents a connected WebSocket client watching one session.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session string
}

// Hub manages WebSocket clients grouped by session.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Client]bool
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		sessions: make(map[string]map[*Client]bool),
		logger:   logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.sessions[c.session]
	if !ok {
		clients = make(map[*Client]bool)
		h.sessions[c.session] = clients
	}
	clients[c] = true
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.sessions[c.session]
	if !ok {
		return
	}
	if _, ok := clients[c]; ok {
		delete(clients, c)
		close(c.send)
	}
	if len(clients) == 0 {
		delete(h.sessions, c.session)
	}
}

// BroadcastSession sends a message to every client watching the session.
func (h *Hub) BroadcastSession(sessionID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.sessions[sessionID] {
		h.deliver(c, msg)
	}
}

func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Client buffer full, skip
		h.logger.Warn("client buffer full, dropping message", zap.String("session_id", c.session))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.sessions {
		n += len(clients)
	}
	return n
}

// SessionClientCount returns the number of clients watching a session.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
