package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"directchat/internal/models"
	"directchat/internal/observability"
)

const writeWait = 10 * time.Second

// Hub maintains active websocket rooms keyed by conversation id.
type Hub struct {
	rooms    map[string]map[*websocket.Conn]ConnInfo
	writeMus map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[string]map[*websocket.Conn]ConnInfo),
		writeMus: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// AddClient registers a websocket connection to a conversation room.
func (h *Hub) AddClient(conversationID string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[conversationID]; !ok {
		h.rooms[conversationID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.rooms[conversationID][conn] = info
	h.writeMus[conn] = &sync.Mutex{}
}

// RemoveClient removes a websocket connection.
func (h *Hub) RemoveClient(conversationID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[conversationID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, conversationID)
		}
	}
	delete(h.writeMus, conn)
}

// ClientCount returns the number of connections subscribed to a conversation.
func (h *Hub) ClientCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

// BroadcastMessage sends msg to all clients of its conversation.
func (h *Hub) BroadcastMessage(msg models.MessageView) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(models.ChatEvent{Type: "message", Message: &msg})
	if err != nil {
		log.Printf("websocket encode error: %v", err)
		return
	}

	type target struct {
		conn *websocket.Conn
		info ConnInfo
		mu   *sync.Mutex
	}
	h.mu.RLock()
	targets := make([]target, 0, len(h.rooms[msg.ConversationID]))
	for conn, info := range h.rooms[msg.ConversationID] {
		targets = append(targets, target{conn: conn, info: info, mu: h.writeMus[conn]})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		t.mu.Lock()
		_ = t.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := t.conn.WriteMessage(websocket.TextMessage, payload)
		t.mu.Unlock()
		if err != nil {
			log.Printf("websocket write error conn_id=%s user_id=%s: %v", t.info.ConnID, t.info.UserID, err)
			t.conn.Close()
			h.RemoveClient(msg.ConversationID, t.conn)
			observability.IncWSEvent("ws_error")
			continue
		}
		observability.IncWSEvent("message_sent")
	}
}
