package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"roommate-service/internal/models"
	"roommate-service/internal/observability"
)

const (
	kindConversation = "conversation"
	kindUser         = "user"

	writeWait = 10 * time.Second
)

type client struct {
	conn *websocket.Conn
	info ConnInfo
	mu   sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

type room map[*websocket.Conn]*client

// Hub maintains active websocket rooms: one per conversation and one per user.
type Hub struct {
	conversationRooms map[string]room
	userRooms         map[string]room
	mu                sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conversationRooms: make(map[string]room),
		userRooms:         make(map[string]room),
	}
}

func (h *Hub) rooms(kind string) map[string]room {
	if kind == kindUser {
		return h.userRooms
	}
	return h.conversationRooms
}

func (h *Hub) add(kind, id string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rooms := h.rooms(kind)
	if _, ok := rooms[id]; !ok {
		rooms[id] = make(room)
	}
	rooms[id][conn] = &client{conn: conn, info: info}
}

func (h *Hub) remove(kind, id string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	rooms := h.rooms(kind)
	if clients, ok := rooms[id]; ok {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(rooms, id)
		}
	}
}

func (h *Hub) snapshot(kind, id string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := h.rooms(kind)[id]
	out := make([]*client, 0, len(clients))
	for _, c := range clients {
		out = append(out, c)
	}
	return out
}

func (h *Hub) broadcast(kind, id string, event any) {
	clients := h.snapshot(kind, id)
	if len(clients) == 0 {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("websocket marshal failed")
		return
	}
	for _, c := range clients {
		if err := c.write(payload); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{"kind": kind, "resource_id": id}).Warn("websocket write error")
			c.conn.Close()
			h.remove(kind, id, c.conn)
			h.publishWSError(kind, id, c.info, err)
		}
	}
}

// AddConversationClient registers a websocket connection to a conversation room.
func (h *Hub) AddConversationClient(conversationID string, conn *websocket.Conn, info ConnInfo) {
	h.add(kindConversation, conversationID, conn, info)
}

// RemoveConversationClient removes a conversation websocket connection.
func (h *Hub) RemoveConversationClient(conversationID string, conn *websocket.Conn) {
	h.remove(kindConversation, conversationID, conn)
}

// AddUserClient registers a websocket connection to the user's notification room.
func (h *Hub) AddUserClient(userID string, conn *websocket.Conn, info ConnInfo) {
	h.add(kindUser, userID, conn, info)
}

// RemoveUserClient removes a notification websocket connection.
func (h *Hub) RemoveUserClient(userID string, conn *websocket.Conn) {
	h.remove(kindUser, userID, conn)
}

// BroadcastConversationMessage sends a new message to everyone in the conversation room.
func (h *Hub) BroadcastConversationMessage(conversationID string, msg models.Message) {
	h.broadcast(kindConversation, conversationID, models.ConversationEvent{Type: "message", Message: &msg})
}

// NotifyMatch pushes a match event to the user's notification room.
func (h *Hub) NotifyMatch(userID string, match models.Match) {
	h.broadcast(kindUser, userID, models.MatchEvent{Type: "match", Match: &match})
}

// NotifyMessage tells a user about a message outside of an open conversation room.
func (h *Hub) NotifyMessage(userID string, msg models.Message) {
	h.broadcast(kindUser, userID, models.ConversationEvent{Type: "message", Message: &msg})
}

func (h *Hub) publishWSError(kind, resourceID string, info ConnInfo, err error) {
	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	ctx := observability.WithRequestID(context.Background(), headers["x-request-id"])
	_ = observability.PublishEvent(ctx, wsRoutingKey(kind), observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   info.payload(kind, resourceID, "ws_error", err.Error()),
	})
	observability.IncWSEvent(kind, "ws_error")
}

func wsRoutingKey(kind string) string {
	if kind == kindUser {
		return "ws_events.users"
	}
	return "ws_events.conversations"
}
