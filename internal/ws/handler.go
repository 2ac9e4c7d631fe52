package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"roommate-service/internal/auth"
	"roommate-service/internal/observability"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// ParticipantChecker reports conversation membership.
type ParticipantChecker interface {
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
}

// WebSocketHandler upgrades authenticated connections into hub rooms.
type WebSocketHandler struct {
	hub      *Hub
	convs    ParticipantChecker
	verifier TokenVerifier
}

// NewWebSocketHandler constructs a WebSocketHandler.
func NewWebSocketHandler(hub *Hub, convs ParticipantChecker, verifier TokenVerifier) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, convs: convs, verifier: verifier}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleConversation streams new messages of one conversation.
func (h *WebSocketHandler) HandleConversation(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	ctx, span := otel.Tracer("roommate-service/ws").Start(c.Request.Context(), "ws.handshake.conversation")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	member, err := h.convs.IsParticipant(ctx, conversationID, userID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for conversation"})
		return
	}

	h.serve(c, kindConversation, conversationID, userID,
		func(conn *websocket.Conn, info ConnInfo) { h.hub.AddConversationClient(conversationID, conn, info) },
		func(conn *websocket.Conn) { h.hub.RemoveConversationClient(conversationID, conn) })
}

// HandleUser streams match and message notifications for the caller.
func (h *WebSocketHandler) HandleUser(c *gin.Context) {
	ctx, span := otel.Tracer("roommate-service/ws").Start(c.Request.Context(), "ws.handshake.user")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	h.serve(c, kindUser, userID, userID,
		func(conn *websocket.Conn, info ConnInfo) { h.hub.AddUserClient(userID, conn, info) },
		func(conn *websocket.Conn) { h.hub.RemoveUserClient(userID, conn) })
}

func (h *WebSocketHandler) authenticate(c *gin.Context) (string, bool) {
	var token string
	if header := c.GetHeader("Authorization"); header != "" {
		t, err := auth.BearerToken(header)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return "", false
		}
		token = t
	} else {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return "", false
	}

	userID, err := h.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return "", false
	}
	return userID, true
}

func (h *WebSocketHandler) serve(c *gin.Context, kind, resourceID, userID string, register func(*websocket.Conn, ConnInfo), unregister func(*websocket.Conn)) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	identity := observability.IdentityFromRequest(c.Request)
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    identity.DeviceID,
		IP:          identity.IP,
		RequestID:   requestID,
		TraceID:     observability.TraceIDFromContext(c.Request.Context()),
		ConnectedAt: time.Now(),
	}
	register(conn, info)

	// detached from the request, which ends once the handler returns
	ctx := observability.WithRequestID(context.Background(), requestID)
	routingKey := wsRoutingKey(kind)
	publish := func(event, reason string) {
		observability.IncWSEvent(kind, event)
		_ = observability.PublishEvent(ctx, routingKey, observability.EventEnvelope{
			EventType: "ws_events",
			EventName: event,
			Payload:   info.payload(kind, resourceID, event, reason),
		})
	}

	observability.IncWSActive(kind)
	publish("ws_connect", "")
	logrus.WithFields(logrus.Fields{"kind": kind, "resource_id": resourceID, "user_id": userID, "conn_id": info.ConnID}).Debug("websocket connected")

	go func() {
		var closeReason string
		defer func() {
			unregister(conn)
			observability.DecWSActive(kind)
			publish("ws_disconnect", closeReason)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					publish("ws_error", closeReason)
				}
				return
			}
		}
	}()
}
