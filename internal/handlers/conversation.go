package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roommate-service/internal/services"
	"roommate-service/internal/telemetry"
)

// ConversationHandler serves conversation and messaging endpoints.
type ConversationHandler struct {
	messaging *services.MessagingService
	audit     *telemetry.AuditEmitter
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(messaging *services.MessagingService, audit *telemetry.AuditEmitter) *ConversationHandler {
	return &ConversationHandler{messaging: messaging, audit: audit}
}

type contentRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendToMatch posts a message to a match, creating its conversation on first use.
func (h *ConversationHandler) SendToMatch(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.messaging.SendToMatch(c.Request.Context(), c.Param("match_id"), currentUser(c), req.Content)
	if err != nil {
		respondError(c, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// SendDirect messages a user without a match. Premium only.
func (h *ConversationHandler) SendDirect(c *gin.Context) {
	var req struct {
		RecipientID string `json:"recipient_id" binding:"required"`
		Content     string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.messaging.SendDirect(c.Request.Context(), currentUser(c), req.RecipientID, req.Content)
	if err != nil {
		if statusForError(err) == http.StatusForbidden {
			emitAudit(c, h.audit, "WARN", "direct message denied", map[string]any{"recipient_id": req.RecipientID})
		}
		respondError(c, err, "failed to send message")
		return
	}

	emitAudit(c, h.audit, "INFO", "direct message sent", map[string]any{
		"recipient_id":    req.RecipientID,
		"conversation_id": result.Conversation.ID,
	})
	c.JSON(http.StatusCreated, result)
}

// ListConversations returns the caller's conversations.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	convs, err := h.messaging.ListConversations(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to load conversations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// ListMessages pages a conversation newest-first. before is RFC 3339.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid before"})
			return
		}
		before = &t
	}

	msgs, err := h.messaging.ListMessages(c.Request.Context(), c.Param("conversation_id"), currentUser(c), before, limit)
	if err != nil {
		respondError(c, err, "failed to load messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *ConversationHandler) PostMessage(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.messaging.SendToConversation(c.Request.Context(), c.Param("conversation_id"), currentUser(c), req.Content)
	if err != nil {
		respondError(c, err, "failed to send message")
		return
	}
	c.JSON(http.StatusCreated, result.Message)
}
