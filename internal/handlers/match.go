package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roommate-service/internal/models"
	"roommate-service/internal/services"
	"roommate-service/internal/telemetry"
)

// MatchHandler serves swipe and match endpoints.
type MatchHandler struct {
	matches *services.MatchService
	audit   *telemetry.AuditEmitter
}

// NewMatchHandler builds a MatchHandler.
func NewMatchHandler(matches *services.MatchService, audit *telemetry.AuditEmitter) *MatchHandler {
	return &MatchHandler{matches: matches, audit: audit}
}

// Swipe records a like, pass or superLike.
func (h *MatchHandler) Swipe(c *gin.Context) {
	var req struct {
		TargetUserID string             `json:"target_user_id" binding:"required"`
		Action       models.SwipeAction `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.matches.Swipe(c.Request.Context(), currentUser(c), req.TargetUserID, req.Action)
	if err != nil {
		respondError(c, err, "failed to record swipe")
		return
	}

	if result.MatchCreated {
		emitAudit(c, h.audit, "INFO", "match created", map[string]any{
			"match_id": result.Match.ID,
			"status":   result.Match.Status,
		})
	}
	c.JSON(http.StatusCreated, result)
}

// ListMatches returns the caller's mutual matches.
func (h *MatchHandler) ListMatches(c *gin.Context) {
	matches, err := h.matches.ListMatches(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to load matches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.matches.GetMatch(c.Request.Context(), currentUser(c), c.Param("match_id"))
	if err != nil {
		respondError(c, err, "failed to load match")
		return
	}
	c.JSON(http.StatusOK, match)
}
