package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roommate-service/internal/services"
	"roommate-service/internal/telemetry"
)

// PremiumHandler serves pending likes and feature checks.
type PremiumHandler struct {
	premium *services.PremiumService
	audit   *telemetry.AuditEmitter
}

// NewPremiumHandler builds a PremiumHandler.
func NewPremiumHandler(premium *services.PremiumService, audit *telemetry.AuditEmitter) *PremiumHandler {
	return &PremiumHandler{premium: premium, audit: audit}
}

func (h *PremiumHandler) PendingLikesCount(c *gin.Context) {
	count, err := h.premium.PendingLikesCount(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err, "failed to count pending likes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// PendingLikes lists who liked the caller. Premium only.
func (h *PremiumHandler) PendingLikes(c *gin.Context) {
	likes, err := h.premium.PendingLikes(c.Request.Context(), currentUser(c))
	if err != nil {
		if statusForError(err) == http.StatusForbidden {
			emitAudit(c, h.audit, "WARN", "premium feature denied", map[string]any{"feature": services.FeatureWhoLikedYou})
		}
		respondError(c, err, "failed to load pending likes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// Feature reports whether the caller can use a premium feature.
func (h *PremiumHandler) Feature(c *gin.Context) {
	feature := c.Param("feature")
	if !services.IsKnownFeature(feature) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown feature"})
		return
	}

	allowed, err := h.premium.CanViewPremiumFeature(c.Request.Context(), currentUser(c), feature)
	if err != nil {
		respondError(c, err, "failed to check feature")
		return
	}
	c.JSON(http.StatusOK, gin.H{"feature": feature, "allowed": allowed})
}

type grantSubscriptionRequest struct {
	UserID    string     `json:"user_id" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// GrantSubscription turns premium on for a user. Omitting expires_at grants it indefinitely.
// Mounted behind middleware.AdminToken for the billing system.
func (h *PremiumHandler) GrantSubscription(c *gin.Context) {
	var req grantSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.premium.GrantPremium(c.Request.Context(), req.UserID, req.ExpiresAt); err != nil {
		respondError(c, err, "failed to grant premium")
		return
	}
	emitAudit(c, h.audit, "INFO", "premium granted", map[string]any{
		"user_id":    req.UserID,
		"expires_at": req.ExpiresAt,
	})
	c.JSON(http.StatusOK, gin.H{"user_id": req.UserID, "is_premium": true, "premium_expires_at": req.ExpiresAt})
}
