package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roommate-service/internal/middleware"
	"roommate-service/internal/observability"
	"roommate-service/internal/telemetry"
)

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	if id := observability.RequestIDFromContext(c.Request.Context()); id != "" {
		return id
	}

	requestID := c.GetHeader(middleware.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) *string {
	if userID := c.GetString(middleware.UserIDKey); userID != "" {
		return &userID
	}
	return nil
}

func currentUser(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func emitAudit(c *gin.Context, audit *telemetry.AuditEmitter, level, text string, fields map[string]any) {
	if audit == nil {
		return
	}
	audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c), fields)
}
