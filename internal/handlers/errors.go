package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"roommate-service/internal/repositories"
	"roommate-service/internal/services"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{repositories.ErrProfileNotFound, http.StatusNotFound},
	{repositories.ErrMatchNotFound, http.StatusNotFound},
	{repositories.ErrConversationNotFound, http.StatusNotFound},
	{repositories.ErrSavedPlaceNotFound, http.StatusNotFound},
	{repositories.ErrAlreadySwiped, http.StatusConflict},
	{repositories.ErrSelfSwipe, http.StatusBadRequest},
	{repositories.ErrSelfMatch, http.StatusBadRequest},
	{repositories.ErrInvalidAction, http.StatusBadRequest},
	{services.ErrEmptyMessage, http.StatusBadRequest},
	{services.ErrNotParticipant, http.StatusForbidden},
	{services.ErrPremiumRequired, http.StatusForbidden},
	{services.ErrInvalidExpiry, http.StatusBadRequest},
}

func statusForError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Internal errors are logged and hidden behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": requestIDFromContext(c),
		}).Error(fallback)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
