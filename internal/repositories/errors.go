package repositories

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrSwipeNotFound        = errors.New("swipe not found")
	ErrAlreadySwiped        = errors.New("already swiped on this user")
	ErrSelfSwipe            = errors.New("cannot swipe on yourself")
	ErrInvalidAction        = errors.New("invalid swipe action")
	ErrMatchNotFound        = errors.New("match not found")
	ErrSelfMatch            = errors.New("cannot match with yourself")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSavedPlaceNotFound   = errors.New("saved place not found")
)

const foreignKeyViolation pq.ErrorCode = "23503"

// missingProfile maps a users(id) foreign key violation to ErrProfileNotFound.
// Callers that authenticated but never created a profile land here.
func missingProfile(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return ErrProfileNotFound
	}
	return err
}
