package models

import "time"

// SwipeAction is a user's decision about another profile.
type SwipeAction string

const (
	ActionLike      SwipeAction = "like"
	ActionPass      SwipeAction = "pass"
	ActionSuperLike SwipeAction = "superLike"
)

// Valid reports whether the action is one of the known swipe actions.
func (a SwipeAction) Valid() bool {
	switch a {
	case ActionLike, ActionPass, ActionSuperLike:
		return true
	}
	return false
}

// Positive reports whether the action expresses interest.
func (a SwipeAction) Positive() bool {
	return a == ActionLike || a == ActionSuperLike
}

// Swipe is an immutable row of the swipe log.
type Swipe struct {
	ID           string      `db:"id" json:"id"`
	UserID       string      `db:"user_id" json:"user_id"`
	TargetUserID string      `db:"target_user_id" json:"target_user_id"`
	Action       SwipeAction `db:"action" json:"action"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// PendingLike is a like received from a user the recipient has not swiped on yet.
type PendingLike struct {
	UserID    string      `db:"user_id" json:"user_id"`
	Action    SwipeAction `db:"action" json:"action"`
	Name      string      `db:"name" json:"name"`
	AvatarURL string      `db:"avatar_url" json:"avatar_url"`
	LikedAt   time.Time   `db:"created_at" json:"liked_at"`
}
