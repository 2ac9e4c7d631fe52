package models

import "time"

// MatchStatus describes how a match came about.
type MatchStatus string

const (
	MatchPending      MatchStatus = "pending"
	MatchMatched      MatchStatus = "matched"
	MatchSuperMatched MatchStatus = "superMatched"
	MatchMixedMatched MatchStatus = "mixedMatched"
)

// Match links two users. User1ID always sorts before User2ID.
type Match struct {
	ID             string       `db:"id" json:"id"`
	User1ID        string       `db:"user1_id" json:"user1_id"`
	User2ID        string       `db:"user2_id" json:"user2_id"`
	User1Action    *SwipeAction `db:"user1_action" json:"user1_action,omitempty"`
	User2Action    *SwipeAction `db:"user2_action" json:"user2_action,omitempty"`
	Status         MatchStatus  `db:"status" json:"status"`
	ConversationID *string      `db:"conversation_id" json:"conversation_id,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// DeriveMatchStatus computes the status of a match from both users' actions.
// A missing or non-positive action on either side leaves the match pending.
func DeriveMatchStatus(a, b *SwipeAction) MatchStatus {
	if a == nil || b == nil || !a.Positive() || !b.Positive() {
		return MatchPending
	}
	switch {
	case *a == ActionSuperLike && *b == ActionSuperLike:
		return MatchSuperMatched
	case *a == ActionSuperLike || *b == ActionSuperLike:
		return MatchMixedMatched
	default:
		return MatchMatched
	}
}

// HasParticipant reports whether userID is one of the two matched users.
func (m Match) HasParticipant(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherUser returns the participant that is not userID.
func (m Match) OtherUser(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// OrderPair returns the two ids in storage order.
func OrderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// MatchEvent is pushed to users' notification rooms.
type MatchEvent struct {
	Type  string `json:"type"`
	Match *Match `json:"match"`
}
