package models

import "time"

// SavedPlace is a listing bookmarked by a user.
type SavedPlace struct {
	UserID    string    `db:"user_id" json:"user_id"`
	PlaceID   string    `db:"place_id" json:"place_id"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
