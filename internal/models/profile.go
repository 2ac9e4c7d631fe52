package models

import (
	"time"

	"github.com/lib/pq"
)

// Profile is the roommate-facing projection of a user.
type Profile struct {
	ID               string         `db:"id" json:"id"`
	Name             string         `db:"name" json:"name"`
	Age              *int           `db:"age" json:"age,omitempty"`
	Bio              string         `db:"bio" json:"bio"`
	AvatarURL        string         `db:"avatar_url" json:"avatar_url"`
	Occupation       string         `db:"occupation" json:"occupation"`
	BudgetMin        *int           `db:"budget_min" json:"budget_min,omitempty"`
	BudgetMax        *int           `db:"budget_max" json:"budget_max,omitempty"`
	Location         string         `db:"location" json:"location"`
	MoveInDate       *time.Time     `db:"move_in_date" json:"move_in_date,omitempty"`
	HasPlace         bool           `db:"has_place" json:"has_place"`
	PlaceDescription string         `db:"place_description" json:"place_description"`
	Lifestyle        pq.StringArray `db:"lifestyle" json:"lifestyle"`
	IsPremium        bool           `db:"is_premium" json:"is_premium"`
	PremiumExpiresAt *time.Time     `db:"premium_expires_at" json:"premium_expires_at,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// PremiumActive reports whether the subscription is in force at now.
func (p Profile) PremiumActive(now time.Time) bool {
	if !p.IsPremium {
		return false
	}
	return p.PremiumExpiresAt == nil || p.PremiumExpiresAt.After(now)
}
