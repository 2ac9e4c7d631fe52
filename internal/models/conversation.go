package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
)

// ParticipantProfile is the display snapshot stored alongside a conversation.
type ParticipantProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ParticipantProfiles is persisted as a jsonb column.
type ParticipantProfiles []ParticipantProfile

// Value implements driver.Valuer.
func (p ParticipantProfiles) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *ParticipantProfiles) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = ParticipantProfiles{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("participant profiles: unsupported column type")
	}
}

// Conversation is the single messaging thread belonging to a match.
type Conversation struct {
	ID                  string              `db:"id" json:"id"`
	MatchID             string              `db:"match_id" json:"match_id"`
	Participants        pq.StringArray      `db:"participants" json:"participants"`
	ParticipantProfiles ParticipantProfiles `db:"participant_profiles" json:"participant_profiles"`
	LastMessage         *string             `db:"last_message" json:"last_message,omitempty"`
	LastMessageAt       *time.Time          `db:"last_message_at" json:"last_message_at,omitempty"`
	CreatedAt           time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time           `db:"updated_at" json:"updated_at"`
}

// HasParticipant reports whether userID takes part in the conversation.
func (c Conversation) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// ReconcileParticipants builds the snapshot list for the given participant ids,
// in participant order. Ids without a known profile keep an empty name.
func ReconcileParticipants(participants []string, profiles []Profile) ParticipantProfiles {
	byID := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	out := make(ParticipantProfiles, 0, len(participants))
	seen := make(map[string]struct{}, len(participants))
	for _, id := range participants {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		snap := ParticipantProfile{ID: id}
		if p, ok := byID[id]; ok {
			snap.Name = p.Name
			snap.AvatarURL = p.AvatarURL
		}
		out = append(out, snap)
	}
	return out
}
