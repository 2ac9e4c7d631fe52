package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileParticipants(t *testing.T) {
	profiles := []Profile{
		{ID: "u2", Name: "Bea", AvatarURL: "https://cdn/bea.png"},
		{ID: "u1", Name: "Al"},
	}

	got := ReconcileParticipants([]string{"u1", "u2", "u1", "", "u3"}, profiles)

	require.Len(t, got, 3)
	assert.Equal(t, ParticipantProfile{ID: "u1", Name: "Al"}, got[0])
	assert.Equal(t, ParticipantProfile{ID: "u2", Name: "Bea", AvatarURL: "https://cdn/bea.png"}, got[1])
	assert.Equal(t, ParticipantProfile{ID: "u3"}, got[2])
}

func TestParticipantProfilesScan(t *testing.T) {
	var p ParticipantProfiles
	require.NoError(t, p.Scan([]byte(`[{"id":"u1","name":"Al"}]`)))
	assert.Equal(t, ParticipantProfiles{{ID: "u1", Name: "Al"}}, p)

	require.NoError(t, p.Scan(nil))
	assert.Empty(t, p)

	assert.Error(t, p.Scan(42))
}

func TestParticipantProfilesValueNil(t *testing.T) {
	var p ParticipantProfiles
	v, err := p.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestConversationHasParticipant(t *testing.T) {
	c := Conversation{Participants: []string{"u1", "u2"}}
	assert.True(t, c.HasParticipant("u2"))
	assert.False(t, c.HasParticipant("u9"))
}

func TestPremiumActive(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, Profile{}.PremiumActive(now))
	assert.True(t, Profile{IsPremium: true}.PremiumActive(now))
	assert.True(t, Profile{IsPremium: true, PremiumExpiresAt: &future}.PremiumActive(now))
	assert.False(t, Profile{IsPremium: true, PremiumExpiresAt: &past}.PremiumActive(now))
}
