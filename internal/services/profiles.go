package services

import (
	"context"
	"strings"

	"roommate-service/internal/models"
	"roommate-service/internal/repositories"
)

const (
	defaultCandidateLimit = 20
	maxCandidateLimit     = 100
)

// ProfileService wraps profile and saved place storage with input normalisation.
type ProfileService struct {
	profiles repositories.ProfileRepository
	places   repositories.SavedPlaceRepository
}

// NewProfileService constructs a ProfileService.
func NewProfileService(profiles repositories.ProfileRepository, places repositories.SavedPlaceRepository) *ProfileService {
	return &ProfileService{profiles: profiles, places: places}
}

// UpsertProfile stores the caller's profile. Premium fields are never taken from the caller.
func (s *ProfileService) UpsertProfile(ctx context.Context, userID string, p models.Profile) (models.Profile, error) {
	p.ID = userID
	p.Name = strings.TrimSpace(p.Name)
	p.IsPremium = false
	p.PremiumExpiresAt = nil
	p.Lifestyle = normaliseTags(p.Lifestyle)
	return s.profiles.UpsertProfile(ctx, p)
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// Candidates returns profiles userID has not swiped on yet.
func (s *ProfileService) Candidates(ctx context.Context, userID string, limit int) ([]models.Profile, error) {
	switch {
	case limit <= 0:
		limit = defaultCandidateLimit
	case limit > maxCandidateLimit:
		limit = maxCandidateLimit
	}
	return s.profiles.ListCandidates(ctx, userID, limit)
}

func (s *ProfileService) SavePlace(ctx context.Context, userID, placeID, note string) (models.SavedPlace, error) {
	return s.places.SavePlace(ctx, userID, strings.TrimSpace(placeID), strings.TrimSpace(note))
}

func (s *ProfileService) UnsavePlace(ctx context.Context, userID, placeID string) error {
	return s.places.UnsavePlace(ctx, userID, placeID)
}

func (s *ProfileService) ListSavedPlaces(ctx context.Context, userID string) ([]models.SavedPlace, error) {
	return s.places.ListSavedPlaces(ctx, userID)
}

func normaliseTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
