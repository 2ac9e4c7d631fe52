package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"roommate-service/internal/cache"
	"roommate-service/internal/models"
	"roommate-service/internal/observability"
	"roommate-service/internal/repositories"
)

const (
	FeatureWhoLikedYou         = "who_liked_you"
	FeatureMessageWithoutMatch = "message_without_match"
)

var premiumFeatures = map[string]struct{}{
	FeatureWhoLikedYou:         {},
	FeatureMessageWithoutMatch: {},
}

// PremiumService gates premium features and serves the pending likes views.
type PremiumService struct {
	profiles repositories.ProfileRepository
	swipes   repositories.SwipeRepository
	cache    cache.PendingLikesCache
	now      func() time.Time
}

// NewPremiumService constructs a PremiumService.
func NewPremiumService(profiles repositories.ProfileRepository, swipes repositories.SwipeRepository, likesCache cache.PendingLikesCache) *PremiumService {
	if likesCache == nil {
		likesCache = cache.NoopCache{}
	}
	return &PremiumService{profiles: profiles, swipes: swipes, cache: likesCache, now: time.Now}
}

// IsKnownFeature reports whether feature names a premium feature.
func IsKnownFeature(feature string) bool {
	_, ok := premiumFeatures[feature]
	return ok
}

// CanViewPremiumFeature reports whether userID currently has access to feature.
// Unknown users and unknown features are denied without error.
func (s *PremiumService) CanViewPremiumFeature(ctx context.Context, userID, feature string) (bool, error) {
	if !IsKnownFeature(feature) {
		return false, nil
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.PremiumActive(s.now()), nil
}

// PendingLikesCount returns how many users are waiting on userID. Everyone may see the count.
func (s *PremiumService) PendingLikesCount(ctx context.Context, userID string) (int, error) {
	return s.cache.Load(ctx, userID, func(ctx context.Context) (int, error) {
		return s.swipes.CountPendingLikes(ctx, userID)
	})
}

// PendingLikes lists who liked userID. Requires the who_liked_you feature.
func (s *PremiumService) PendingLikes(ctx context.Context, userID string) ([]models.PendingLike, error) {
	allowed, err := s.CanViewPremiumFeature(ctx, userID, FeatureWhoLikedYou)
	if err != nil {
		return nil, err
	}
	if !allowed {
		observability.IncPremiumDenied(FeatureWhoLikedYou)
		return nil, ErrPremiumRequired
	}
	return s.swipes.ListPendingLikes(ctx, userID)
}

// GrantPremium marks userID premium until expiresAt. A nil expiresAt never lapses.
func (s *PremiumService) GrantPremium(ctx context.Context, userID string, expiresAt *time.Time) error {
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return ErrInvalidExpiry
	}
	if err := s.profiles.SetPremium(ctx, userID, expiresAt); err != nil {
		return err
	}
	logrus.WithField("user_id", userID).Info("premium granted")
	return nil
}

// ExpireSubscriptions clears premium flags whose expiry has passed.
func (s *PremiumService) ExpireSubscriptions(ctx context.Context) (int64, error) {
	n, err := s.profiles.ExpirePremium(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logrus.WithField("expired", n).Info("premium subscriptions expired")
	}
	return n, nil
}
