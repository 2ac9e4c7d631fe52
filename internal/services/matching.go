package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"roommate-service/internal/cache"
	"roommate-service/internal/models"
	"roommate-service/internal/observability"
	"roommate-service/internal/repositories"
)

// SwipeResult is the outcome of a swipe. Match is set only when the swipe completed a mutual like.
// MatchCreated is false when a concurrent reverse swipe already stored the match.
type SwipeResult struct {
	Swipe        models.Swipe  `json:"swipe"`
	Match        *models.Match `json:"match,omitempty"`
	MatchCreated bool          `json:"-"`
}

// MatchService records swipes and resolves them into matches.
type MatchService struct {
	profiles repositories.ProfileRepository
	swipes   repositories.SwipeRepository
	matches  repositories.MatchRepository
	cache    cache.PendingLikesCache
	notifier Notifier
}

// NewMatchService constructs a MatchService. A nil cache or notifier disables that side effect.
func NewMatchService(profiles repositories.ProfileRepository, swipes repositories.SwipeRepository, matches repositories.MatchRepository, likesCache cache.PendingLikesCache, notifier Notifier) *MatchService {
	if likesCache == nil {
		likesCache = cache.NoopCache{}
	}
	return &MatchService{
		profiles: profiles,
		swipes:   swipes,
		matches:  matches,
		cache:    likesCache,
		notifier: notifierOrNoop(notifier),
	}
}

// Swipe records userID's decision about targetID and creates a match when the like is mutual.
func (s *MatchService) Swipe(ctx context.Context, userID, targetID string, action models.SwipeAction) (SwipeResult, error) {
	if userID == targetID {
		return SwipeResult{}, repositories.ErrSelfSwipe
	}
	if !action.Valid() {
		return SwipeResult{}, repositories.ErrInvalidAction
	}
	if _, err := s.profiles.GetProfile(ctx, targetID); err != nil {
		return SwipeResult{}, err
	}

	swipe, err := s.swipes.RecordSwipe(ctx, userID, targetID, action)
	if err != nil {
		return SwipeResult{}, err
	}
	observability.IncSwipe(string(action))

	// the swipe can add to target's pending likes and always answers one of userID's
	if err := s.cache.Invalidate(ctx, userID, targetID); err != nil {
		logrus.WithError(err).Warn("pending likes invalidation failed")
	}

	result := SwipeResult{Swipe: swipe}
	if !action.Positive() {
		return result, nil
	}

	reverse, err := s.swipes.FindSwipe(ctx, targetID, userID)
	if errors.Is(err, repositories.ErrSwipeNotFound) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("lookup reverse swipe: %w", err)
	}
	if !reverse.Action.Positive() {
		return result, nil
	}

	match, created, err := s.matches.SaveMutualMatch(ctx, userID, targetID, action, reverse.Action)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "target_id": targetID}).Error("save match failed")
		return result, fmt.Errorf("save match: %w", err)
	}
	result.Match = &match
	result.MatchCreated = created
	if !created {
		return result, nil
	}

	observability.IncMatch(string(match.Status))
	publishDomainEvent(ctx, "matches.created", "match.created", match)
	s.notifier.NotifyMatch(match.User1ID, match)
	s.notifier.NotifyMatch(match.User2ID, match)

	logrus.WithFields(logrus.Fields{"match_id": match.ID, "status": match.Status}).Info("match created")
	return result, nil
}

// GetMatch returns a match visible to userID.
func (s *MatchService) GetMatch(ctx context.Context, userID, matchID string) (models.Match, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return models.Match{}, err
	}
	if !match.HasParticipant(userID) {
		return models.Match{}, ErrNotParticipant
	}
	return match, nil
}

// ListMatches returns userID's mutual matches.
func (s *MatchService) ListMatches(ctx context.Context, userID string) ([]models.Match, error) {
	return s.matches.ListMatches(ctx, userID)
}
