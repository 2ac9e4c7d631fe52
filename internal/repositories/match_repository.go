package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"roommate-service/internal/models"
)

const matchColumns = `id, user1_id, user2_id, user1_action, user2_action, status, conversation_id, created_at, updated_at`

// MatchRepository abstracts match persistence. There is at most one match per pair of users.
type MatchRepository interface {
	SaveMutualMatch(ctx context.Context, userID, otherID string, userAction, otherAction models.SwipeAction) (models.Match, bool, error)
	CreateOrGetPending(ctx context.Context, userID, otherID string) (models.Match, error)
	GetMatch(ctx context.Context, matchID string) (models.Match, error)
	FindByUsers(ctx context.Context, userID, otherID string) (models.Match, error)
	ListMatches(ctx context.Context, userID string) ([]models.Match, error)
}

// MatchRepo is a sqlx implementation of MatchRepository.
type MatchRepo struct {
	db *sqlx.DB
}

// NewMatchRepo constructs a MatchRepo.
func NewMatchRepo(db *sqlx.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// SaveMutualMatch stores the match for two positive swipes, upgrading an existing pending row.
// The bool is false when the pair was already matched, e.g. by a concurrent reverse swipe.
func (r *MatchRepo) SaveMutualMatch(ctx context.Context, userID, otherID string, userAction, otherAction models.SwipeAction) (models.Match, bool, error) {
	if userID == otherID {
		return models.Match{}, false, ErrSelfMatch
	}
	user1, user2 := models.OrderPair(userID, otherID)
	action1, action2 := userAction, otherAction
	if user1 != userID {
		action1, action2 = otherAction, userAction
	}
	status := models.DeriveMatchStatus(&action1, &action2)

	var match models.Match
	err := r.db.GetContext(ctx, &match, `INSERT INTO matches (id, user1_id, user2_id, user1_action, user2_action, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user1_id, user2_id) DO UPDATE SET
            user1_action = EXCLUDED.user1_action, user2_action = EXCLUDED.user2_action,
            status = EXCLUDED.status, updated_at = NOW()
        WHERE matches.status = $7
        RETURNING `+matchColumns, uuid.NewString(), user1, user2, action1, action2, status, models.MatchPending)
	if errors.Is(err, sql.ErrNoRows) {
		match, err = r.FindByUsers(ctx, userID, otherID)
		return match, false, err
	}
	if err != nil {
		return models.Match{}, false, missingProfile(err)
	}
	return match, true, nil
}

// CreateOrGetPending returns the pair's match, creating a pending one when none exists.
func (r *MatchRepo) CreateOrGetPending(ctx context.Context, userID, otherID string) (models.Match, error) {
	if userID == otherID {
		return models.Match{}, ErrSelfMatch
	}
	match, err := r.FindByUsers(ctx, userID, otherID)
	if err == nil || !errors.Is(err, ErrMatchNotFound) {
		return match, err
	}

	user1, user2 := models.OrderPair(userID, otherID)
	err = r.db.GetContext(ctx, &match, `INSERT INTO matches (id, user1_id, user2_id, status) VALUES ($1, $2, $3, $4)
        ON CONFLICT (user1_id, user2_id) DO NOTHING
        RETURNING `+matchColumns, uuid.NewString(), user1, user2, models.MatchPending)
	if errors.Is(err, sql.ErrNoRows) {
		// lost the race to a concurrent insert
		return r.FindByUsers(ctx, userID, otherID)
	}
	if err != nil {
		return models.Match{}, missingProfile(err)
	}
	return match, nil
}

// GetMatch fetches a match by id.
func (r *MatchRepo) GetMatch(ctx context.Context, matchID string) (models.Match, error) {
	var match models.Match
	err := r.db.GetContext(ctx, &match, `SELECT `+matchColumns+` FROM matches WHERE id=$1`, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Match{}, ErrMatchNotFound
	}
	return match, err
}

// FindByUsers fetches the match between two users in either order.
func (r *MatchRepo) FindByUsers(ctx context.Context, userID, otherID string) (models.Match, error) {
	user1, user2 := models.OrderPair(userID, otherID)
	var match models.Match
	err := r.db.GetContext(ctx, &match, `SELECT `+matchColumns+` FROM matches WHERE user1_id=$1 AND user2_id=$2`, user1, user2)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Match{}, ErrMatchNotFound
	}
	return match, err
}

// ListMatches returns the user's mutual matches, most recent first.
func (r *MatchRepo) ListMatches(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.SelectContext(ctx, &matches, `SELECT `+matchColumns+` FROM matches
        WHERE (user1_id=$1 OR user2_id=$1) AND status <> $2
        ORDER BY updated_at DESC`, userID, models.MatchPending)
	return matches, err
}
