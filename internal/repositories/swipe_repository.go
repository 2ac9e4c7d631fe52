package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"roommate-service/internal/models"
)

// SwipeRepository is the append-only swipe log.
type SwipeRepository interface {
	RecordSwipe(ctx context.Context, userID, targetID string, action models.SwipeAction) (models.Swipe, error)
	FindSwipe(ctx context.Context, userID, targetID string) (models.Swipe, error)
	ListPendingLikes(ctx context.Context, userID string) ([]models.PendingLike, error)
	CountPendingLikes(ctx context.Context, userID string) (int, error)
}

// SwipeRepo is a sqlx implementation of SwipeRepository.
type SwipeRepo struct {
	db *sqlx.DB
}

// NewSwipeRepo constructs a SwipeRepo.
func NewSwipeRepo(db *sqlx.DB) *SwipeRepo {
	return &SwipeRepo{db: db}
}

// RecordSwipe appends a swipe. A second swipe on the same target is rejected.
func (r *SwipeRepo) RecordSwipe(ctx context.Context, userID, targetID string, action models.SwipeAction) (models.Swipe, error) {
	if userID == targetID {
		return models.Swipe{}, ErrSelfSwipe
	}
	if !action.Valid() {
		return models.Swipe{}, ErrInvalidAction
	}

	var swipe models.Swipe
	err := r.db.GetContext(ctx, &swipe, `INSERT INTO swipes (id, user_id, target_user_id, action) VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, target_user_id) DO NOTHING
        RETURNING id, user_id, target_user_id, action, created_at`, uuid.NewString(), userID, targetID, action)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Swipe{}, ErrAlreadySwiped
	}
	if err != nil {
		return models.Swipe{}, missingProfile(err)
	}
	return swipe, nil
}

// FindSwipe returns the swipe userID made on targetID.
func (r *SwipeRepo) FindSwipe(ctx context.Context, userID, targetID string) (models.Swipe, error) {
	var swipe models.Swipe
	err := r.db.GetContext(ctx, &swipe, `SELECT id, user_id, target_user_id, action, created_at FROM swipes WHERE user_id=$1 AND target_user_id=$2`, userID, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Swipe{}, ErrSwipeNotFound
	}
	return swipe, err
}

const pendingLikesFilter = `s.target_user_id=$1
        AND s.action IN ('like', 'superLike')
        AND NOT EXISTS (SELECT 1 FROM swipes r WHERE r.user_id=$1 AND r.target_user_id=s.user_id)`

// ListPendingLikes returns users who liked userID and are still waiting for an answer.
func (r *SwipeRepo) ListPendingLikes(ctx context.Context, userID string) ([]models.PendingLike, error) {
	var likes []models.PendingLike
	err := r.db.SelectContext(ctx, &likes, `SELECT s.user_id, s.action, u.name, u.avatar_url, s.created_at
        FROM swipes s INNER JOIN users u ON u.id = s.user_id
        WHERE `+pendingLikesFilter+`
        ORDER BY s.created_at DESC`, userID)
	return likes, err
}

// CountPendingLikes counts the rows ListPendingLikes would return.
func (r *SwipeRepo) CountPendingLikes(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM swipes s WHERE `+pendingLikesFilter, userID)
	return count, err
}
