package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"roommate-service/internal/models"
)

const profileColumns = `id, name, age, bio, avatar_url, occupation, budget_min, budget_max, location,
        move_in_date, has_place, place_description, lifestyle, is_premium, premium_expires_at, created_at, updated_at`

// ProfileRepository abstracts roommate profile persistence.
type ProfileRepository interface {
	UpsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error)
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	ListProfiles(ctx context.Context, userIDs []string) ([]models.Profile, error)
	ListCandidates(ctx context.Context, userID string, limit int) ([]models.Profile, error)
	SetPremium(ctx context.Context, userID string, expiresAt *time.Time) error
	ExpirePremium(ctx context.Context, now time.Time) (int64, error)
}

// ProfileRepo is a sqlx implementation of ProfileRepository.
type ProfileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo constructs a ProfileRepo.
func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// UpsertProfile creates the user's row or updates its editable fields.
// Subscription columns are never written here.
func (r *ProfileRepo) UpsertProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	if p.Lifestyle == nil {
		p.Lifestyle = pq.StringArray{}
	}
	var out models.Profile
	err := r.db.GetContext(ctx, &out, `INSERT INTO users (id, name, age, bio, avatar_url, occupation, budget_min, budget_max,
            location, move_in_date, has_place, place_description, lifestyle)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name, age = EXCLUDED.age, bio = EXCLUDED.bio, avatar_url = EXCLUDED.avatar_url,
            occupation = EXCLUDED.occupation, budget_min = EXCLUDED.budget_min, budget_max = EXCLUDED.budget_max,
            location = EXCLUDED.location, move_in_date = EXCLUDED.move_in_date, has_place = EXCLUDED.has_place,
            place_description = EXCLUDED.place_description, lifestyle = EXCLUDED.lifestyle, updated_at = NOW()
        RETURNING `+profileColumns,
		p.ID, p.Name, p.Age, p.Bio, p.AvatarURL, p.Occupation, p.BudgetMin, p.BudgetMax,
		p.Location, p.MoveInDate, p.HasPlace, p.PlaceDescription, p.Lifestyle)
	return out, err
}

// GetProfile fetches a single profile.
func (r *ProfileRepo) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	return p, err
}

// ListProfiles fetches the profiles for the given ids. Unknown ids are skipped.
func (r *ProfileRepo) ListProfiles(ctx context.Context, userIDs []string) ([]models.Profile, error) {
	if len(userIDs) == 0 {
		return []models.Profile{}, nil
	}
	var profiles []models.Profile
	err := r.db.SelectContext(ctx, &profiles, `SELECT `+profileColumns+` FROM users WHERE id = ANY($1)`, pq.Array(userIDs))
	return profiles, err
}

// ListCandidates returns profiles the user has not swiped on yet, newest first.
func (r *ProfileRepo) ListCandidates(ctx context.Context, userID string, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.SelectContext(ctx, &profiles, `SELECT `+profileColumns+` FROM users u
        WHERE u.id <> $1
        AND NOT EXISTS (SELECT 1 FROM swipes s WHERE s.user_id=$1 AND s.target_user_id=u.id)
        ORDER BY u.created_at DESC
        LIMIT $2`, userID, limit)
	return profiles, err
}

// SetPremium turns the subscription on until expiresAt (nil means no expiry).
func (r *ProfileRepo) SetPremium(ctx context.Context, userID string, expiresAt *time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_premium = TRUE, premium_expires_at = $2, updated_at = NOW() WHERE id=$1`, userID, expiresAt)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ExpirePremium clears subscriptions that ended before now.
func (r *ProfileRepo) ExpirePremium(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_premium = FALSE, updated_at = NOW()
        WHERE is_premium = TRUE AND premium_expires_at IS NOT NULL AND premium_expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
