package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"roommate-service/internal/models"
)

// SavedPlaceRepository stores users' bookmarked places.
type SavedPlaceRepository interface {
	SavePlace(ctx context.Context, userID, placeID, note string) (models.SavedPlace, error)
	UnsavePlace(ctx context.Context, userID, placeID string) error
	ListSavedPlaces(ctx context.Context, userID string) ([]models.SavedPlace, error)
}

// SavedPlaceRepo is a sqlx implementation of SavedPlaceRepository.
type SavedPlaceRepo struct {
	db *sqlx.DB
}

// NewSavedPlaceRepo constructs a SavedPlaceRepo.
func NewSavedPlaceRepo(db *sqlx.DB) *SavedPlaceRepo {
	return &SavedPlaceRepo{db: db}
}

// SavePlace bookmarks a place; saving it again only refreshes the note.
func (r *SavedPlaceRepo) SavePlace(ctx context.Context, userID, placeID, note string) (models.SavedPlace, error) {
	var place models.SavedPlace
	err := r.db.GetContext(ctx, &place, `INSERT INTO saved_places (user_id, place_id, note) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, place_id) DO UPDATE SET note = EXCLUDED.note
        RETURNING user_id, place_id, note, created_at`, userID, placeID, note)
	if err != nil {
		return models.SavedPlace{}, missingProfile(err)
	}
	return place, nil
}

// UnsavePlace removes a bookmark.
func (r *SavedPlaceRepo) UnsavePlace(ctx context.Context, userID, placeID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_places WHERE user_id=$1 AND place_id=$2`, userID, placeID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSavedPlaceNotFound
	}
	return nil
}

// ListSavedPlaces returns the user's bookmarks, newest first.
func (r *SavedPlaceRepo) ListSavedPlaces(ctx context.Context, userID string) ([]models.SavedPlace, error) {
	var places []models.SavedPlace
	err := r.db.SelectContext(ctx, &places, `SELECT user_id, place_id, note, created_at FROM saved_places WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	return places, err
}
