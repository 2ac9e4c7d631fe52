package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roommate-service/internal/models"
)

var profileCols = []string{"id", "name", "age", "bio", "avatar_url", "occupation", "budget_min", "budget_max", "location",
	"move_in_date", "has_place", "place_description", "lifestyle", "is_premium", "premium_expires_at", "created_at", "updated_at"}

func profileRow(rows *sqlmock.Rows, id, name string, premium bool) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, name, 27, "", "", "designer", 500, 900, "Lisbon", nil, true, "2BR near the park", "{non-smoker,pets-ok}", premium, nil, now, now)
}

func TestUpsertProfile(t *testing.T) {
	db, mock := newMockDB(t)
	age := 27

	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(profileRow(sqlmock.NewRows(profileCols), "u1", "Al", false))

	p, err := NewProfileRepo(db).UpsertProfile(context.Background(), models.Profile{ID: "u1", Name: "Al", Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "Al", p.Name)
	assert.Equal(t, []string{"non-smoker", "pets-ok"}, []string(p.Lifestyle))
	require.NotNil(t, p.BudgetMax)
	assert.Equal(t, 900, *p.BudgetMax)
}

func TestGetProfileNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM users WHERE id=\\$1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(profileCols))

	_, err := NewProfileRepo(db).GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestListProfilesEmptyInputSkipsQuery(t *testing.T) {
	db, _ := newMockDB(t)
	profiles, err := NewProfileRepo(db).ListProfiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestListCandidates(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows(profileCols)
	profileRow(rows, "u2", "Bea", false)
	profileRow(rows, "u3", "Cy", true)
	mock.ExpectQuery("NOT EXISTS").
		WithArgs("u1", 10).
		WillReturnRows(rows)

	profiles, err := NewProfileRepo(db).ListCandidates(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.True(t, profiles[1].IsPremium)
}

func TestSetPremiumUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("UPDATE users SET is_premium = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewProfileRepo(db).SetPremium(context.Background(), "ghost", nil)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestExpirePremium(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectExec("UPDATE users SET is_premium = FALSE").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewProfileRepo(db).ExpirePremium(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
