package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roommate-service/internal/models"
)

var matchCols = []string{"id", "user1_id", "user2_id", "user1_action", "user2_action", "status", "conversation_id", "created_at", "updated_at"}

func TestSaveMutualMatchOrdersPair(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepo(db)
	now := time.Now()

	// "b" swiped superLike on "a", who had liked "b": stored as user1="a".
	mock.ExpectQuery("INSERT INTO matches").
		WithArgs(sqlmock.AnyArg(), "a", "b", "like", "superLike", "mixedMatched", "pending").
		WillReturnRows(sqlmock.NewRows(matchCols).AddRow("m1", "a", "b", "like", "superLike", "mixedMatched", nil, now, now))

	match, created, err := repo.SaveMutualMatch(context.Background(), "b", "a", models.ActionSuperLike, models.ActionLike)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.MatchMixedMatched, match.Status)
	require.NotNil(t, match.User1Action)
	assert.Equal(t, models.ActionLike, *match.User1Action)
	assert.Nil(t, match.ConversationID)
}

func TestSaveMutualMatchSelf(t *testing.T) {
	db, _ := newMockDB(t)
	_, _, err := NewMatchRepo(db).SaveMutualMatch(context.Background(), "a", "a", models.ActionLike, models.ActionLike)
	assert.ErrorIs(t, err, ErrSelfMatch)
}

func TestSaveMutualMatchAlreadyMatched(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepo(db)
	now := time.Now()

	// the reverse swipe committed first, so the conditional upsert returns no row
	mock.ExpectQuery("INSERT INTO matches").
		WithArgs(sqlmock.AnyArg(), "a", "b", "like", "like", "matched", "pending").
		WillReturnRows(sqlmock.NewRows(matchCols))
	mock.ExpectQuery("FROM matches WHERE user1_id=\\$1 AND user2_id=\\$2").
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows(matchCols).AddRow("m1", "a", "b", "like", "like", "matched", nil, now, now))

	match, created, err := repo.SaveMutualMatch(context.Background(), "a", "b", models.ActionLike, models.ActionLike)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "m1", match.ID)
}

func TestSaveMutualMatchMissingProfile(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("INSERT INTO matches").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "matches_user1_id_fkey"})

	_, _, err := NewMatchRepo(db).SaveMutualMatch(context.Background(), "a", "b", models.ActionLike, models.ActionLike)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestCreateOrGetPendingReturnsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepo(db)
	now := time.Now()

	mock.ExpectQuery("FROM matches WHERE user1_id=\\$1 AND user2_id=\\$2").
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows(matchCols).AddRow("m1", "a", "b", "like", "like", "matched", "c1", now, now))

	match, err := repo.CreateOrGetPending(context.Background(), "b", "a")
	require.NoError(t, err)
	assert.Equal(t, models.MatchMatched, match.Status)
}

func TestCreateOrGetPendingInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepo(db)
	now := time.Now()

	mock.ExpectQuery("FROM matches WHERE user1_id").
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows(matchCols))
	mock.ExpectQuery("INSERT INTO matches").
		WithArgs(sqlmock.AnyArg(), "a", "b", "pending").
		WillReturnRows(sqlmock.NewRows(matchCols).AddRow("m2", "a", "b", nil, nil, "pending", nil, now, now))

	match, err := repo.CreateOrGetPending(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "m2", match.ID)
	assert.Equal(t, models.MatchPending, match.Status)
	assert.Nil(t, match.User1Action)
}

func TestCreateOrGetPendingLostRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepo(db)
	now := time.Now()

	mock.ExpectQuery("FROM matches WHERE user1_id").
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows(matchCols))
	mock.ExpectQuery("INSERT INTO matches").
		WillReturnRows(sqlmock.NewRows(matchCols))
	mock.ExpectQuery("FROM matches WHERE user1_id").
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows(matchCols).AddRow("m3", "a", "b", nil, nil, "pending", nil, now, now))

	match, err := repo.CreateOrGetPending(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "m3", match.ID)
}

func TestGetMatchNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM matches WHERE id=\\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(matchCols))

	_, err := NewMatchRepo(db).GetMatch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestListMatchesExcludesPending(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery("status <> \\$2").
		WithArgs("a", "pending").
		WillReturnRows(sqlmock.NewRows(matchCols).AddRow("m1", "a", "b", "superLike", "superLike", "superMatched", nil, now, now))

	matches, err := NewMatchRepo(db).ListMatches(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, models.MatchSuperMatched, matches[0].Status)
}
