package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMessage(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(sqlmock.AnyArg(), "c1", "u1", "hello").
		WillReturnRows(sqlmock.NewRows(messageCols).AddRow("msg1", "c1", "u1", "hello", now))
	mock.ExpectExec("UPDATE conversations SET last_message").
		WithArgs("c1", "hello", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg, err := NewMessageRepo(db).AppendMessage(context.Background(), "c1", "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "msg1", msg.ID)
}

func TestAppendMessageMissingConversation(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO messages").
		WillReturnRows(sqlmock.NewRows(messageCols).AddRow("msg1", "c1", "u1", "hello", now))
	mock.ExpectExec("UPDATE conversations SET last_message").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := NewMessageRepo(db).AppendMessage(context.Background(), "c1", "u1", "hello")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestListMessagesNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	before := now.Add(time.Minute)

	mock.ExpectQuery("ORDER BY created_at DESC").
		WithArgs("c1", before, 2).
		WillReturnRows(sqlmock.NewRows(messageCols).
			AddRow("m2", "c1", "u2", "second", now).
			AddRow("m1", "c1", "u1", "first", now.Add(-time.Second)))

	msgs, err := NewMessageRepo(db).ListMessages(context.Background(), "c1", &before, 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m2", msgs[0].ID)
}
