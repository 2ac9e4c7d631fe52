package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"roommate-service/internal/models"
)

const messageColumns = `id, conversation_id, sender_id, content, created_at`

// MessageRepository defines interactions for conversation messages.
type MessageRepository interface {
	AppendMessage(ctx context.Context, conversationID, senderID, content string) (models.Message, error)
	ListMessages(ctx context.Context, conversationID string, before *time.Time, limit int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// AppendMessage stores a message and records it as the conversation's latest.
func (r *MessageRepo) AppendMessage(ctx context.Context, conversationID, senderID, content string) (msg models.Message, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	msg, err = appendMessage(ctx, tx, conversationID, senderID, content)
	if err != nil {
		return models.Message{}, err
	}
	if err = tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// ListMessages returns up to limit messages older than before, newest first.
func (r *MessageRepo) ListMessages(ctx context.Context, conversationID string, before *time.Time, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages
        WHERE conversation_id=$1 AND ($2::timestamptz IS NULL OR created_at < $2)
        ORDER BY created_at DESC
        LIMIT $3`, conversationID, before, limit)
	return msgs, err
}

func appendMessage(ctx context.Context, ext sqlx.ExtContext, conversationID, senderID, content string) (models.Message, error) {
	var msg models.Message
	if err := sqlx.GetContext(ctx, ext, &msg, `INSERT INTO messages (id, conversation_id, sender_id, content) VALUES ($1, $2, $3, $4)
        RETURNING `+messageColumns, uuid.NewString(), conversationID, senderID, content); err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}

	res, err := ext.ExecContext(ctx, `UPDATE conversations SET last_message=$2, last_message_at=$3, updated_at=NOW() WHERE id=$1`,
		conversationID, msg.Content, msg.CreatedAt)
	if err != nil {
		return models.Message{}, fmt.Errorf("touch conversation: %w", err)
	}
	if count, err := res.RowsAffected(); err == nil && count == 0 {
		return models.Message{}, ErrConversationNotFound
	}
	return msg, nil
}
