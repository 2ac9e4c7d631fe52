package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"roommate-service/internal/models"
)

const conversationColumns = `id, match_id, participants, participant_profiles, last_message, last_message_at, created_at, updated_at`

// ConversationRepository maps each match to at most one conversation.
type ConversationRepository interface {
	GetByMatch(ctx context.Context, matchID string) (models.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
	CreateForMatch(ctx context.Context, match models.Match, profiles models.ParticipantProfiles, senderID, content string) (models.Conversation, models.Message, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetByMatch fetches the conversation attached to a match.
func (r *ConversationRepo) GetByMatch(ctx context.Context, matchID string) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE match_id=$1`, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// GetConversation fetches a conversation by id.
func (r *ConversationRepo) GetConversation(ctx context.Context, conversationID string) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	return conv, err
}

// ListForUser returns the user's conversations ordered by latest activity.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs, `SELECT `+conversationColumns+` FROM conversations
        WHERE $1 = ANY(participants)
        ORDER BY COALESCE(last_message_at, created_at) DESC`, userID)
	return convs, err
}

// IsParticipant checks whether a user belongs to the conversation.
func (r *ConversationRepo) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM conversations WHERE id=$1 AND $2 = ANY(participants))`, conversationID, userID)
	return exists, err
}

// CreateForMatch materializes the match's conversation together with its first message.
// When another request already created the conversation, the message is appended to that one.
func (r *ConversationRepo) CreateForMatch(ctx context.Context, match models.Match, profiles models.ParticipantProfiles, senderID, content string) (conv models.Conversation, msg models.Message, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Conversation{}, models.Message{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	participants := pq.StringArray{match.User1ID, match.User2ID}
	err = tx.GetContext(ctx, &conv, `INSERT INTO conversations (id, match_id, participants, participant_profiles)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (match_id) DO NOTHING
        RETURNING `+conversationColumns, uuid.NewString(), match.ID, participants, profiles)
	if errors.Is(err, sql.ErrNoRows) {
		err = tx.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE match_id=$1`, match.ID)
	}
	if err != nil {
		return models.Conversation{}, models.Message{}, fmt.Errorf("create conversation: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE matches SET conversation_id=$2, updated_at=NOW() WHERE id=$1 AND conversation_id IS NULL`, match.ID, conv.ID); err != nil {
		return models.Conversation{}, models.Message{}, fmt.Errorf("link match: %w", err)
	}

	msg, err = appendMessage(ctx, tx, conv.ID, senderID, content)
	if err != nil {
		return models.Conversation{}, models.Message{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Conversation{}, models.Message{}, err
	}
	conv.LastMessage = &msg.Content
	conv.LastMessageAt = &msg.CreatedAt
	return conv, msg, nil
}
