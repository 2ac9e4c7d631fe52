package models

import "time"

// Message is an append-only entry in a conversation.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	SenderID       string    `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ConversationEvent is broadcast through websockets.
type ConversationEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}
