package models

import "time"

// Message is an immutable chat message.
type Message struct {
	ID             string    `db:"id" json:"id"`
	Content        string    `db:"content" json:"content"`
	UserID         string    `db:"user_id" json:"userId"`
	ConversationID string    `db:"conversation_id" json:"conversationId"`
	SentAt         time.Time `db:"sent_at" json:"timestamp"`
}

// MessageWithAuthor is a message joined with its author's public fields.
type MessageWithAuthor struct {
	Message
	Username string  `db:"username" json:"username"`
	Avatar   *string `db:"avatar" json:"avatar,omitempty"`
}

// NewMessage carries the input of an append.
type NewMessage struct {
	ConversationID string
	Username       string
	Content        string
	// SentAt overrides the insertion time when set.
	SentAt *time.Time
}
