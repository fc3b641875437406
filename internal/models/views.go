package models

import "time"

// UserSummary is a directory entry returned by GET /users.
type UserSummary struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Avatar   *string   `json:"avatar"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

// LastMessageView is the conversation list preview.
type LastMessageView struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Username  string    `json:"username"`
}

// ConversationView is a conversation as seen by one of its members.
type ConversationView struct {
	ID          string           `json:"id"`
	IsGroup     bool             `json:"isGroup"`
	Name        *string          `json:"name"`
	OtherUser   *UserProfile     `json:"otherUser"`
	LastMessage *LastMessageView `json:"lastMessage"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ConversationRef is returned when a direct conversation is resolved.
type ConversationRef struct {
	ID        string       `json:"id"`
	OtherUser *UserProfile `json:"otherUser"`
}

// MessageView is the wire shape of a message.
type MessageView struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	Username       string    `json:"username"`
	Timestamp      time.Time `json:"timestamp"`
	UserID         string    `json:"userId"`
	ConversationID string    `json:"conversationId"`
}

// ChatEvent is broadcast through websockets.
type ChatEvent struct {
	Type    string       `json:"type"`
	Message *MessageView `json:"message,omitempty"`
}
