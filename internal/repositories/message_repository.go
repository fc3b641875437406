package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"directchat/internal/models"
)

// MessageRepository defines interactions for conversation messages.
type MessageRepository interface {
	ListMessages(ctx context.Context, conversationID string) ([]models.MessageWithAuthor, error)
	CreateMessage(ctx context.Context, conversationID, userID, content string, sentAt *time.Time) (models.MessageWithAuthor, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// ListMessages returns a conversation's messages oldest first. Messages
// sharing a timestamp keep insertion order.
func (r *MessageRepo) ListMessages(ctx context.Context, conversationID string) ([]models.MessageWithAuthor, error) {
	msgs := []models.MessageWithAuthor{}
	err := r.db.SelectContext(ctx, &msgs, `SELECT m.id, m.content, m.user_id, m.conversation_id, m.sent_at, u.username, u.avatar
        FROM messages m
        INNER JOIN users u ON u.id = m.user_id
        WHERE m.conversation_id=$1
        ORDER BY m.sent_at ASC, m.seq ASC`, conversationID)
	return msgs, err
}

// CreateMessage stores a message and bumps the conversation's activity time.
// A nil sentAt stamps the message with the database clock.
func (r *MessageRepo) CreateMessage(ctx context.Context, conversationID, userID, content string, sentAt *time.Time) (msg models.MessageWithAuthor, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.MessageWithAuthor{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	err = tx.GetContext(ctx, &msg, `WITH inserted AS (
            INSERT INTO messages (id, conversation_id, user_id, content, sent_at)
            VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, NOW()))
            RETURNING id, content, user_id, conversation_id, sent_at
        )
        SELECT i.id, i.content, i.user_id, i.conversation_id, i.sent_at, u.username, u.avatar
        FROM inserted i
        INNER JOIN users u ON u.id = i.user_id`, uuid.NewString(), conversationID, userID, content, sentAt)
	if err != nil {
		return models.MessageWithAuthor{}, err
	}

	if _, err = tx.ExecContext(ctx, `UPDATE conversations SET updated_at = GREATEST(updated_at, $2) WHERE id=$1`, conversationID, msg.SentAt); err != nil {
		return models.MessageWithAuthor{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.MessageWithAuthor{}, err
	}
	return msg, nil
}
