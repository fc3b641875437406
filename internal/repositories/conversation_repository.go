package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"directchat/internal/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSelfConversation     = errors.New("cannot create conversation with self")
)

const conversationColumns = `id, is_group, name, direct_key, created_at, updated_at`

// ConversationRepository abstracts conversation persistence.
type ConversationRepository interface {
	FindOrCreateDirect(ctx context.Context, userA, userB string) (models.ConversationDetail, bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.ConversationDetail, error)
	IsMember(ctx context.Context, conversationID, userID string) (bool, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// FindOrCreateDirect returns the direct conversation between two users,
// creating it and its two member rows when none exists. The bool reports
// whether this call created it.
//
// Lookup and insert share one transaction and the pair key is unique, so two
// concurrent calls for the same pair resolve to the same conversation.
func (r *ConversationRepo) FindOrCreateDirect(ctx context.Context, userA, userB string) (detail models.ConversationDetail, created bool, err error) {
	if userA == userB {
		return models.ConversationDetail{}, false, ErrSelfConversation
	}
	key := models.DirectKey(userA, userB)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.ConversationDetail{}, false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var conv models.Conversation
	err = tx.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE direct_key=$1 AND is_group=FALSE`, key)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		conv, created, err = insertDirect(ctx, tx, key, userA, userB)
		if err != nil {
			return models.ConversationDetail{}, false, err
		}
	default:
		return models.ConversationDetail{}, false, err
	}

	members, err := listMembers(ctx, tx, conv.ID)
	if err != nil {
		return models.ConversationDetail{}, false, err
	}

	if err = tx.Commit(); err != nil {
		return models.ConversationDetail{}, false, err
	}
	return models.ConversationDetail{Conversation: conv, Members: members}, created, nil
}

func insertDirect(ctx context.Context, tx *sqlx.Tx, key, userA, userB string) (models.Conversation, bool, error) {
	var conv models.Conversation
	err := tx.GetContext(ctx, &conv, `INSERT INTO conversations (id, is_group, direct_key) VALUES ($1, FALSE, $2)
        ON CONFLICT (direct_key) DO NOTHING
        RETURNING `+conversationColumns, uuid.NewString(), key)
	if errors.Is(err, sql.ErrNoRows) {
		// a concurrent request committed the same pair first
		err = tx.GetContext(ctx, &conv, `SELECT `+conversationColumns+` FROM conversations WHERE direct_key=$1`, key)
		return conv, false, err
	}
	if err != nil {
		return models.Conversation{}, false, err
	}

	for _, userID := range []string{userA, userB} {
		if _, err := tx.ExecContext(ctx, `INSERT INTO conversation_members (conversation_id, user_id) VALUES ($1, $2)`, conv.ID, userID); err != nil {
			return models.Conversation{}, false, err
		}
	}
	return conv, true, nil
}

// ListForUser returns the conversations the user belongs to, most recently
// active first, with member profiles and the newest message attached.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID string) ([]models.ConversationDetail, error) {
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs, `SELECT c.id, c.is_group, c.name, c.direct_key, c.created_at, c.updated_at
        FROM conversations c
        INNER JOIN conversation_members cm ON cm.conversation_id = c.id
        WHERE cm.user_id=$1
        ORDER BY c.updated_at DESC, c.id ASC`, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.ConversationDetail, 0, len(convs))
	if len(convs) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}

	var members []models.MemberProfile
	err = r.db.SelectContext(ctx, &members, `SELECT cm.conversation_id, u.id, u.username, u.avatar, u.is_online
        FROM conversation_members cm
        INNER JOIN users u ON u.id = cm.user_id
        WHERE cm.conversation_id = ANY($1)
        ORDER BY cm.joined_at ASC, u.username ASC`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	membersByConv := map[string][]models.UserProfile{}
	for _, m := range members {
		membersByConv[m.ConversationID] = append(membersByConv[m.ConversationID], m.UserProfile)
	}

	var previews []models.LastMessage
	err = r.db.SelectContext(ctx, &previews, `SELECT DISTINCT ON (m.conversation_id) m.conversation_id, m.content, m.sent_at, u.username
        FROM messages m
        INNER JOIN users u ON u.id = m.user_id
        WHERE m.conversation_id = ANY($1)
        ORDER BY m.conversation_id, m.sent_at DESC, m.seq DESC`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	lastByConv := map[string]models.LastMessage{}
	for _, p := range previews {
		lastByConv[p.ConversationID] = p
	}

	for _, c := range convs {
		detail := models.ConversationDetail{Conversation: c, Members: membersByConv[c.ID]}
		if last, ok := lastByConv[c.ID]; ok {
			detail.LastMessage = &last
		}
		result = append(result, detail)
	}
	return result, nil
}

// IsMember checks whether a user belongs to the conversation.
func (r *ConversationRepo) IsMember(ctx context.Context, conversationID, userID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM conversation_members WHERE conversation_id=$1 AND user_id=$2)`, conversationID, userID)
	return exists, err
}

func listMembers(ctx context.Context, q sqlx.QueryerContext, conversationID string) ([]models.UserProfile, error) {
	members := []models.UserProfile{}
	err := sqlx.SelectContext(ctx, q, &members, `SELECT u.id, u.username, u.avatar, u.is_online
        FROM conversation_members cm
        INNER JOIN users u ON u.id = cm.user_id
        WHERE cm.conversation_id=$1
        ORDER BY cm.joined_at ASC, u.username ASC`, conversationID)
	return members, err
}
