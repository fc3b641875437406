package services

import (
	"context"
	"errors"
	"log"

	"directchat/internal/models"
	"directchat/internal/presence"
	"directchat/internal/repositories"
	"directchat/internal/textutil"
)

const (
	msgUserIDRequired         = "User ID is required"
	msgBothUserIDsRequired    = "Both user IDs are required"
	msgSelfConversation       = "Cannot start a conversation with yourself"
	msgConversationIDRequired = "Conversation ID is required"
	msgMessageFieldsRequired  = "Content, username, and conversation ID are required"
	msgMessageTooLong         = "Message is too long"
	msgUserNotFound           = "User not found"
	msgNotMember              = "User is not a member of this conversation"
)

// Options tune message policy. The zero value only requires non-empty
// trimmed content.
type Options struct {
	// MaxContentLength bounds trimmed content in runes; zero disables it.
	MaxContentLength int
	// Sanitize strips <script> elements before storage.
	Sanitize bool
}

// ChatService implements the conversation, message and user directory
// operations on top of the repositories.
type ChatService struct {
	users         repositories.UserRepository
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	presence      presence.Provider
	opts          Options
}

// NewChatService builds a ChatService. A nil provider defaults to
// presence.AlwaysOnline.
func NewChatService(users repositories.UserRepository, conversations repositories.ConversationRepository, messages repositories.MessageRepository, provider presence.Provider, opts Options) *ChatService {
	if provider == nil {
		provider = presence.AlwaysOnline{}
	}
	return &ChatService{
		users:         users,
		conversations: conversations,
		messages:      messages,
		presence:      provider,
		opts:          opts,
	}
}

// FindOrCreateDirectConversation resolves the direct conversation between
// userA and userB, creating it when absent. The bool reports creation.
func (s *ChatService) FindOrCreateDirectConversation(ctx context.Context, userA, userB string) (models.ConversationDetail, bool, error) {
	userA, userB = textutil.Normalize(userA), textutil.Normalize(userB)
	if userA == "" || userB == "" {
		return models.ConversationDetail{}, false, validationError(msgBothUserIDsRequired)
	}
	if userA == userB {
		return models.ConversationDetail{}, false, validationError(msgSelfConversation)
	}

	for _, id := range []string{userA, userB} {
		if _, err := s.users.GetUserByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return models.ConversationDetail{}, false, notFoundError(msgUserNotFound, err)
			}
			return models.ConversationDetail{}, false, storeError("Failed to create conversation", err)
		}
	}

	detail, created, err := s.conversations.FindOrCreateDirect(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, repositories.ErrSelfConversation) {
			return models.ConversationDetail{}, false, validationError(msgSelfConversation)
		}
		return models.ConversationDetail{}, false, storeError("Failed to create conversation", err)
	}
	return detail, created, nil
}

// ListConversationsForUser returns every conversation userID belongs to.
func (s *ChatService) ListConversationsForUser(ctx context.Context, userID string) ([]models.ConversationDetail, error) {
	userID = textutil.Normalize(userID)
	if userID == "" {
		return nil, validationError(msgUserIDRequired)
	}
	convs, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, storeError("Failed to fetch conversations", err)
	}
	return convs, nil
}

// ListMessages returns a conversation's messages oldest first.
func (s *ChatService) ListMessages(ctx context.Context, conversationID string) ([]models.MessageWithAuthor, error) {
	conversationID = textutil.Normalize(conversationID)
	if conversationID == "" {
		return nil, validationError(msgConversationIDRequired)
	}
	msgs, err := s.messages.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, storeError("Failed to fetch messages", err)
	}
	return msgs, nil
}

// AppendMessage validates and stores a message authored by in.Username.
func (s *ChatService) AppendMessage(ctx context.Context, in models.NewMessage) (models.MessageWithAuthor, error) {
	content := textutil.Normalize(in.Content)
	username := textutil.Normalize(in.Username)
	conversationID := textutil.Normalize(in.ConversationID)
	if content == "" || username == "" || conversationID == "" {
		return models.MessageWithAuthor{}, validationError(msgMessageFieldsRequired)
	}
	if s.opts.Sanitize {
		if content = textutil.Sanitize(content); content == "" {
			return models.MessageWithAuthor{}, validationError(msgMessageFieldsRequired)
		}
	}
	if s.opts.MaxContentLength > 0 && !textutil.ValidMessage(content, s.opts.MaxContentLength) {
		return models.MessageWithAuthor{}, validationError(msgMessageTooLong)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.MessageWithAuthor{}, notFoundError(msgUserNotFound, err)
		}
		return models.MessageWithAuthor{}, storeError("Failed to create message", err)
	}

	member, err := s.conversations.IsMember(ctx, conversationID, user.ID)
	if err != nil {
		return models.MessageWithAuthor{}, storeError("Failed to create message", err)
	}
	if !member {
		return models.MessageWithAuthor{}, permissionError(msgNotMember)
	}

	msg, err := s.messages.CreateMessage(ctx, conversationID, user.ID, content, in.SentAt)
	if err != nil {
		return models.MessageWithAuthor{}, storeError("Failed to create message", err)
	}

	if err := s.presence.Touch(ctx, user.ID); err != nil {
		log.Printf("presence touch failed user_id=%s: %v", user.ID, err)
	}
	return msg, nil
}

// ListUsers returns the user directory sorted by username. Online state
// comes from the presence provider; stored flags are used if it fails.
func (s *ChatService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, storeError("Failed to fetch users", err)
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	online, err := s.presence.Online(ctx, ids)
	if err != nil {
		log.Printf("presence lookup failed, using stored flags: %v", err)
		online = nil
	}

	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		isOnline := u.IsOnline
		if online != nil {
			isOnline = online[u.ID]
		}
		out = append(out, models.UserSummary{
			ID:       u.ID,
			Username: u.Username,
			Avatar:   u.Avatar,
			IsOnline: isOnline,
			LastSeen: u.LastSeen,
		})
	}
	return out, nil
}

// AuthorizeMember resolves username and checks it belongs to the
// conversation. It guards realtime subscriptions.
func (s *ChatService) AuthorizeMember(ctx context.Context, conversationID, username string) (models.User, error) {
	conversationID, username = textutil.Normalize(conversationID), textutil.Normalize(username)
	if conversationID == "" || username == "" {
		return models.User{}, validationError("Username and conversation ID are required")
	}
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.User{}, notFoundError(msgUserNotFound, err)
		}
		return models.User{}, storeError("Failed to verify membership", err)
	}
	member, err := s.conversations.IsMember(ctx, conversationID, user.ID)
	if err != nil {
		return models.User{}, storeError("Failed to verify membership", err)
	}
	if !member {
		return models.User{}, permissionError(msgNotMember)
	}
	if err := s.presence.Touch(ctx, user.ID); err != nil {
		log.Printf("presence touch failed user_id=%s: %v", user.ID, err)
	}
	return user, nil
}
