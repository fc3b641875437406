package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"directchat/internal/models"
	"directchat/internal/presence"
	"directchat/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) FindOrCreateDirect(ctx context.Context, userA, userB string) (models.ConversationDetail, bool, error) {
	args := m.Called(ctx, userA, userB)
	var detail models.ConversationDetail
	if val := args.Get(0); val != nil {
		detail = val.(models.ConversationDetail)
	}
	return detail, args.Bool(1), args.Error(2)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID string) ([]models.ConversationDetail, error) {
	args := m.Called(ctx, userID)
	var list []models.ConversationDetail
	if val := args.Get(0); val != nil {
		list = val.([]models.ConversationDetail)
	}
	return list, args.Error(1)
}

func (m *ConversationRepositoryMock) IsMember(ctx context.Context, conversationID, userID string) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, conversationID string) ([]models.MessageWithAuthor, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.MessageWithAuthor
	if val := args.Get(0); val != nil {
		msgs = val.([]models.MessageWithAuthor)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, conversationID, userID, content string, sentAt *time.Time) (models.MessageWithAuthor, error) {
	args := m.Called(ctx, conversationID, userID, content, sentAt)
	var msg models.MessageWithAuthor
	if val := args.Get(0); val != nil {
		msg = val.(models.MessageWithAuthor)
	}
	return msg, args.Error(1)
}

type PresenceMock struct {
	mock.Mock
}

func (m *PresenceMock) Online(ctx context.Context, userIDs []string) (map[string]bool, error) {
	args := m.Called(ctx, userIDs)
	var online map[string]bool
	if val := args.Get(0); val != nil {
		online = val.(map[string]bool)
	}
	return online, args.Error(1)
}

func (m *PresenceMock) Touch(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ presence.Provider = (*PresenceMock)(nil)
