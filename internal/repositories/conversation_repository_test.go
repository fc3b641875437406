package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	convCols   = []string{"id", "is_group", "name", "direct_key", "created_at", "updated_at"}
	memberCols = []string{"id", "username", "avatar", "is_online"}
)

func TestFindOrCreateDirectExisting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversations WHERE direct_key=$1 AND is_group=FALSE")).
		WithArgs("alice:bob").
		WillReturnRows(sqlmock.NewRows(convCols).AddRow("c1", false, nil, "alice:bob", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversation_members cm")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow("alice", "Alice", nil, true).
			AddRow("bob", "Bob", nil, false))
	mock.ExpectCommit()

	detail, created, err := repo.FindOrCreateDirect(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "c1", detail.ID)
	require.Len(t, detail.Members, 2)

	other, ok := detail.OtherMember("bob")
	require.True(t, ok)
	assert.Equal(t, "Alice", other.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateDirectCreates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversations WHERE direct_key=$1")).
		WithArgs("alice:bob").
		WillReturnRows(sqlmock.NewRows(convCols))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO conversations")).
		WithArgs(sqlmock.AnyArg(), "alice:bob").
		WillReturnRows(sqlmock.NewRows(convCols).AddRow("c2", false, nil, "alice:bob", now, now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversation_members")).
		WithArgs("c2", "alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversation_members")).
		WithArgs("c2", "bob").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversation_members cm")).
		WithArgs("c2").
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow("alice", "Alice", nil, true).
			AddRow("bob", "Bob", nil, true))
	mock.ExpectCommit()

	detail, created, err := repo.FindOrCreateDirect(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "c2", detail.ID)
	assert.False(t, detail.IsGroup)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateDirectLostRace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversations WHERE direct_key=$1")).
		WithArgs("alice:bob").
		WillReturnRows(sqlmock.NewRows(convCols))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO conversations")).
		WithArgs(sqlmock.AnyArg(), "alice:bob").
		WillReturnRows(sqlmock.NewRows(convCols))
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversations WHERE direct_key=$1")).
		WithArgs("alice:bob").
		WillReturnRows(sqlmock.NewRows(convCols).AddRow("winner", false, nil, "alice:bob", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversation_members cm")).
		WithArgs("winner").
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow("alice", "Alice", nil, true).
			AddRow("bob", "Bob", nil, true))
	mock.ExpectCommit()

	detail, created, err := repo.FindOrCreateDirect(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "winner", detail.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateDirectRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM conversations WHERE direct_key=$1")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, _, err := repo.FindOrCreateDirect(context.Background(), "alice", "bob")
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateDirectSelf(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	_, _, err := repo.FindOrCreateDirect(context.Background(), "alice", "alice")
	require.ErrorIs(t, err, ErrSelfConversation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cm.user_id=$1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(convCols).
			AddRow("c1", false, nil, "alice:bob", now, now).
			AddRow("c2", false, nil, "alice:carol", now, now.Add(-time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE cm.conversation_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"conversation_id", "id", "username", "avatar", "is_online"}).
			AddRow("c1", "alice", "Alice", nil, true).
			AddRow("c1", "bob", "Bob", nil, true).
			AddRow("c2", "alice", "Alice", nil, true).
			AddRow("c2", "carol", "Carol", "carol.png", false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT ON (m.conversation_id)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"conversation_id", "content", "sent_at", "username"}).
			AddRow("c1", "hi", now, "Bob"))

	convs, err := repo.ListForUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "c1", convs[0].ID)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, "hi", convs[0].LastMessage.Content)
	assert.Equal(t, "Bob", convs[0].LastMessage.Username)

	assert.Nil(t, convs[1].LastMessage)
	other, ok := convs[1].OtherMember("alice")
	require.True(t, ok)
	assert.Equal(t, "carol", other.ID)
	require.NotNil(t, other.Avatar)
	assert.Equal(t, "carol.png", *other.Avatar)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUserEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE cm.user_id=$1")).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(convCols))

	convs, err := repo.ListForUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMember(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConversationRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM conversation_members")).
		WithArgs("c1", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsMember(context.Background(), "c1", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
