package models

import "time"

// Conversation is either a direct (two member) or a group conversation.
type Conversation struct {
	ID        string    `db:"id" json:"id"`
	IsGroup   bool      `db:"is_group" json:"isGroup"`
	Name      *string   `db:"name" json:"name"`
	DirectKey *string   `db:"direct_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// MemberProfile is a member row joined with the member's public profile.
type MemberProfile struct {
	ConversationID string `db:"conversation_id"`
	UserProfile
}

// LastMessage is the preview of the newest message in a conversation.
type LastMessage struct {
	ConversationID string    `db:"conversation_id"`
	Content        string    `db:"content"`
	SentAt         time.Time `db:"sent_at"`
	Username       string    `db:"username"`
}

// ConversationDetail is a conversation with its members and newest message loaded.
type ConversationDetail struct {
	Conversation
	Members     []UserProfile
	LastMessage *LastMessage
}

// OtherMember returns the first member that is not userID.
func (d ConversationDetail) OtherMember(userID string) (UserProfile, bool) {
	for _, m := range d.Members {
		if m.ID != userID {
			return m, true
		}
	}
	return UserProfile{}, false
}

// DirectKey builds the unordered pair key stored on direct conversations.
func DirectKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}
