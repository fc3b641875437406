package handlers

import "directchat/internal/models"

// toConversationView shapes a conversation for the member callerID.
func toConversationView(d models.ConversationDetail, callerID string) models.ConversationView {
	view := models.ConversationView{
		ID:        d.ID,
		IsGroup:   d.IsGroup,
		Name:      d.Name,
		UpdatedAt: d.UpdatedAt,
	}
	if other, ok := d.OtherMember(callerID); ok {
		view.OtherUser = &other
	}
	if d.LastMessage != nil {
		view.LastMessage = &models.LastMessageView{
			Content:   d.LastMessage.Content,
			Timestamp: d.LastMessage.SentAt,
			Username:  d.LastMessage.Username,
		}
	}
	return view
}

func toConversationRef(d models.ConversationDetail, callerID string) models.ConversationRef {
	ref := models.ConversationRef{ID: d.ID}
	if other, ok := d.OtherMember(callerID); ok {
		ref.OtherUser = &other
	}
	return ref
}

func toMessageView(m models.MessageWithAuthor) models.MessageView {
	return models.MessageView{
		ID:             m.ID,
		Content:        m.Content,
		Username:       m.Username,
		Timestamp:      m.SentAt,
		UserID:         m.UserID,
		ConversationID: m.ConversationID,
	}
}

func toMessageViews(msgs []models.MessageWithAuthor) []models.MessageView {
	out := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageView(m))
	}
	return out
}
