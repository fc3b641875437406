package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"directchat/internal/middleware"
	"directchat/internal/models"
	"directchat/internal/observability"
	"directchat/internal/services"
	"directchat/internal/telemetry"
	"directchat/internal/textutil"
	"directchat/internal/ws"
)

const previewLength = 80

// ChatHandler serves the conversation, message and user endpoints.
type ChatHandler struct {
	svc    *services.ChatService
	hub    *ws.Hub
	events *telemetry.EventEmitter
}

// NewChatHandler builds a ChatHandler. hub and events may be nil.
func NewChatHandler(svc *services.ChatService, hub *ws.Hub, events *telemetry.EventEmitter) *ChatHandler {
	return &ChatHandler{svc: svc, hub: hub, events: events}
}

// RegisterRoutes mounts the chat endpoints on r.
func (h *ChatHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/conversations", h.ListConversations)
	r.POST("/conversations", h.StartConversation)
	r.GET("/messages", h.ListMessages)
	r.POST("/messages", h.PostMessage)
	r.GET("/users", h.ListUsers)
}

// ListConversations returns every conversation of ?userId=.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID := c.Query("userId")

	convs, err := h.svc.ListConversationsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "list_conversations", err)
		return
	}

	views := make([]models.ConversationView, 0, len(convs))
	for _, conv := range convs {
		views = append(views, toConversationView(conv, textutil.Normalize(userID)))
	}
	respondOK(c, http.StatusOK, gin.H{"conversations": views})
}

// StartConversation finds or creates the direct conversation between
// userId1 and userId2. It answers 201 when created and 200 when it existed.
func (h *ChatHandler) StartConversation(c *gin.Context) {
	var req struct {
		UserID1 string `json:"userId1"`
		UserID2 string `json:"userId2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "create_conversation", msgInvalidJSON)
		return
	}

	conv, created, err := h.svc.FindOrCreateDirectConversation(c.Request.Context(), req.UserID1, req.UserID2)
	if err != nil {
		respondError(c, "create_conversation", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		observability.IncConversationCreated()
		h.events.Emit(c.Request.Context(), telemetry.EventConversationCreated, middleware.RequestIDFromContext(c), gin.H{
			"conversation_id": conv.ID,
			"member_ids":      []string{textutil.Normalize(req.UserID1), textutil.Normalize(req.UserID2)},
		})
	}
	respondOK(c, status, gin.H{"conversation": toConversationRef(conv, textutil.Normalize(req.UserID1))})
}

// ListMessages returns the messages of ?conversationId= oldest first.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	msgs, err := h.svc.ListMessages(c.Request.Context(), c.Query("conversationId"))
	if err != nil {
		respondError(c, "list_messages", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"messages": toMessageViews(msgs)})
}

// PostMessage appends a message and pushes it to the conversation's
// websocket subscribers.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Content        string     `json:"content"`
		Username       string     `json:"username"`
		ConversationID string     `json:"conversationId"`
		Timestamp      *time.Time `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "create_message", msgInvalidJSON)
		return
	}

	msg, err := h.svc.AppendMessage(c.Request.Context(), models.NewMessage{
		ConversationID: req.ConversationID,
		Username:       req.Username,
		Content:        req.Content,
		SentAt:         req.Timestamp,
	})
	if err != nil {
		respondError(c, "create_message", err)
		return
	}

	view := toMessageView(msg)
	observability.IncMessageCreated()
	h.hub.BroadcastMessage(view)
	h.events.Emit(c.Request.Context(), telemetry.EventMessageCreated, middleware.RequestIDFromContext(c), gin.H{
		"message_id":      view.ID,
		"conversation_id": view.ConversationID,
		"user_id":         view.UserID,
		"preview":         textutil.Truncate(view.Content, previewLength),
	})
	respondOK(c, http.StatusCreated, gin.H{"message": view})
}

// ListUsers returns the user directory.
func (h *ChatHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, "list_users", err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"users": users})
}
