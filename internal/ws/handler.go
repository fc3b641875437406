package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"directchat/internal/middleware"
	"directchat/internal/models"
	"directchat/internal/observability"
	"directchat/internal/services"
)

// MemberAuthorizer resolves a username and checks conversation membership.
type MemberAuthorizer interface {
	AuthorizeMember(ctx context.Context, conversationID, username string) (models.User, error)
}

// Handler upgrades conversation subscriptions to websockets.
type Handler struct {
	hub        *Hub
	authorizer MemberAuthorizer
	upgrader   websocket.Upgrader
}

// NewHandler constructs a Handler. Origins are checked by checkOrigin; nil
// accepts every origin.
func NewHandler(hub *Hub, authorizer MemberAuthorizer, checkOrigin func(*http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		hub:        hub,
		authorizer: authorizer,
		upgrader:   websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// Handle subscribes the caller named by ?username= to a conversation room.
// Clients only receive; inbound frames other than close are discarded.
func (h *Handler) Handle(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	ctx, span := otel.Tracer("directchat/ws").Start(c.Request.Context(), "ws.handshake",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("conversation.id", conversationID)),
	)
	defer span.End()

	user, err := h.authorizer.AuthorizeMember(ctx, conversationID, c.Query("username"))
	if err != nil {
		kind := services.KindOf(err)
		span.SetStatus(codes.Error, kind.String())
		if kind == services.KindStore {
			log.Printf("ws authorize failed request_id=%s: %v", middleware.RequestIDFromContext(c), err)
		}
		c.JSON(kind.HTTPStatus(), gin.H{"success": false, "error": services.MessageOf(err)})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:         uuid.NewString(),
		ConversationID: conversationID,
		UserID:         user.ID,
		Username:       user.Username,
		IP:             c.ClientIP(),
		RequestID:      middleware.RequestIDFromContext(c),
		TraceID:        span.SpanContext().TraceID().String(),
		ConnectedAt:    time.Now(),
	}
	h.hub.AddClient(conversationID, conn, info)
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	log.Printf("ws connect %s", info.LogFields())

	go h.readLoop(conversationID, conn, info)
}

func (h *Handler) readLoop(conversationID string, conn *websocket.Conn, info ConnInfo) {
	defer func() {
		h.hub.RemoveClient(conversationID, conn)
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		log.Printf("ws disconnect %s duration_ms=%d", info.LogFields(), time.Since(info.ConnectedAt).Milliseconds())
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}
	}
}
