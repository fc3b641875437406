package ws

import (
	"fmt"
	"time"
)

// ConnInfo describes one subscriber of a conversation room.
type ConnInfo struct {
	ConnID         string
	ConversationID string
	UserID         string
	Username       string
	IP             string
	RequestID      string
	TraceID        string
	ConnectedAt    time.Time
}

// LogFields renders the connection as key=value pairs.
func (i ConnInfo) LogFields() string {
	return fmt.Sprintf("conn_id=%s conversation_id=%s user_id=%s ip=%s request_id=%s trace_id=%s",
		i.ConnID, i.ConversationID, i.UserID, i.IP, i.RequestID, i.TraceID)
}
