package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"support-chat/domain/routing"
)

type Type string

// Chat lifecycle family.
const (
	ChatCreated      Type = "chat_created"
	ChatClosed       Type = "chat_closed"
	OperatorJoined   Type = "operator_joined"
	OperatorLeft     Type = "operator_left"
	UserConnected    Type = "user_connected"
	UserDisconnected Type = "user_disconnected"
)

// Queue family.
const (
	ClientWaiting        Type = "client_waiting"
	ClientRequestRemoved Type = "client_request_removed"
	PriorityChanged      Type = "priority_change"
)

// Operator family.
const (
	OperatorOnline     Type = "operator_online"
	OperatorOffline    Type = "operator_offline"
	OperatorBusy       Type = "operator_busy"
	OperatorAvailable  Type = "operator_available"
	OperatorAcceptChat Type = "operator_accept_chat"
)

// Assignment family.
const (
	ChatAssigned    Type = "chat_assigned"
	ChatTransferred Type = "chat_transferred"
	LawyerAssigned  Type = "lawyer_assigned"
)

// Admin family.
const (
	ForceTransfer Type = "force_transfer"
	ForceClose    Type = "force_close"
	PrioritySet   Type = "priority_set"
)

// Event is the single wire shape for all five families. Optional fields are
// zero when a family does not use them.
type Event struct {
	ID        string    `json:"event_id"`
	Type      Type      `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`

	UserID   int64 `json:"user_id,omitempty"`
	ChatID   int64 `json:"chat_id,omitempty"`
	ClientID int64 `json:"client_id,omitempty"`

	OperatorID         int64                `json:"operator_id,omitempty"`
	OperatorKind       routing.OperatorKind `json:"operator_kind,omitempty"`
	PreviousOperatorID int64                `json:"previous_operator_id,omitempty"`
	MaxConcurrentChats int                  `json:"max_concurrent_chats,omitempty"`

	Priority      int `json:"priority,omitempty"`
	QueuePosition int `json:"queue_position,omitempty"`

	AdminID int64  `json:"admin_id,omitempty"`
	Reason  string `json:"reason,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

func New(t Type) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// Key is the broker partition key. Chat-scoped events key on the chat so all
// decisions about one conversation stay ordered; everything else keys on the
// client or operator it concerns.
func (e Event) Key() string {
	switch {
	case e.Type == LawyerAssigned && e.ClientID != 0:
		// The sticky lawyer binding is per client, not per chat.
		return fmt.Sprintf("client_%d", e.ClientID)
	case e.ChatID != 0:
		return fmt.Sprintf("chat_%d", e.ChatID)
	case e.ClientID != 0:
		return fmt.Sprintf("client_%d", e.ClientID)
	case e.OperatorID != 0:
		return fmt.Sprintf("operator_%d", e.OperatorID)
	default:
		return "broadcast"
	}
}
