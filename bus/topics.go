package bus

import "support-chat/domain/event"

// Topic is one of the five event family exchanges.
type Topic string

const (
	TopicChatEvents      Topic = "chat-events"
	TopicSupportQueue    Topic = "support-queue"
	TopicOperatorEvents  Topic = "operator-events"
	TopicChatAssignments Topic = "chat-assignments"
	TopicAdminActions    Topic = "admin-actions"
)

func AllTopics() []Topic {
	return []Topic{
		TopicChatEvents,
		TopicSupportQueue,
		TopicOperatorEvents,
		TopicChatAssignments,
		TopicAdminActions,
	}
}

// TopicFor routes an event type to its family exchange.
func TopicFor(t event.Type) Topic {
	switch t {
	case event.ClientWaiting, event.ClientRequestRemoved, event.PriorityChanged:
		return TopicSupportQueue
	case event.OperatorOnline, event.OperatorOffline, event.OperatorBusy,
		event.OperatorAvailable, event.OperatorAcceptChat:
		return TopicOperatorEvents
	case event.ChatAssigned, event.ChatTransferred, event.LawyerAssigned:
		return TopicChatAssignments
	case event.ForceTransfer, event.ForceClose, event.PrioritySet:
		return TopicAdminActions
	default:
		return TopicChatEvents
	}
}
