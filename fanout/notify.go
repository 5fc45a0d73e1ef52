package fanout

// Notification helpers consumed by the bus bridge. Each one turns a domain
// event into the client-facing messages the original support UI expects and
// keeps room membership in step with assignments.

func (r *Registry) NotifyNewChat(chatID, clientID int64) {
	r.BroadcastRole("support", Message{
		Type: "new_chat_available",
		Payload: map[string]any{
			"chat_id":   chatID,
			"client_id": clientID,
		},
	}, 0)
}

func (r *Registry) NotifyQueueUpdate(clientID int64, position int) {
	r.BroadcastRole("support", Message{
		Type: "queue_update",
		Payload: map[string]any{
			"client_id":      clientID,
			"queue_position": position,
		},
	}, 0)
}

// NotifyClientTaken hides a claimed client from every other support
// operator's pending list.
func (r *Registry) NotifyClientTaken(clientID, takenBy int64) {
	r.BroadcastRole("support", Message{
		Type: "client_taken",
		Payload: map[string]any{
			"client_id": clientID,
			"taken_by":  takenBy,
		},
	}, takenBy)
}

func (r *Registry) NotifyChatAssigned(chatID, operatorID, clientID int64) {
	r.Send(operatorID, Message{
		Type: "chat_assigned",
		Payload: map[string]any{
			"chat_id":   chatID,
			"client_id": clientID,
		},
	})
	r.Send(clientID, Message{
		Type: "operator_assigned",
		Payload: map[string]any{
			"chat_id":     chatID,
			"operator_id": operatorID,
		},
	})
	r.JoinRoom(operatorID, chatID)
	r.JoinRoom(clientID, chatID)
}

func (r *Registry) NotifyChatTransferred(chatID, newOperatorID, previousOperatorID int64, reason string) {
	r.Send(newOperatorID, Message{
		Type: "chat_transferred_to_you",
		Payload: map[string]any{
			"chat_id":              chatID,
			"previous_operator_id": previousOperatorID,
			"reason":               reason,
		},
	})
	r.Send(previousOperatorID, Message{
		Type: "chat_transferred_from_you",
		Payload: map[string]any{
			"chat_id":         chatID,
			"new_operator_id": newOperatorID,
			"reason":          reason,
		},
	})
	r.BroadcastRoom(chatID, Message{
		Type: "chat_transferred",
		Payload: map[string]any{
			"chat_id":              chatID,
			"new_operator_id":      newOperatorID,
			"previous_operator_id": previousOperatorID,
			"reason":               reason,
		},
	}, 0)
	r.LeaveRoom(previousOperatorID, chatID)
	r.JoinRoom(newOperatorID, chatID)
}

func (r *Registry) NotifyChatClosed(chatID, closedBy int64, reason string) {
	r.BroadcastRoom(chatID, Message{
		Type: "chat_closed",
		Payload: map[string]any{
			"chat_id":   chatID,
			"closed_by": closedBy,
			"reason":    reason,
		},
	}, 0)
	for _, userID := range r.RoomMembers(chatID) {
		r.LeaveRoom(userID, chatID)
	}
}

func (r *Registry) NotifyLawyerAssigned(clientID, lawyerID, chatID int64) {
	r.Send(clientID, Message{
		Type: "lawyer_assigned",
		Payload: map[string]any{
			"lawyer_id": lawyerID,
			"chat_id":   chatID,
		},
	})
	r.Send(lawyerID, Message{
		Type: "client_assigned",
		Payload: map[string]any{
			"client_id": clientID,
			"chat_id":   chatID,
		},
	})
	r.JoinRoom(clientID, chatID)
	r.JoinRoom(lawyerID, chatID)
}

func (r *Registry) NotifyOperatorStatus(operatorID int64, status string, metadata map[string]any) {
	msg := Message{
		Type: "operator_status_change",
		Payload: map[string]any{
			"operator_id": operatorID,
			"status":      status,
			"metadata":    metadata,
		},
	}
	r.BroadcastRole("admin", msg, 0)
	r.BroadcastRole("support", msg, operatorID)
}
