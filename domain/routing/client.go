package routing

import "time"

// QueuedClient is one client waiting for an operator. At most one entry
// exists per client id at any time.
type QueuedClient struct {
	ClientID   int64
	ChatID     int64
	EnqueuedAt time.Time
	Priority   int
	WaitTime   time.Duration
	Metadata   map[string]any
}

// Assignment binds an open chat to exactly one operator. ClientID and the
// queue slot (priority, enqueue time, metadata) are carried so a released
// chat can put its client back in the queue, at its old rank, without a
// store round trip.
type Assignment struct {
	ChatID     int64
	OperatorID int64
	ClientID   int64
	AssignedAt time.Time

	Priority   int
	EnqueuedAt time.Time
	Metadata   map[string]any
}

// Chat is the persisted view of a conversation, read back through the store.
type Chat struct {
	ID         int64
	ClientID   int64
	OperatorID int64
	Active     bool
}
