package routing

import "time"

// OperatorKind is a closed set. Routing prefers support operators before
// any other kind, see PreferenceOrder.
type OperatorKind string

const (
	KindSupport OperatorKind = "support"
	KindLawyer  OperatorKind = "lawyer"
	KindSales   OperatorKind = "sales"
)

func (k OperatorKind) Valid() bool {
	switch k {
	case KindSupport, KindLawyer, KindSales:
		return true
	}
	return false
}

// PreferenceOrder is the order in which kinds are considered when no kind
// was requested. This is a policy choice, not a proven-optimal schedule.
func PreferenceOrder() []OperatorKind {
	return []OperatorKind{KindSupport, KindLawyer, KindSales}
}

// OperatorState tracks one operator's availability and in-flight chats.
// Records are never deleted, only marked offline, so an operator keeps its
// chat set across reconnections.
type OperatorState struct {
	ID                 int64
	Kind               OperatorKind
	Online             bool
	Available          bool
	MaxConcurrentChats int
	CurrentChats       map[int64]struct{}
	LastActivity       time.Time
}

func (o *OperatorState) CanAcceptChat() bool {
	return o.Online && o.Available && len(o.CurrentChats) < o.MaxConcurrentChats
}

func (o *OperatorState) Load() int {
	return len(o.CurrentChats)
}

func (o *OperatorState) Holds(chatID int64) bool {
	_, ok := o.CurrentChats[chatID]
	return ok
}

// Snapshot returns a detached copy safe to hand outside the registry lock.
func (o *OperatorState) Snapshot() OperatorState {
	chats := make(map[int64]struct{}, len(o.CurrentChats))
	for id := range o.CurrentChats {
		chats[id] = struct{}{}
	}
	cp := *o
	cp.CurrentChats = chats
	return cp
}
