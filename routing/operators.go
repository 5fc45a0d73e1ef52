package routing

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	domain "support-chat/domain/routing"
)

// OperatorRegistry tracks per-operator presence, availability and the
// in-flight chat set. AttachChat and DetachChat must only be called by the
// coordinator inside its guarded section; everything else reads through
// copies.
type OperatorRegistry struct {
	mu        sync.RWMutex
	log       *slog.Logger
	operators map[int64]*domain.OperatorState
}

func NewOperatorRegistry(log *slog.Logger) *OperatorRegistry {
	return &OperatorRegistry{
		log:       log,
		operators: make(map[int64]*domain.OperatorState),
	}
}

// Register is an idempotent upsert: a known operator keeps its chat set, only
// kind and capacity are refreshed.
func (r *OperatorRegistry) Register(operatorID int64, kind domain.OperatorKind, capacity int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if op, ok := r.operators[operatorID]; ok {
		op.Kind = kind
		op.MaxConcurrentChats = capacity
		return
	}
	r.operators[operatorID] = &domain.OperatorState{
		ID:                 operatorID,
		Kind:               kind,
		Available:          true,
		MaxConcurrentChats: capacity,
		CurrentChats:       make(map[int64]struct{}),
		LastActivity:       time.Now().UTC(),
	}
	r.log.Info("Operator registered", "operator_id", operatorID, "kind", kind, "capacity", capacity)
}

// GoOnline marks the operator online and available. Returns false when the
// operator was already online with the same capacity, so callers can skip
// re-publishing an already-applied change.
func (r *OperatorRegistry) GoOnline(operatorID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.operators[operatorID]
	if !ok {
		return false
	}
	changed := !op.Online || !op.Available
	op.Online = true
	op.Available = true
	op.LastActivity = time.Now().UTC()
	return changed
}

func (r *OperatorRegistry) GoOffline(operatorID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.operators[operatorID]
	if !ok {
		return false
	}
	changed := op.Online
	op.Online = false
	op.Available = false
	return changed
}

// SetBusy toggles availability without touching the online flag.
func (r *OperatorRegistry) SetBusy(operatorID int64, busy bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.operators[operatorID]
	if !ok {
		return false
	}
	op.Available = !busy
	return true
}

func (r *OperatorRegistry) Get(operatorID int64) (domain.OperatorState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[operatorID]
	if !ok {
		return domain.OperatorState{}, false
	}
	return op.Snapshot(), true
}

// ListAvailable returns operators able to accept a chat, least loaded first.
// A nil kind filter returns every kind.
func (r *OperatorRegistry) ListAvailable(kind *domain.OperatorKind) []domain.OperatorState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var available []domain.OperatorState
	for _, op := range r.operators {
		if !op.CanAcceptChat() {
			continue
		}
		if kind != nil && op.Kind != *kind {
			continue
		}
		available = append(available, op.Snapshot())
	}
	sort.Slice(available, func(i, j int) bool {
		if available[i].Load() != available[j].Load() {
			return available[i].Load() < available[j].Load()
		}
		return available[i].ID < available[j].ID
	})
	return available
}

// AttachChat adds a chat to the operator's set. Coordinator-only.
func (r *OperatorRegistry) AttachChat(operatorID, chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.operators[operatorID]
	if !ok {
		return false
	}
	op.CurrentChats[chatID] = struct{}{}
	op.LastActivity = time.Now().UTC()
	return true
}

// DetachChat removes a chat from the operator's set. Coordinator-only.
func (r *OperatorRegistry) DetachChat(operatorID, chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.operators[operatorID]
	if !ok {
		return false
	}
	delete(op.CurrentChats, chatID)
	op.LastActivity = time.Now().UTC()
	return true
}

// Snapshot returns a detached copy of every operator, for reporting.
func (r *OperatorRegistry) Snapshot() []domain.OperatorState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.OperatorState, 0, len(r.operators))
	for _, op := range r.operators {
		out = append(out, op.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
