package routing

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	domain "support-chat/domain/routing"
)

// WaitQueue holds clients waiting for an operator. Ordering is
// (-priority, enqueue time), ties broken by arrival order. The queue never
// holds more than one entry per client id.
type WaitQueue struct {
	mu      sync.RWMutex
	log     *slog.Logger
	waiting map[int64]*domain.QueuedClient
	arrival map[int64]uint64
	nextSeq uint64
}

func NewWaitQueue(log *slog.Logger) *WaitQueue {
	return &WaitQueue{
		log:     log,
		waiting: make(map[int64]*domain.QueuedClient),
		arrival: make(map[int64]uint64),
	}
}

// Enqueue registers a waiting client. The first registration wins: a client
// already in the queue keeps its original entry and enqueue time.
func (q *WaitQueue) Enqueue(clientID, chatID int64, priority int, metadata map[string]any) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.waiting[clientID]; ok {
		return false
	}
	q.waiting[clientID] = &domain.QueuedClient{
		ClientID:   clientID,
		ChatID:     chatID,
		EnqueuedAt: time.Now().UTC(),
		Priority:   priority,
		Metadata:   metadata,
	}
	q.arrival[clientID] = q.nextSeq
	q.nextSeq++
	q.log.Info("Client enqueued", "client_id", clientID, "chat_id", chatID, "priority", priority)
	return true
}

// Restore puts a previously dequeued entry back, keeping its enqueue time so
// a rollback or a released chat does not lose queue fairness.
func (q *WaitQueue) Restore(c domain.QueuedClient) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.waiting[c.ClientID]; ok {
		return
	}
	cp := c
	q.waiting[c.ClientID] = &cp
	q.arrival[c.ClientID] = q.nextSeq
	q.nextSeq++
}

// Dequeue removes a client, reporting whether it was present and what the
// entry was.
func (q *WaitQueue) Dequeue(clientID int64) (domain.QueuedClient, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	c, ok := q.waiting[clientID]
	if !ok {
		return domain.QueuedClient{}, false
	}
	delete(q.waiting, clientID)
	delete(q.arrival, clientID)
	q.log.Info("Client dequeued", "client_id", clientID)
	return *c, true
}

func (q *WaitQueue) Get(clientID int64) (domain.QueuedClient, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	c, ok := q.waiting[clientID]
	if !ok {
		return domain.QueuedClient{}, false
	}
	return *c, true
}

// Position returns the 1-based rank of a client, or -1 if absent.
func (q *WaitQueue) Position(clientID int64) int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if _, ok := q.waiting[clientID]; !ok {
		return -1
	}
	for i, c := range q.orderedLocked() {
		if c.ClientID == clientID {
			return i + 1
		}
	}
	return -1
}

// Reprioritize updates a client's priority without touching its enqueue
// time, so a later bump does not reset fairness among equal priorities.
func (q *WaitQueue) Reprioritize(clientID int64, newPriority int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	c, ok := q.waiting[clientID]
	if !ok {
		return false
	}
	c.Priority = newPriority
	q.log.Info("Client priority updated", "client_id", clientID, "priority", newPriority)
	return true
}

// Snapshot returns the queue in service order.
func (q *WaitQueue) Snapshot() []domain.QueuedClient {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.orderedLocked()
}

func (q *WaitQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.waiting)
}

// RecomputeWaitTimes refreshes the reporting-only accumulated wait of every
// entry. Ordering never depends on it.
func (q *WaitQueue) RecomputeWaitTimes(now time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, c := range q.waiting {
		c.WaitTime = now.Sub(c.EnqueuedAt)
	}
}

// Status aggregates the queue for reporting.
type Status struct {
	TotalWaiting    int           `json:"total_waiting"`
	AverageWait     time.Duration `json:"average_wait"`
	CountByPriority map[int]int   `json:"count_by_priority"`
}

func (q *WaitQueue) Status() Status {
	q.mu.RLock()
	defer q.mu.RUnlock()

	st := Status{
		TotalWaiting:    len(q.waiting),
		CountByPriority: make(map[int]int),
	}
	var total time.Duration
	for _, c := range q.waiting {
		total += c.WaitTime
		st.CountByPriority[c.Priority]++
	}
	if len(q.waiting) > 0 {
		st.AverageWait = total / time.Duration(len(q.waiting))
	}
	return st
}

func (q *WaitQueue) orderedLocked() []domain.QueuedClient {
	ordered := lo.MapToSlice(q.waiting, func(_ int64, c *domain.QueuedClient) domain.QueuedClient {
		return *c
	})
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.EnqueuedAt.Equal(b.EnqueuedAt) {
			return a.EnqueuedAt.Before(b.EnqueuedAt)
		}
		return q.arrival[a.ClientID] < q.arrival[b.ClientID]
	})
	return ordered
}
