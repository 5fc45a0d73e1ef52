package routing

import (
	"time"

	domain "support-chat/domain/routing"
)

// Replay entry points used by the bus bridge. They bring this instance's
// in-memory copy in line with a fact another instance already persisted and
// announced, so they never write to the store and never publish. Each one is
// a no-op when the change is already applied, which is what makes event
// replay safe.

// DefaultCapacity is assumed for operators first seen through a replayed
// fact, before their own online event carries the real limit.
const DefaultCapacity = 5

// ApplyChatAssigned records an assignment announced on the bus. Capacity is
// not re-checked: the originating instance checked it and the durable store
// is the tie-breaker.
func (c *Coordinator) ApplyChatAssigned(chatID, operatorID, clientID int64, kind domain.OperatorKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.assignments[chatID]; ok {
		return
	}
	if _, ok := c.operators.Get(operatorID); !ok {
		if !kind.Valid() {
			kind = domain.KindSupport
		}
		c.operators.Register(operatorID, kind, DefaultCapacity)
	}
	queued, wasQueued := c.queue.Dequeue(clientID)
	c.operators.AttachChat(operatorID, chatID)
	now := time.Now().UTC()
	a := domain.Assignment{
		ChatID:     chatID,
		OperatorID: operatorID,
		ClientID:   clientID,
		AssignedAt: now,
		EnqueuedAt: now,
	}
	if wasQueued {
		a.Priority = queued.Priority
		a.EnqueuedAt = queued.EnqueuedAt
		a.Metadata = queued.Metadata
	}
	c.assignments[chatID] = a
}

// ApplyChatTransferred moves a replayed chat between operators. Already on
// the new operator means already applied.
func (c *Coordinator) ApplyChatTransferred(chatID, newOperatorID, previousOperatorID, clientID int64, kind domain.OperatorKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.assignments[chatID]
	if ok && a.OperatorID == newOperatorID {
		return
	}
	if !ok {
		a = domain.Assignment{ChatID: chatID, ClientID: clientID}
	}
	if _, exists := c.operators.Get(newOperatorID); !exists {
		if !kind.Valid() {
			kind = domain.KindSupport
		}
		c.operators.Register(newOperatorID, kind, DefaultCapacity)
	}
	c.operators.DetachChat(previousOperatorID, chatID)
	c.operators.AttachChat(newOperatorID, chatID)
	a.OperatorID = newOperatorID
	a.AssignedAt = time.Now().UTC()
	c.assignments[chatID] = a
}

// ApplyChatClosed drops whatever local state still references the chat.
func (c *Coordinator) ApplyChatClosed(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if a, ok := c.assignments[chatID]; ok {
		delete(c.assignments, chatID)
		c.operators.DetachChat(a.OperatorID, chatID)
	}
	if q, ok := c.queuedClientForChatLocked(chatID); ok {
		c.queue.Dequeue(q.ClientID)
	}
}

// ApplyClientRemoved drops a replayed queue eviction.
func (c *Coordinator) ApplyClientRemoved(clientID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.Dequeue(clientID)
}

// ApplyPriorityChange mirrors a replayed priority update.
func (c *Coordinator) ApplyPriorityChange(clientID int64, priority int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue.Reprioritize(clientID, priority)
}

// ApplyLawyerAssigned caches a replayed lawyer binding. An existing binding
// wins: the sticky assignment is only superseded by an explicit
// reassignment, never by replay.
func (c *Coordinator) ApplyLawyerAssigned(clientID, lawyerID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lawyers[clientID]; ok {
		return
	}
	c.lawyers[clientID] = lawyerID
}
