// Package routing implements the support chat routing engine: the wait
// queue, the operator registry and the coordinator that binds chats to
// operators under one process-wide lock.
package routing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"support-chat/contract"
	"support-chat/domain/event"
	domain "support-chat/domain/routing"
	"support-chat/errors"
)

// Coordinator is the only writer to the wait queue, the operator registry,
// the assignment table and the lawyer bindings. Every entry point takes the
// assignment lock for its whole read-modify-write sequence, including the
// persistence call, and releases it before events are published so slow bus
// or fan-out I/O never blocks the next assignment decision.
type Coordinator struct {
	mu        sync.Mutex
	log       *slog.Logger
	queue     *WaitQueue
	operators *OperatorRegistry

	assignments map[int64]domain.Assignment // chat_id -> assignment
	lawyers     map[int64]int64             // client_id -> lawyer_id

	store     contract.ChatStore
	publisher contract.Publisher
	roles     contract.RoleResolver
}

const defaultLawyerCapacity = 10

func NewCoordinator(log *slog.Logger, queue *WaitQueue, operators *OperatorRegistry,
	store contract.ChatStore, publisher contract.Publisher, roles contract.RoleResolver) *Coordinator {
	return &Coordinator{
		log:         log,
		queue:       queue,
		operators:   operators,
		assignments: make(map[int64]domain.Assignment),
		lawyers:     make(map[int64]int64),
		store:       store,
		publisher:   publisher,
		roles:       roles,
	}
}

// OpenChat creates a chat for an unassigned client contact and queues the
// client. Calling it again while the client is still waiting or already
// assigned returns the existing chat.
func (c *Coordinator) OpenChat(ctx context.Context, clientID int64, priority int, metadata map[string]any) (int64, error) {
	c.mu.Lock()
	chatID, evts, err := c.openChatLocked(ctx, clientID, priority, metadata)
	c.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return chatID, c.publish(ctx, evts)
}

func (c *Coordinator) openChatLocked(ctx context.Context, clientID int64, priority int, metadata map[string]any) (int64, []event.Event, error) {
	if queued, ok := c.queue.Get(clientID); ok {
		return queued.ChatID, nil, nil
	}
	if a, ok := c.assignmentForClientLocked(clientID); ok {
		return a.ChatID, nil, nil
	}

	chatID, err := c.store.CreateChat(ctx, clientID, 0)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: create chat: %v", errors.ErrPersistenceFailure, err)
	}
	if err := c.store.AddParticipant(ctx, chatID, clientID, "client"); err != nil {
		return 0, nil, fmt.Errorf("%w: add client participant: %v", errors.ErrPersistenceFailure, err)
	}
	c.queue.Enqueue(clientID, chatID, priority, metadata)

	created := event.New(event.ChatCreated)
	created.ChatID = chatID
	created.UserID = clientID
	created.ClientID = clientID
	created.Metadata = metadata

	waiting := event.New(event.ClientWaiting)
	waiting.ClientID = clientID
	waiting.UserID = clientID
	waiting.ChatID = chatID
	waiting.Priority = priority
	waiting.QueuePosition = c.queue.Position(clientID)

	evts := append([]event.Event{created, waiting}, c.sweepLocked(ctx)...)
	return chatID, evts, nil
}

// EnqueueExisting replays a chat-created fact from the bus: the chat row
// already exists, only the local queue state is brought up to date. A client
// already queued or assigned makes this a no-op.
func (c *Coordinator) EnqueueExisting(ctx context.Context, clientID, chatID int64, priority int, metadata map[string]any) error {
	c.mu.Lock()
	var evts []event.Event
	_, queued := c.queue.Get(clientID)
	_, assigned := c.assignmentForClientLocked(clientID)
	if !queued && !assigned {
		c.queue.Enqueue(clientID, chatID, priority, metadata)
		evts = c.sweepLocked(ctx)
	}
	c.mu.Unlock()
	return c.publish(ctx, evts)
}

// AssignChatToOperator binds a chat to an operator, dequeues the client,
// persists the binding and announces it. All-or-nothing: a persistence
// failure rolls the in-memory attach, table entry and dequeue back.
// Re-assigning an already-assigned chat to the same operator is a no-op;
// to a different operator it is a conflict.
func (c *Coordinator) AssignChatToOperator(ctx context.Context, chatID, operatorID, clientID int64) error {
	c.mu.Lock()
	evts, err := c.assignLocked(ctx, chatID, operatorID, clientID)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.publish(ctx, evts)
}

func (c *Coordinator) assignLocked(ctx context.Context, chatID, operatorID, clientID int64) ([]event.Event, error) {
	if a, ok := c.assignments[chatID]; ok {
		if a.OperatorID == operatorID {
			return nil, nil
		}
		return nil, errors.ErrAlreadyAssigned
	}
	op, ok := c.operators.Get(operatorID)
	if !ok {
		return nil, errors.ErrOperatorNotFound
	}
	if !op.CanAcceptChat() {
		return nil, errors.ErrOperatorUnavailable
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

	if err := c.persistAssignmentLocked(ctx, chatID, operatorID, op.Kind); err != nil {
		c.operators.DetachChat(operatorID, chatID)
		delete(c.assignments, chatID)
		if wasQueued {
			c.queue.Restore(queued)
		}
		c.log.Error("Assignment rolled back after persistence failure",
			"chat_id", chatID, "operator_id", operatorID, "error", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistenceFailure, err)
	}

	c.log.Info("Chat assigned", "chat_id", chatID, "operator_id", operatorID, "client_id", clientID)

	assigned := event.New(event.ChatAssigned)
	assigned.ChatID = chatID
	assigned.UserID = clientID
	assigned.ClientID = clientID
	assigned.OperatorID = operatorID
	assigned.OperatorKind = op.Kind

	accepted := event.New(event.OperatorAcceptChat)
	accepted.ChatID = chatID
	accepted.ClientID = clientID
	accepted.OperatorID = operatorID
	accepted.OperatorKind = op.Kind

	evts := []event.Event{assigned, accepted}
	if wasQueued {
		removed := event.New(event.ClientRequestRemoved)
		removed.ClientID = clientID
		removed.UserID = clientID
		removed.ChatID = chatID
		removed.OperatorID = operatorID
		evts = append(evts, removed)
	}
	return evts, nil
}

func (c *Coordinator) persistAssignmentLocked(ctx context.Context, chatID, operatorID int64, kind domain.OperatorKind) error {
	if err := c.store.UpdateChatOperator(ctx, chatID, operatorID); err != nil {
		return fmt.Errorf("update chat operator: %w", err)
	}
	if err := c.store.AddParticipant(ctx, chatID, operatorID, string(kind)); err != nil {
		return fmt.Errorf("add operator participant: %w", err)
	}
	return nil
}

// ReleaseOperatorFromChat drops the assignment and detaches the chat from
// its operator. The freed capacity immediately triggers a queue sweep.
func (c *Coordinator) ReleaseOperatorFromChat(ctx context.Context, chatID int64) error {
	c.mu.Lock()
	evts, err := c.releaseLocked(ctx, chatID, false)
	if err == nil {
		evts = append(evts, c.sweepLocked(ctx)...)
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.publish(ctx, evts)
}

func (c *Coordinator) releaseLocked(ctx context.Context, chatID int64, requeue bool) ([]event.Event, error) {
	a, ok := c.assignments[chatID]
	if !ok {
		return nil, errors.ErrChatNotFound
	}
	delete(c.assignments, chatID)
	c.operators.DetachChat(a.OperatorID, chatID)

	// Participant bookkeeping is best-effort here: the in-memory release
	// already happened and a dangling participant row is harmless.
	if err := c.store.MarkParticipantLeft(ctx, chatID, a.OperatorID); err != nil {
		c.log.Error("Failed to mark participant as left", "chat_id", chatID, "operator_id", a.OperatorID, "error", err)
	}

	var evts []event.Event
	if requeue {
		// The client returns at its pre-assignment rank: priority and
		// enqueue time travel with the assignment.
		enqueuedAt := a.EnqueuedAt
		if enqueuedAt.IsZero() {
			enqueuedAt = time.Now().UTC()
		}
		c.queue.Restore(domain.QueuedClient{
			ClientID:   a.ClientID,
			ChatID:     chatID,
			EnqueuedAt: enqueuedAt,
			Priority:   a.Priority,
			Metadata:   a.Metadata,
		})
		waiting := event.New(event.ClientWaiting)
		waiting.ClientID = a.ClientID
		waiting.UserID = a.ClientID
		waiting.ChatID = chatID
		waiting.Priority = a.Priority
		waiting.Metadata = a.Metadata
		waiting.QueuePosition = c.queue.Position(a.ClientID)
		evts = append(evts, waiting)
	}
	c.log.Info("Operator released from chat", "chat_id", chatID, "operator_id", a.OperatorID)
	return evts, nil
}

// TransferChat moves a chat to another operator. Non-admin callers must own
// the chat. A transfer to the current operator is a no-op.
func (c *Coordinator) TransferChat(ctx context.Context, chatID, newOperatorID, fromOperatorID int64, reason string, adminID int64) error {
	c.mu.Lock()
	evts, err := c.transferLocked(ctx, chatID, newOperatorID, fromOperatorID, reason, adminID)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.publish(ctx, evts)
}

func (c *Coordinator) transferLocked(ctx context.Context, chatID, newOperatorID, fromOperatorID int64, reason string, adminID int64) ([]event.Event, error) {
	a, ok := c.assignments[chatID]
	if !ok {
		return nil, errors.ErrChatNotFound
	}
	if adminID == 0 && a.OperatorID != fromOperatorID {
		return nil, errors.ErrNotOwner
	}
	if a.OperatorID == newOperatorID {
		return nil, nil
	}
	newOp, ok := c.operators.Get(newOperatorID)
	if !ok {
		return nil, errors.ErrOperatorNotFound
	}
	if !newOp.CanAcceptChat() {
		return nil, errors.ErrOperatorUnavailable
	}

	previous := a.OperatorID
	c.operators.DetachChat(previous, chatID)
	c.operators.AttachChat(newOperatorID, chatID)
	a.OperatorID = newOperatorID
	a.AssignedAt = time.Now().UTC()
	c.assignments[chatID] = a

	if err := c.store.RecordTransfer(ctx, chatID, newOperatorID, previous, adminID, reason); err != nil {
		c.operators.DetachChat(newOperatorID, chatID)
		c.operators.AttachChat(previous, chatID)
		a.OperatorID = previous
		c.assignments[chatID] = a
		c.log.Error("Transfer rolled back after persistence failure", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistenceFailure, err)
	}

	c.log.Info("Chat transferred", "chat_id", chatID, "from", previous, "to", newOperatorID, "reason", reason)

	transferred := event.New(event.ChatTransferred)
	transferred.ChatID = chatID
	transferred.UserID = a.ClientID
	transferred.ClientID = a.ClientID
	transferred.OperatorID = newOperatorID
	transferred.OperatorKind = newOp.Kind
	transferred.PreviousOperatorID = previous
	transferred.Reason = reason

	evts := []event.Event{transferred}
	if adminID != 0 {
		forced := event.New(event.ForceTransfer)
		forced.ChatID = chatID
		forced.AdminID = adminID
		forced.ClientID = a.ClientID
		forced.OperatorID = newOperatorID
		forced.OperatorKind = newOp.Kind
		forced.PreviousOperatorID = previous
		forced.Reason = reason
		evts = append(evts, forced)
	}
	return evts, nil
}

// ForceTransfer is the admin override: ownership of the chat is not checked,
// capacity and persistence still are. The action is tagged with the admin id
// for audit.
func (c *Coordinator) ForceTransfer(ctx context.Context, chatID, targetOperatorID, sourceOperatorID, adminID int64, reason string) error {
	if adminID == 0 {
		return errors.ErrNotOwner
	}
	return c.TransferChat(ctx, chatID, targetOperatorID, sourceOperatorID, reason, adminID)
}

// CloseChat closes a chat on behalf of one of its participants. The chat may
// be assigned or still queued.
func (c *Coordinator) CloseChat(ctx context.Context, chatID, closedBy int64, reason string) error {
	return c.closeChat(ctx, chatID, closedBy, reason, 0)
}

// ForceClose is the admin variant of CloseChat: ownership is bypassed and an
// audit event is published alongside the closure.
func (c *Coordinator) ForceClose(ctx context.Context, chatID, adminID int64, reason string) error {
	if adminID == 0 {
		return errors.ErrNotOwner
	}
	return c.closeChat(ctx, chatID, adminID, reason, adminID)
}

func (c *Coordinator) closeChat(ctx context.Context, chatID, closedBy int64, reason string, adminID int64) error {
	c.mu.Lock()
	evts, err := c.closeChatLocked(ctx, chatID, closedBy, reason, adminID)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.publish(ctx, evts)
}

func (c *Coordinator) closeChatLocked(ctx context.Context, chatID, closedBy int64, reason string, adminID int64) ([]event.Event, error) {
	a, assigned := c.assignments[chatID]
	queuedClient, queued := c.queuedClientForChatLocked(chatID)

	if !assigned && !queued {
		return nil, errors.ErrChatNotFound
	}
	if adminID == 0 {
		owner := (assigned && (closedBy == a.ClientID || closedBy == a.OperatorID)) ||
			(queued && closedBy == queuedClient.ClientID)
		if !owner {
			return nil, errors.ErrNotOwner
		}
	}

	if err := c.store.CloseChat(ctx, chatID, closedBy, reason); err != nil {
		return nil, fmt.Errorf("%w: close chat: %v", errors.ErrPersistenceFailure, err)
	}

	var evts []event.Event
	if assigned {
		released, err := c.releaseLocked(ctx, chatID, false)
		if err == nil {
			evts = append(evts, released...)
		}
	}
	if queued {
		c.queue.Dequeue(queuedClient.ClientID)
	}

	closed := event.New(event.ChatClosed)
	closed.ChatID = chatID
	closed.UserID = closedBy
	closed.Reason = reason
	evts = append(evts, closed)

	if adminID != 0 {
		forced := event.New(event.ForceClose)
		forced.ChatID = chatID
		forced.AdminID = adminID
		forced.Reason = reason
		evts = append(evts, forced)
	}

	evts = append(evts, c.sweepLocked(ctx)...)
	c.log.Info("Chat closed", "chat_id", chatID, "closed_by", closedBy, "reason", reason)
	return evts, nil
}

// AssignPersonalLawyer creates the sticky client-to-lawyer binding. It is
// independent of the transient chat assignment table: the lawyer chat it
// creates (or reuses) is never auto-routed. A client with an active binding
// gets ErrAlreadyAssigned.
func (c *Coordinator) AssignPersonalLawyer(ctx context.Context, clientID, lawyerID, assignedBy int64) (int64, error) {
	c.mu.Lock()
	chatID, evts, err := c.assignLawyerLocked(ctx, clientID, lawyerID, assignedBy)
	c.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return chatID, c.publish(ctx, evts)
}

func (c *Coordinator) assignLawyerLocked(ctx context.Context, clientID, lawyerID, assignedBy int64) (int64, []event.Event, error) {
	if _, ok := c.lawyers[clientID]; ok {
		return 0, nil, errors.ErrAlreadyAssigned
	}
	existing, found, err := c.store.GetActiveLawyerAssignment(ctx, clientID)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: lookup lawyer assignment: %v", errors.ErrPersistenceFailure, err)
	}
	if found {
		c.lawyers[clientID] = existing
		return 0, nil, errors.ErrAlreadyAssigned
	}

	if _, ok := c.operators.Get(lawyerID); !ok {
		c.operators.Register(lawyerID, domain.KindLawyer, defaultLawyerCapacity)
	}

	// Idempotent lookup-then-create of the client/lawyer chat.
	chatID, found, err := c.store.GetActiveChatBetween(ctx, clientID, lawyerID)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: lookup lawyer chat: %v", errors.ErrPersistenceFailure, err)
	}
	if !found {
		chatID, err = c.store.CreateChat(ctx, clientID, lawyerID)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: create lawyer chat: %v", errors.ErrPersistenceFailure, err)
		}
		if err := c.store.AddParticipant(ctx, chatID, clientID, "client"); err != nil {
			return 0, nil, fmt.Errorf("%w: add client participant: %v", errors.ErrPersistenceFailure, err)
		}
		if err := c.store.AddParticipant(ctx, chatID, lawyerID, string(domain.KindLawyer)); err != nil {
			return 0, nil, fmt.Errorf("%w: add lawyer participant: %v", errors.ErrPersistenceFailure, err)
		}
	}
	if err := c.store.CreateLawyerAssignment(ctx, clientID, lawyerID); err != nil {
		return 0, nil, fmt.Errorf("%w: create lawyer assignment: %v", errors.ErrPersistenceFailure, err)
	}
	c.lawyers[clientID] = lawyerID

	c.log.Info("Personal lawyer assigned", "client_id", clientID, "lawyer_id", lawyerID, "chat_id", chatID, "assigned_by", assignedBy)

	assigned := event.New(event.LawyerAssigned)
	assigned.ClientID = clientID
	assigned.UserID = clientID
	assigned.ChatID = chatID
	assigned.OperatorID = lawyerID
	assigned.OperatorKind = domain.KindLawyer
	assigned.AdminID = assignedBy
	assigned.Reason = "personal_lawyer_assignment"
	return chatID, []event.Event{assigned}, nil
}

// ClientLawyer resolves the active lawyer binding, falling back to the store
// after restarts.
func (c *Coordinator) ClientLawyer(ctx context.Context, clientID int64) (int64, bool) {
	c.mu.Lock()
	if lawyerID, ok := c.lawyers[clientID]; ok {
		c.mu.Unlock()
		return lawyerID, true
	}
	c.mu.Unlock()

	lawyerID, found, err := c.store.GetActiveLawyerAssignment(ctx, clientID)
	if err != nil || !found {
		return 0, false
	}
	c.mu.Lock()
	c.lawyers[clientID] = lawyerID
	c.mu.Unlock()
	return lawyerID, true
}

// SetOperatorOnline registers the operator if needed and marks it online.
// A zero kind is resolved through the role resolver; there is no silent
// "support" default for unknown users. Going online immediately sweeps the
// queue. Replaying the event for an already-online operator publishes
// nothing.
func (c *Coordinator) SetOperatorOnline(ctx context.Context, operatorID int64, kind domain.OperatorKind, capacity int) error {
	if kind == "" {
		resolved, err := c.roles.Resolve(ctx, operatorID)
		if err != nil {
			return fmt.Errorf("%w: operator %d: %v", errors.ErrUnknownRole, operatorID, err)
		}
		kind = resolved
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", errors.ErrUnknownRole, kind)
	}

	c.mu.Lock()
	if _, ok := c.operators.Get(operatorID); !ok {
		c.operators.Register(operatorID, kind, capacity)
	}
	changed := c.operators.GoOnline(operatorID)

	var evts []event.Event
	if changed {
		online := event.New(event.OperatorOnline)
		online.OperatorID = operatorID
		online.OperatorKind = kind
		online.MaxConcurrentChats = capacity
		evts = append(evts, online)
	}
	evts = append(evts, c.sweepLocked(ctx)...)
	c.mu.Unlock()
	return c.publish(ctx, evts)
}

// SetOperatorOffline marks the operator offline and redistributes its chats:
// each one is transferred to the best available operator, and chats nobody
// can take are released with their client put back at the head of the wait
// path instead of being dropped.
func (c *Coordinator) SetOperatorOffline(ctx context.Context, operatorID int64) error {
	c.mu.Lock()
	evts, err := c.setOfflineLocked(ctx, operatorID)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.publish(ctx, evts)
}

func (c *Coordinator) setOfflineLocked(ctx context.Context, operatorID int64) ([]event.Event, error) {
	op, ok := c.operators.Get(operatorID)
	if !ok {
		return nil, errors.ErrOperatorNotFound
	}
	changed := c.operators.GoOffline(operatorID)

	held := make([]int64, 0, len(op.CurrentChats))
	for chatID := range op.CurrentChats {
		held = append(held, chatID)
	}
	sort.Slice(held, func(i, j int) bool { return held[i] < held[j] })

	var evts []event.Event
	for _, chatID := range held {
		target, found := c.pickOperatorLocked()
		if found {
			transferred, err := c.transferLocked(ctx, chatID, target.ID, operatorID, "operator_offline", 0)
			if err == nil {
				evts = append(evts, transferred...)
				continue
			}
			c.log.Warn("Redistribution transfer failed, releasing chat",
				"chat_id", chatID, "target", target.ID, "error", err)
		} else {
			c.log.Warn("No available operator for redistribution, releasing chat", "chat_id", chatID)
		}
		released, err := c.releaseLocked(ctx, chatID, true)
		if err != nil {
			c.log.Error("Failed to release chat of offline operator", "chat_id", chatID, "error", err)
			continue
		}
		evts = append(evts, released...)
	}

	if changed {
		offline := event.New(event.OperatorOffline)
		offline.OperatorID = operatorID
		offline.OperatorKind = op.Kind
		evts = append(evts, offline)
	}
	return evts, nil
}

// SetOperatorBusy toggles availability without touching the online flag.
// Becoming available again sweeps the queue.
func (c *Coordinator) SetOperatorBusy(ctx context.Context, operatorID int64, busy bool) error {
	c.mu.Lock()
	var evts []event.Event
	ok := c.operators.SetBusy(operatorID, busy)
	if ok {
		t := event.OperatorAvailable
		if busy {
			t = event.OperatorBusy
		}
		e := event.New(t)
		e.OperatorID = operatorID
		evts = append(evts, e)
		if !busy {
			evts = append(evts, c.sweepLocked(ctx)...)
		}
	}
	c.mu.Unlock()
	if !ok {
		return errors.ErrOperatorNotFound
	}
	return c.publish(ctx, evts)
}

// UpdatePriority changes a waiting client's priority. Admin callers get an
// audit event on top of the queue event.
func (c *Coordinator) UpdatePriority(ctx context.Context, clientID int64, newPriority int, adminID int64) (int, error) {
	c.mu.Lock()
	ok := c.queue.Reprioritize(clientID, newPriority)
	position := c.queue.Position(clientID)
	c.mu.Unlock()
	if !ok {
		return -1, errors.ErrClientNotFound
	}

	changed := event.New(event.PriorityChanged)
	changed.ClientID = clientID
	changed.UserID = clientID
	changed.Priority = newPriority
	changed.QueuePosition = position

	evts := []event.Event{changed}
	if adminID != 0 {
		set := event.New(event.PrioritySet)
		set.ClientID = clientID
		set.AdminID = adminID
		set.Priority = newPriority
		evts = append(evts, set)
	}
	return position, c.publish(ctx, evts)
}

// RemoveFromQueue evicts a waiting client (admin action or client disconnect
// before assignment).
func (c *Coordinator) RemoveFromQueue(ctx context.Context, clientID int64) error {
	c.mu.Lock()
	queued, ok := c.queue.Dequeue(clientID)
	c.mu.Unlock()
	if !ok {
		return errors.ErrClientNotFound
	}

	removed := event.New(event.ClientRequestRemoved)
	removed.ClientID = clientID
	removed.UserID = clientID
	removed.ChatID = queued.ChatID
	return c.publish(ctx, []event.Event{removed})
}

// DisconnectUser maps a dropped connection onto engine state: a waiting
// client leaves the queue, a known operator goes offline. Unknown users are
// ignored.
func (c *Coordinator) DisconnectUser(ctx context.Context, userID int64) error {
	c.mu.Lock()
	_, isOperator := c.operators.Get(userID)
	_, isQueued := c.queue.Get(userID)
	c.mu.Unlock()

	if isOperator {
		return c.SetOperatorOffline(ctx, userID)
	}
	if isQueued {
		return c.RemoveFromQueue(ctx, userID)
	}
	return nil
}

// sweepLocked greedily matches waiting clients to operators, support kind
// first and least loaded within a kind. Every pass either assigns someone or
// stops, so the loop is bounded by queue size times available capacity.
func (c *Coordinator) sweepLocked(ctx context.Context) []event.Event {
	var evts []event.Event
	for {
		assignedAny := false
		for _, client := range c.queue.Snapshot() {
			target, ok := c.pickOperatorLocked()
			if !ok {
				return evts
			}
			assigned, err := c.assignLocked(ctx, client.ChatID, target.ID, client.ClientID)
			if err != nil {
				c.log.Warn("Auto-assignment failed", "chat_id", client.ChatID, "operator_id", target.ID, "error", err)
				continue
			}
			evts = append(evts, assigned...)
			assignedAny = true
		}
		if !assignedAny {
			return evts
		}
	}
}

// pickOperatorLocked walks the kind preference order and picks the least
// loaded operator of the first kind with capacity.
func (c *Coordinator) pickOperatorLocked() (domain.OperatorState, bool) {
	for _, kind := range domain.PreferenceOrder() {
		k := kind
		if available := c.operators.ListAvailable(&k); len(available) > 0 {
			return available[0], true
		}
	}
	return domain.OperatorState{}, false
}

func (c *Coordinator) assignmentForClientLocked(clientID int64) (domain.Assignment, bool) {
	for _, a := range c.assignments {
		if a.ClientID == clientID {
			return a, true
		}
	}
	return domain.Assignment{}, false
}

func (c *Coordinator) queuedClientForChatLocked(chatID int64) (domain.QueuedClient, bool) {
	for _, q := range c.queue.Snapshot() {
		if q.ChatID == chatID {
			return q, true
		}
	}
	return domain.QueuedClient{}, false
}

func (c *Coordinator) publish(ctx context.Context, evts []event.Event) error {
	var failed int
	for _, e := range evts {
		if err := c.publisher.Publish(ctx, e); err != nil {
			failed++
			c.log.Error("Event publish failed", "event_type", e.Type, "event_id", e.ID, "error", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d events", errors.ErrPublishFailure, failed, len(evts))
	}
	return nil
}

// Accessors used by the admin surface and the bridge. All return copies.

func (c *Coordinator) ChatOperator(chatID int64) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.assignments[chatID]
	return a.OperatorID, ok
}

func (c *Coordinator) ChatClient(chatID int64) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.assignments[chatID]
	return a.ClientID, ok
}

func (c *Coordinator) OperatorChats(operatorID int64) []int64 {
	op, ok := c.operators.Get(operatorID)
	if !ok {
		return nil
	}
	chats := make([]int64, 0, len(op.CurrentChats))
	for id := range op.CurrentChats {
		chats = append(chats, id)
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i] < chats[j] })
	return chats
}

func (c *Coordinator) QueuePosition(clientID int64) int {
	return c.queue.Position(clientID)
}

// OperatorLoad describes one operator in the assignment report.
type OperatorLoad struct {
	Kind         domain.OperatorKind `json:"kind"`
	CurrentChats int                 `json:"current_chats"`
	MaxChats     int                 `json:"max_chats"`
	Utilization  float64             `json:"utilization"`
	Available    bool                `json:"available"`
}

// AssignmentStats is the reporting view over the assignment table.
type AssignmentStats struct {
	TotalActiveChats       int                    `json:"total_active_chats"`
	TotalLawyerAssignments int                    `json:"total_lawyer_assignments"`
	OperatorLoads          map[int64]OperatorLoad `json:"operator_loads"`
}

func (c *Coordinator) Stats() AssignmentStats {
	c.mu.Lock()
	stats := AssignmentStats{
		TotalActiveChats:       len(c.assignments),
		TotalLawyerAssignments: len(c.lawyers),
		OperatorLoads:          make(map[int64]OperatorLoad),
	}
	c.mu.Unlock()

	for _, op := range c.operators.Snapshot() {
		load := OperatorLoad{
			Kind:         op.Kind,
			CurrentChats: op.Load(),
			MaxChats:     op.MaxConcurrentChats,
			Available:    op.CanAcceptChat(),
		}
		if op.MaxConcurrentChats > 0 {
			load.Utilization = float64(op.Load()) / float64(op.MaxConcurrentChats)
		}
		stats.OperatorLoads[op.ID] = load
	}
	return stats
}
