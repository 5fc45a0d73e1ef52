package bus

import (
	"context"
	stderrors "errors"
	"log/slog"

	"support-chat/contract"
	"support-chat/domain/event"
	domain "support-chat/domain/routing"
	"support-chat/errors"
)

// Engine is the slice of the coordinator the bridge drives. Local intents
// and replayed bus events go through the same methods, so an offline batch
// process or another engine instance can drive the identical state machine.
type Engine interface {
	EnqueueExisting(ctx context.Context, clientID, chatID int64, priority int, metadata map[string]any) error
	AssignChatToOperator(ctx context.Context, chatID, operatorID, clientID int64) error
	SetOperatorOnline(ctx context.Context, operatorID int64, kind domain.OperatorKind, capacity int) error
	SetOperatorOffline(ctx context.Context, operatorID int64) error
	SetOperatorBusy(ctx context.Context, operatorID int64, busy bool) error
	QueuePosition(clientID int64) int

	ApplyChatAssigned(chatID, operatorID, clientID int64, kind domain.OperatorKind)
	ApplyChatTransferred(chatID, newOperatorID, previousOperatorID, clientID int64, kind domain.OperatorKind)
	ApplyChatClosed(chatID int64)
	ApplyClientRemoved(clientID int64)
	ApplyPriorityChange(clientID int64, priority int)
	ApplyLawyerAssigned(clientID, lawyerID int64)
}

type HandlerFunc func(ctx context.Context, e event.Event) error

// Bridge dispatches inbound bus events by topic and declared event type.
// Replays of an already-seen event id are dropped before any handler runs.
type Bridge struct {
	log      *slog.Logger
	seen     contract.SeenStore
	handlers map[Topic]map[event.Type]HandlerFunc
}

func NewBridge(log *slog.Logger, seen contract.SeenStore) *Bridge {
	return &Bridge{
		log:      log,
		seen:     seen,
		handlers: make(map[Topic]map[event.Type]HandlerFunc),
	}
}

func (b *Bridge) Register(topic Topic, t event.Type, h HandlerFunc) {
	if _, ok := b.handlers[topic]; !ok {
		b.handlers[topic] = make(map[event.Type]HandlerFunc)
	}
	b.handlers[topic][t] = h
}

// Dispatch routes one inbound event to its handler. Unknown event types are
// logged and dropped: a newer producer must not wedge an older consumer.
// The event id is marked seen only after its handler succeeded, so a nacked
// delivery is retried on redelivery instead of being dropped as a duplicate.
func (b *Bridge) Dispatch(ctx context.Context, topic Topic, e event.Event) error {
	if b.seen != nil && e.ID != "" {
		seen, err := b.seen.Seen(e.ID)
		if err != nil {
			b.log.Warn("Dedup check failed, handling anyway", "event_id", e.ID, "error", err)
		} else if seen {
			b.log.Debug("Duplicate event dropped", "event_id", e.ID, "event_type", e.Type)
			return nil
		}
	}

	byType, ok := b.handlers[topic]
	if !ok {
		b.log.Warn("No handlers for topic", "topic", topic)
		return nil
	}
	h, ok := byType[e.Type]
	if !ok {
		b.log.Warn("No handler for event type", "topic", topic, "event_type", e.Type)
		return nil
	}
	if err := h(ctx, e); err != nil {
		return err
	}
	if b.seen != nil && e.ID != "" {
		if err := b.seen.Mark(e.ID); err != nil {
			b.log.Warn("Failed to mark event handled", "event_id", e.ID, "error", err)
		}
	}
	return nil
}

// BindEngine registers the default handler set: facts update the local state
// copy and fan out to this instance's connections, intents drive the full
// coordinator path exactly as a local call would.
func (b *Bridge) BindEngine(engine Engine, notifier contract.Notifier) {
	// Chat lifecycle.
	b.Register(TopicChatEvents, event.ChatCreated, func(ctx context.Context, e event.Event) error {
		if err := engine.EnqueueExisting(ctx, e.ClientID, e.ChatID, e.Priority, e.Metadata); err != nil {
			return err
		}
		notifier.NotifyNewChat(e.ChatID, e.ClientID)
		return nil
	})
	b.Register(TopicChatEvents, event.ChatClosed, func(ctx context.Context, e event.Event) error {
		engine.ApplyChatClosed(e.ChatID)
		notifier.NotifyChatClosed(e.ChatID, e.UserID, e.Reason)
		return nil
	})

	// Queue state.
	b.Register(TopicSupportQueue, event.ClientWaiting, func(ctx context.Context, e event.Event) error {
		if err := engine.EnqueueExisting(ctx, e.ClientID, e.ChatID, e.Priority, e.Metadata); err != nil {
			return err
		}
		notifier.NotifyQueueUpdate(e.ClientID, engine.QueuePosition(e.ClientID))
		return nil
	})
	b.Register(TopicSupportQueue, event.ClientRequestRemoved, func(ctx context.Context, e event.Event) error {
		engine.ApplyClientRemoved(e.ClientID)
		notifier.NotifyClientTaken(e.ClientID, e.OperatorID)
		return nil
	})
	b.Register(TopicSupportQueue, event.PriorityChanged, func(ctx context.Context, e event.Event) error {
		engine.ApplyPriorityChange(e.ClientID, e.Priority)
		notifier.NotifyQueueUpdate(e.ClientID, engine.QueuePosition(e.ClientID))
		return nil
	})

	// Operator state.
	b.Register(TopicOperatorEvents, event.OperatorOnline, func(ctx context.Context, e event.Event) error {
		if err := engine.SetOperatorOnline(ctx, e.OperatorID, e.OperatorKind, e.MaxConcurrentChats); err != nil {
			return err
		}
		notifier.NotifyOperatorStatus(e.OperatorID, "online", e.Metadata)
		return nil
	})
	b.Register(TopicOperatorEvents, event.OperatorOffline, func(ctx context.Context, e event.Event) error {
		if err := engine.SetOperatorOffline(ctx, e.OperatorID); ignoreNotFound(err) != nil {
			return err
		}
		notifier.NotifyOperatorStatus(e.OperatorID, "offline", e.Metadata)
		return nil
	})
	b.Register(TopicOperatorEvents, event.OperatorBusy, func(ctx context.Context, e event.Event) error {
		return ignoreNotFound(engine.SetOperatorBusy(ctx, e.OperatorID, true))
	})
	b.Register(TopicOperatorEvents, event.OperatorAvailable, func(ctx context.Context, e event.Event) error {
		return ignoreNotFound(engine.SetOperatorBusy(ctx, e.OperatorID, false))
	})
	b.Register(TopicOperatorEvents, event.OperatorAcceptChat, func(ctx context.Context, e event.Event) error {
		err := engine.AssignChatToOperator(ctx, e.ChatID, e.OperatorID, e.ClientID)
		if stderrors.Is(err, errors.ErrAlreadyAssigned) {
			// Someone else won the race for this client; the conflict was
			// already reported to the losing operator on its own instance.
			b.log.Info("Replayed accept lost the race", "chat_id", e.ChatID, "operator_id", e.OperatorID)
			return nil
		}
		return err
	})

	// Assignment state.
	b.Register(TopicChatAssignments, event.ChatAssigned, func(ctx context.Context, e event.Event) error {
		engine.ApplyChatAssigned(e.ChatID, e.OperatorID, e.ClientID, e.OperatorKind)
		notifier.NotifyChatAssigned(e.ChatID, e.OperatorID, e.ClientID)
		return nil
	})
	b.Register(TopicChatAssignments, event.ChatTransferred, func(ctx context.Context, e event.Event) error {
		engine.ApplyChatTransferred(e.ChatID, e.OperatorID, e.PreviousOperatorID, e.ClientID, e.OperatorKind)
		notifier.NotifyChatTransferred(e.ChatID, e.OperatorID, e.PreviousOperatorID, e.Reason)
		return nil
	})
	b.Register(TopicChatAssignments, event.LawyerAssigned, func(ctx context.Context, e event.Event) error {
		engine.ApplyLawyerAssigned(e.ClientID, e.OperatorID)
		notifier.NotifyLawyerAssigned(e.ClientID, e.OperatorID, e.ChatID)
		return nil
	})

	// Admin actions. The originating instance already persisted and
	// published the matching assignment fact; re-running the intent here
	// would record the transfer or closure a second time. These are applied
	// as facts, racing the twin on the assignments topic is then harmless.
	b.Register(TopicAdminActions, event.ForceTransfer, func(ctx context.Context, e event.Event) error {
		engine.ApplyChatTransferred(e.ChatID, e.OperatorID, e.PreviousOperatorID, e.ClientID, e.OperatorKind)
		return nil
	})
	b.Register(TopicAdminActions, event.ForceClose, func(ctx context.Context, e event.Event) error {
		engine.ApplyChatClosed(e.ChatID)
		return nil
	})
	b.Register(TopicAdminActions, event.PrioritySet, func(ctx context.Context, e event.Event) error {
		engine.ApplyPriorityChange(e.ClientID, e.Priority)
		return nil
	})
}

// ignoreNotFound treats not-found on replay as already-applied: the entity
// was removed by the first delivery.
func ignoreNotFound(err error) error {
	if stderrors.Is(err, errors.ErrChatNotFound) ||
		stderrors.Is(err, errors.ErrClientNotFound) ||
		stderrors.Is(err, errors.ErrOperatorNotFound) {
		return nil
	}
	return err
}
