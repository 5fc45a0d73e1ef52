//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"support-chat/domain/event"
	"support-chat/domain/routing"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself, the supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision, avoiding manual naming in the interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Channel is one live duplex connection to a user. The engine does not care
// whether it is a WebSocket, a long-poll bridge or an in-memory pipe.
type Channel interface {
	Send(v any) error
	Close() error
}

// Publisher emits a domain event to the bus. Implementations must not be
// called while the coordinator lock is held.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}

// ChatStore is the narrow persistence collaborator. Every call is expected
// to be transactional and to fail loudly; partial application is a bug in
// the store, not something the engine compensates for.
type ChatStore interface {
	CreateChat(ctx context.Context, clientID, operatorID int64) (int64, error)
	GetChatByID(ctx context.Context, chatID int64) (routing.Chat, error)
	UpdateChatOperator(ctx context.Context, chatID, operatorID int64) error
	AddParticipant(ctx context.Context, chatID, userID int64, role string) error
	MarkParticipantLeft(ctx context.Context, chatID, userID int64) error
	RecordTransfer(ctx context.Context, chatID, toOperatorID, fromOperatorID, adminID int64, reason string) error
	CloseChat(ctx context.Context, chatID, closedBy int64, reason string) error
	CreateLawyerAssignment(ctx context.Context, clientID, lawyerID int64) error
	GetActiveLawyerAssignment(ctx context.Context, clientID int64) (int64, bool, error)
	GetActiveChatBetween(ctx context.Context, clientID, operatorID int64) (int64, bool, error)
}

// RoleResolver maps an authenticated user to an operator kind. Unknown users
// are an error, never silently "support".
type RoleResolver interface {
	Resolve(ctx context.Context, userID int64) (routing.OperatorKind, error)
}

// Notifier is the local fan-out surface consumed by the bus bridge.
type Notifier interface {
	NotifyNewChat(chatID, clientID int64)
	NotifyQueueUpdate(clientID int64, position int)
	NotifyClientTaken(clientID, takenBy int64)
	NotifyChatAssigned(chatID, operatorID, clientID int64)
	NotifyChatTransferred(chatID, newOperatorID, previousOperatorID int64, reason string)
	NotifyChatClosed(chatID, closedBy int64, reason string)
	NotifyLawyerAssigned(clientID, lawyerID, chatID int64)
	NotifyOperatorStatus(operatorID int64, status string, metadata map[string]any)
}

// SeenStore deduplicates replayed bus events across restarts. Seen only
// reads; Mark is called after an event was handled successfully, so a
// redelivery of a failed event is not mistaken for a duplicate.
type SeenStore interface {
	Seen(eventID string) (bool, error)
	Mark(eventID string) error
	Close() error
}
