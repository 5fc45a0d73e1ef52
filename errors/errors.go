package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Capacity
	ErrOperatorUnavailable = fmt.Errorf("operator cannot accept the chat")

	// Conflict
	ErrAlreadyAssigned = fmt.Errorf("already assigned")

	// Not-found
	ErrChatNotFound     = fmt.Errorf("chat not found")
	ErrClientNotFound   = fmt.Errorf("client not found")
	ErrOperatorNotFound = fmt.Errorf("operator not found")

	// Authorization
	ErrNotOwner = fmt.Errorf("caller does not own the chat")

	// Infrastructure
	ErrPersistenceFailure = fmt.Errorf("persistence failure")
	ErrPublishFailure     = fmt.Errorf("event publish failure")

	ErrUnknownRole = fmt.Errorf("no role known for user")
)
