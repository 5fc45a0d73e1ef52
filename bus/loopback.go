package bus

import (
	"context"
	"log/slog"
	"sync"

	"support-chat/domain/event"
)

// Loopback is a broker-less publisher that feeds published events straight
// back into the local bridge. It keeps a single-instance deployment working
// without a running broker and is what the tests dispatch through.
type Loopback struct {
	log    *slog.Logger
	bridge *Bridge

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

func NewLoopback(bridge *Bridge, log *slog.Logger) *Loopback {
	return &Loopback{log: log, bridge: bridge}
}

func (l *Loopback) Publish(ctx context.Context, e event.Event) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.wg.Add(1)
	l.mu.Unlock()

	// Dispatch outside the caller's stack so a publish from inside a
	// coordinator operation never re-enters the coordinator synchronously.
	go func() {
		defer l.wg.Done()
		if err := l.bridge.Dispatch(context.WithoutCancel(ctx), TopicFor(e.Type), e); err != nil {
			l.log.Error("Loopback dispatch failed", "event_type", e.Type, "event_id", e.ID, "error", err)
		}
	}()
	return nil
}

// Drain waits for in-flight dispatches and stops accepting new ones.
func (l *Loopback) Drain() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.wg.Wait()
}

// MemorySeenStore is the in-process dedup table used in loopback mode,
// where events never cross an instance boundary.
type MemorySeenStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemorySeenStore() *MemorySeenStore {
	return &MemorySeenStore{seen: make(map[string]struct{})}
}

func (m *MemorySeenStore) Seen(eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[eventID]
	return ok, nil
}

func (m *MemorySeenStore) Mark(eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[eventID] = struct{}{}
	return nil
}

func (m *MemorySeenStore) Close() error {
	return nil
}
