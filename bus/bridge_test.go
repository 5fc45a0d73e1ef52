package bus

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"support-chat/domain/event"
	domain "support-chat/domain/routing"
	"support-chat/errors"
	"support-chat/mocks"
)

// fakeEngine records bridge calls and returns scripted errors.
type fakeEngine struct {
	mu       sync.Mutex
	calls    []string
	errs     map[string]error
	position int
}

func (f *fakeEngine) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeEngine) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) EnqueueExisting(context.Context, int64, int64, int, map[string]any) error {
	return f.record("EnqueueExisting")
}
func (f *fakeEngine) AssignChatToOperator(context.Context, int64, int64, int64) error {
	return f.record("AssignChatToOperator")
}
func (f *fakeEngine) SetOperatorOnline(context.Context, int64, domain.OperatorKind, int) error {
	return f.record("SetOperatorOnline")
}
func (f *fakeEngine) SetOperatorOffline(context.Context, int64) error {
	return f.record("SetOperatorOffline")
}
func (f *fakeEngine) SetOperatorBusy(context.Context, int64, bool) error {
	return f.record("SetOperatorBusy")
}
func (f *fakeEngine) QueuePosition(int64) int { return f.position }
func (f *fakeEngine) ApplyChatAssigned(int64, int64, int64, domain.OperatorKind) {
	_ = f.record("ApplyChatAssigned")
}
func (f *fakeEngine) ApplyChatTransferred(int64, int64, int64, int64, domain.OperatorKind) {
	_ = f.record("ApplyChatTransferred")
}
func (f *fakeEngine) ApplyChatClosed(int64)          { _ = f.record("ApplyChatClosed") }
func (f *fakeEngine) ApplyClientRemoved(int64)       { _ = f.record("ApplyClientRemoved") }
func (f *fakeEngine) ApplyPriorityChange(int64, int) { _ = f.record("ApplyPriorityChange") }
func (f *fakeEngine) ApplyLawyerAssigned(int64, int64) {
	_ = f.record("ApplyLawyerAssigned")
}

func newBoundBridge(t *testing.T) (*Bridge, *fakeEngine, *mocks.MockNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	engine := &fakeEngine{errs: make(map[string]error)}
	notifier := mocks.NewMockNotifier(ctrl)

	bridge := NewBridge(slog.Default(), NewMemorySeenStore())
	bridge.BindEngine(engine, notifier)
	return bridge, engine, notifier
}

func TestBridge_DispatchRoutesFacts(t *testing.T) {
	req := require.New(t)
	bridge, engine, notifier := newBoundBridge(t)
	ctx := context.Background()

	e := event.New(event.ChatAssigned)
	e.ChatID = 1
	e.OperatorID = 2
	e.ClientID = 10
	e.OperatorKind = domain.KindSupport

	notifier.EXPECT().NotifyChatAssigned(int64(1), int64(2), int64(10))

	req.NoError(bridge.Dispatch(ctx, TopicFor(e.Type), e))
	req.Equal([]string{"ApplyChatAssigned"}, engine.called())
}

func TestBridge_DuplicateEventDropped(t *testing.T) {
	req := require.New(t)
	bridge, engine, notifier := newBoundBridge(t)
	ctx := context.Background()

	e := event.New(event.ChatClosed)
	e.ChatID = 1
	e.UserID = 10
	e.Reason = "resolved"

	// The notifier fires once even though the event arrives twice
	notifier.EXPECT().NotifyChatClosed(int64(1), int64(10), "resolved").Times(1)

	req.NoError(bridge.Dispatch(ctx, TopicChatEvents, e))
	req.NoError(bridge.Dispatch(ctx, TopicChatEvents, e))
	req.Equal([]string{"ApplyChatClosed"}, engine.called())
}

func TestBridge_UnknownTypeIsDropped(t *testing.T) {
	req := require.New(t)
	bridge, engine, _ := newBoundBridge(t)

	e := event.New("some_future_event")
	req.NoError(bridge.Dispatch(context.Background(), TopicChatEvents, e))
	req.Empty(engine.called())
}

func TestBridge_AcceptIntentSwallowsLostRace(t *testing.T) {
	req := require.New(t)
	bridge, engine, _ := newBoundBridge(t)
	engine.errs["AssignChatToOperator"] = errors.ErrAlreadyAssigned

	e := event.New(event.OperatorAcceptChat)
	e.ChatID = 1
	e.OperatorID = 2
	e.ClientID = 10

	// A replayed accept that lost the race is not an error
	req.NoError(bridge.Dispatch(context.Background(), TopicOperatorEvents, e))
	req.Equal([]string{"AssignChatToOperator"}, engine.called())
}

func TestBridge_ReplayIgnoresAlreadyRemovedEntities(t *testing.T) {
	req := require.New(t)
	bridge, engine, notifier := newBoundBridge(t)
	engine.errs["SetOperatorOffline"] = errors.ErrOperatorNotFound

	e := event.New(event.OperatorOffline)
	e.OperatorID = 404

	notifier.EXPECT().NotifyOperatorStatus(int64(404), "offline", gomock.Nil())

	req.NoError(bridge.Dispatch(context.Background(), TopicOperatorEvents, e))
}

func TestBridge_AdminEventsApplyAsFacts(t *testing.T) {
	req := require.New(t)
	bridge, engine, _ := newBoundBridge(t)
	ctx := context.Background()

	// Given admin actions the originating instance already persisted
	transfer := event.New(event.ForceTransfer)
	transfer.ChatID = 1
	transfer.ClientID = 10
	transfer.OperatorID = 3
	transfer.PreviousOperatorID = 2
	transfer.AdminID = 99
	transfer.OperatorKind = domain.KindSupport

	closure := event.New(event.ForceClose)
	closure.ChatID = 1
	closure.AdminID = 99

	// When they arrive on the admin topic
	req.NoError(bridge.Dispatch(ctx, TopicAdminActions, transfer))
	req.NoError(bridge.Dispatch(ctx, TopicAdminActions, closure))

	// Then local state is brought in line without re-recording anything
	req.Equal([]string{"ApplyChatTransferred", "ApplyChatClosed"}, engine.called())
}

func TestBridge_FailedEventRetriesOnRedelivery(t *testing.T) {
	req := require.New(t)
	bridge, engine, notifier := newBoundBridge(t)
	ctx := context.Background()
	engine.errs["EnqueueExisting"] = errors.ErrPersistenceFailure

	e := event.New(event.ChatCreated)
	e.ChatID = 1
	e.ClientID = 10

	notifier.EXPECT().NotifyNewChat(int64(1), int64(10)).Times(1)

	// Given a first delivery whose handler fails
	err := bridge.Dispatch(ctx, TopicChatEvents, e)
	req.ErrorIs(err, errors.ErrPersistenceFailure)

	// When the broker redelivers the same event after the fault clears
	delete(engine.errs, "EnqueueExisting")

	// Then it is handled, not dropped as a duplicate
	req.NoError(bridge.Dispatch(ctx, TopicChatEvents, e))
	req.Equal([]string{"EnqueueExisting", "EnqueueExisting"}, engine.called())

	// A third delivery is the actual duplicate
	req.NoError(bridge.Dispatch(ctx, TopicChatEvents, e))
	req.Equal([]string{"EnqueueExisting", "EnqueueExisting"}, engine.called())
}

func TestBridge_IntentErrorsPropagate(t *testing.T) {
	req := require.New(t)
	bridge, engine, _ := newBoundBridge(t)
	engine.errs["EnqueueExisting"] = errors.ErrPersistenceFailure

	e := event.New(event.ChatCreated)
	e.ChatID = 1
	e.ClientID = 10

	err := bridge.Dispatch(context.Background(), TopicChatEvents, e)
	req.ErrorIs(err, errors.ErrPersistenceFailure)
}

func TestTopicFor(t *testing.T) {
	req := require.New(t)

	req.Equal(TopicChatEvents, TopicFor(event.ChatCreated))
	req.Equal(TopicChatEvents, TopicFor(event.ChatClosed))
	req.Equal(TopicSupportQueue, TopicFor(event.ClientWaiting))
	req.Equal(TopicOperatorEvents, TopicFor(event.OperatorAcceptChat))
	req.Equal(TopicChatAssignments, TopicFor(event.ChatAssigned))
	req.Equal(TopicChatAssignments, TopicFor(event.LawyerAssigned))
	req.Equal(TopicAdminActions, TopicFor(event.ForceClose))
}

func TestMemorySeenStore(t *testing.T) {
	req := require.New(t)
	s := NewMemorySeenStore()

	// Checking never marks
	seen, err := s.Seen("a")
	req.NoError(err)
	req.False(seen)

	seen, err = s.Seen("a")
	req.NoError(err)
	req.False(seen)

	req.NoError(s.Mark("a"))

	seen, err = s.Seen("a")
	req.NoError(err)
	req.True(seen)

	req.NoError(s.Close())
}

func TestLoopback_DispatchesPublishedEvents(t *testing.T) {
	req := require.New(t)
	bridge, engine, _ := newBoundBridge(t)
	loopback := NewLoopback(bridge, slog.Default())

	e := event.New(event.ChatClosed)
	e.ChatID = 1
	e.UserID = 10

	// ChatClosed fans out through the notifier, which we did not expect
	// above; register a bare handler instead for this test.
	bridge.Register(TopicChatEvents, event.ChatClosed, func(_ context.Context, ev event.Event) error {
		engine.ApplyChatClosed(ev.ChatID)
		return nil
	})

	req.NoError(loopback.Publish(context.Background(), e))
	loopback.Drain()

	req.Equal([]string{"ApplyChatClosed"}, engine.called())

	// A drained loopback silently drops further publishes
	req.NoError(loopback.Publish(context.Background(), event.New(event.ChatClosed)))
}
