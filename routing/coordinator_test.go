package routing

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

type eventSink struct {
	mu     sync.Mutex
	events []event.Event
}

func (s *eventSink) add(e event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *eventSink) ofType(t event.Type) []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []event.Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type coordinatorFixture struct {
	coordinator *Coordinator
	queue       *WaitQueue
	operators   *OperatorRegistry
	store       *mocks.MockChatStore
	publisher   *mocks.MockPublisher
	roles       *mocks.MockRoleResolver
	sink        *eventSink
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := slog.Default()

	f := &coordinatorFixture{
		queue:     NewWaitQueue(log),
		operators: NewOperatorRegistry(log),
		store:     mocks.NewMockChatStore(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		roles:     mocks.NewMockRoleResolver(ctrl),
		sink:      &eventSink{},
	}
	f.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			f.sink.add(e)
			return nil
		}).
		AnyTimes()
	f.coordinator = NewCoordinator(log, f.queue, f.operators, f.store, f.publisher, f.roles)
	return f
}

// allowPersistence wires the happy path for every store call.
func (f *coordinatorFixture) allowPersistence(nextChatID *int64) {
	f.store.EXPECT().
		CreateChat(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, int64, int64) (int64, error) {
			*nextChatID++
			return *nextChatID, nil
		}).
		AnyTimes()
	f.store.EXPECT().AddParticipant(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.store.EXPECT().UpdateChatOperator(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.store.EXPECT().MarkParticipantLeft(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.store.EXPECT().RecordTransfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.store.EXPECT().CloseChat(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestCoordinator_OpenChatQueuesClient(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	// When a client opens a chat with no operator online
	chatID, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)
	req.Equal(int64(1), chatID)
	req.Equal(1, f.coordinator.QueuePosition(10))

	// Then reopening returns the same chat without a second row
	again, err := f.coordinator.OpenChat(ctx, 10, 5, nil)
	req.NoError(err)
	req.Equal(chatID, again)
	req.Equal(1, f.queue.Len())

	req.Len(f.sink.ofType(event.ChatCreated), 1)
	req.Len(f.sink.ofType(event.ClientWaiting), 1)
}

func TestCoordinator_SweepAssignsWhenOperatorComesOnline(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	chatID, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)

	// When an operator comes online with room
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 3))

	// Then the waiting client is auto-assigned
	operatorID, ok := f.coordinator.ChatOperator(chatID)
	req.True(ok)
	req.Equal(int64(1), operatorID)
	req.Equal(0, f.queue.Len())
	req.Equal([]int64{chatID}, f.coordinator.OperatorChats(1))
	req.Len(f.sink.ofType(event.ChatAssigned), 1)
}

func TestCoordinator_AcceptConflict(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	chatID, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)

	// Given the first operator online, so the sweep hands it the chat
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 3))
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 2, domain.KindSupport, 3))

	// When the second operator tries to accept the same chat
	err = f.coordinator.AssignChatToOperator(ctx, chatID, 2, 10)
	req.ErrorIs(err, errors.ErrAlreadyAssigned)

	// Then the holder's repeat accept is a harmless no-op
	req.NoError(f.coordinator.AssignChatToOperator(ctx, chatID, 1, 10))
	operatorID, _ := f.coordinator.ChatOperator(chatID)
	req.Equal(int64(1), operatorID)
	req.Len(f.sink.ofType(event.ChatAssigned), 1)
}

func TestCoordinator_CapacityNeverExceeded(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 1))

	firstChat, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)
	_, err = f.coordinator.OpenChat(ctx, 11, 0, nil)
	req.NoError(err)

	// Then only one chat fits, the second client keeps waiting
	req.Equal([]int64{firstChat}, f.coordinator.OperatorChats(1))
	req.Equal(1, f.coordinator.QueuePosition(11))

	// When the first chat closes, the freed slot is swept immediately
	req.NoError(f.coordinator.CloseChat(ctx, firstChat, 10, "resolved"))
	req.Equal(-1, f.coordinator.QueuePosition(11))
	req.Len(f.coordinator.OperatorChats(1), 1)
}

func TestCoordinator_AssignRollsBackOnPersistenceFailure(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	f.store.EXPECT().CreateChat(gomock.Any(), int64(10), int64(0)).Return(int64(1), nil)
	f.store.EXPECT().AddParticipant(gomock.Any(), int64(1), int64(10), "client").Return(nil)

	chatID, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)

	f.operators.Register(1, domain.KindSupport, 3)
	f.operators.GoOnline(1)

	// Given a store that rejects the assignment write
	f.store.EXPECT().
		UpdateChatOperator(gomock.Any(), chatID, int64(1)).
		Return(errors.ErrPersistenceFailure)

	err = f.coordinator.AssignChatToOperator(ctx, chatID, 1, 10)
	req.ErrorIs(err, errors.ErrPersistenceFailure)

	// Then nothing stuck: no assignment, empty operator, client re-queued
	_, ok := f.coordinator.ChatOperator(chatID)
	req.False(ok)
	req.Empty(f.coordinator.OperatorChats(1))
	req.Equal(1, f.coordinator.QueuePosition(10))

	// And the same assignment succeeds once the store recovers
	f.store.EXPECT().UpdateChatOperator(gomock.Any(), chatID, int64(1)).Return(nil)
	f.store.EXPECT().AddParticipant(gomock.Any(), chatID, int64(1), "support").Return(nil)
	req.NoError(f.coordinator.AssignChatToOperator(ctx, chatID, 1, 10))
	req.Equal(0, f.queue.Len())
}

func TestCoordinator_TransferRecordsPreviousOperator(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 3))
	chatID, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 2, domain.KindSupport, 3))

	// When the owner hands the chat to operator 2
	req.NoError(f.coordinator.TransferChat(ctx, chatID, 2, 1, "handover", 0))

	operatorID, _ := f.coordinator.ChatOperator(chatID)
	req.Equal(int64(2), operatorID)
	req.Empty(f.coordinator.OperatorChats(1))
	req.Equal([]int64{chatID}, f.coordinator.OperatorChats(2))

	transfers := f.sink.ofType(event.ChatTransferred)
	req.Len(transfers, 1)
	req.Equal(int64(1), transfers[0].PreviousOperatorID)
	req.Equal(int64(2), transfers[0].OperatorID)
	req.Equal("handover", transfers[0].Reason)
}

func TestCoordinator_TransferOwnershipChecks(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 3))
	chatID, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 2, domain.KindSupport, 3))
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 3, domain.KindSupport, 3))

	// A non-owner cannot move the chat
	err = f.coordinator.TransferChat(ctx, chatID, 3, 2, "steal", 0)
	req.ErrorIs(err, errors.ErrNotOwner)

	// An admin can, and the audit event carries the admin id
	req.NoError(f.coordinator.ForceTransfer(ctx, chatID, 3, 1, 99, "rebalance"))
	operatorID, _ := f.coordinator.ChatOperator(chatID)
	req.Equal(int64(3), operatorID)

	forced := f.sink.ofType(event.ForceTransfer)
	req.Len(forced, 1)
	req.Equal(int64(99), forced[0].AdminID)

	// ForceTransfer without an admin id is rejected outright
	err = f.coordinator.ForceTransfer(ctx, chatID, 2, 3, 0, "oops")
	req.ErrorIs(err, errors.ErrNotOwner)
}

func TestCoordinator_OfflineRedistributesChats(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	// Given operator 1 holding two chats and operator 2 with room for one
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 2))
	chatA, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)
	chatB, err := f.coordinator.OpenChat(ctx, 11, 0, nil)
	req.NoError(err)
	req.Equal([]int64{chatA, chatB}, f.coordinator.OperatorChats(1))

	req.NoError(f.coordinator.SetOperatorOnline(ctx, 2, domain.KindSupport, 1))

	// When operator 1 goes offline
	req.NoError(f.coordinator.SetOperatorOffline(ctx, 1))

	// Then exactly one chat moved and the other client went back to waiting
	req.Equal([]int64{chatA}, f.coordinator.OperatorChats(2))
	_, stillAssigned := f.coordinator.ChatOperator(chatB)
	req.False(stillAssigned)
	req.Equal(1, f.coordinator.QueuePosition(11))

	transfers := f.sink.ofType(event.ChatTransferred)
	req.Len(transfers, 1)
	req.Equal("operator_offline", transfers[0].Reason)
	req.Len(f.sink.ofType(event.OperatorOffline), 1)
}

func TestCoordinator_RequeueKeepsPriorityAndRank(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	// Given a priority 9 client assigned to the only operator
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 1))
	chatID, err := f.coordinator.OpenChat(ctx, 10, 9, nil)
	req.NoError(err)
	op, assigned := f.coordinator.ChatOperator(chatID)
	req.True(assigned)
	req.Equal(int64(1), op)

	// and two ordinary clients still waiting
	_, err = f.coordinator.OpenChat(ctx, 11, 1, nil)
	req.NoError(err)
	_, err = f.coordinator.OpenChat(ctx, 12, 1, nil)
	req.NoError(err)

	// When the operator goes offline with nobody to take the chat over
	req.NoError(f.coordinator.SetOperatorOffline(ctx, 1))

	// Then the client is back at the head of the queue, priority intact
	entry, ok := f.queue.Get(10)
	req.True(ok)
	req.Equal(9, entry.Priority)
	req.Equal(1, f.coordinator.QueuePosition(10))

	waiting := f.sink.ofType(event.ClientWaiting)
	req.NotEmpty(waiting)
	last := waiting[len(waiting)-1]
	req.Equal(int64(10), last.ClientID)
	req.Equal(9, last.Priority)
}

func TestCoordinator_SetOperatorOnlineResolvesRole(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	// An unknown user is an error, never a silent support operator
	f.roles.EXPECT().Resolve(gomock.Any(), int64(7)).Return(domain.OperatorKind(""), errors.ErrUnknownRole)
	err := f.coordinator.SetOperatorOnline(ctx, 7, "", 3)
	req.ErrorIs(err, errors.ErrUnknownRole)
	_, ok := f.operators.Get(7)
	req.False(ok)

	// A resolvable user comes online under the stored kind
	f.roles.EXPECT().Resolve(gomock.Any(), int64(8)).Return(domain.KindLawyer, nil)
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 8, "", 3))
	op, ok := f.operators.Get(8)
	req.True(ok)
	req.Equal(domain.KindLawyer, op.Kind)

	// Replaying the online intent publishes nothing new
	before := len(f.sink.ofType(event.OperatorOnline))
	req.NoError(f.coordinator.SetOperatorOnline(ctx, 8, domain.KindLawyer, 3))
	req.Equal(before, len(f.sink.ofType(event.OperatorOnline)))
}

func TestCoordinator_AssignPersonalLawyer(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	f.store.EXPECT().GetActiveLawyerAssignment(gomock.Any(), int64(10)).Return(int64(0), false, nil)
	f.store.EXPECT().GetActiveChatBetween(gomock.Any(), int64(10), int64(5)).Return(int64(0), false, nil)
	f.store.EXPECT().CreateChat(gomock.Any(), int64(10), int64(5)).Return(int64(77), nil)
	f.store.EXPECT().AddParticipant(gomock.Any(), int64(77), int64(10), "client").Return(nil)
	f.store.EXPECT().AddParticipant(gomock.Any(), int64(77), int64(5), "lawyer").Return(nil)
	f.store.EXPECT().CreateLawyerAssignment(gomock.Any(), int64(10), int64(5)).Return(nil)

	chatID, err := f.coordinator.AssignPersonalLawyer(ctx, 10, 5, 99)
	req.NoError(err)
	req.Equal(int64(77), chatID)

	lawyerID, ok := f.coordinator.ClientLawyer(ctx, 10)
	req.True(ok)
	req.Equal(int64(5), lawyerID)

	// The lawyer was auto-registered with the sticky capacity
	op, ok := f.operators.Get(5)
	req.True(ok)
	req.Equal(domain.KindLawyer, op.Kind)
	req.Equal(10, op.MaxConcurrentChats)

	assigned := f.sink.ofType(event.LawyerAssigned)
	req.Len(assigned, 1)
	req.Equal(int64(99), assigned[0].AdminID)

	// A second binding for the same client is refused from the cache
	_, err = f.coordinator.AssignPersonalLawyer(ctx, 10, 6, 99)
	req.ErrorIs(err, errors.ErrAlreadyAssigned)
}

func TestCoordinator_AssignPersonalLawyerFindsStoredBinding(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	// Given a binding that survived a restart only in the store
	f.store.EXPECT().GetActiveLawyerAssignment(gomock.Any(), int64(10)).Return(int64(5), true, nil)

	_, err := f.coordinator.AssignPersonalLawyer(ctx, 10, 6, 0)
	req.ErrorIs(err, errors.ErrAlreadyAssigned)

	// And the cache now serves the stored lawyer
	lawyerID, ok := f.coordinator.ClientLawyer(ctx, 10)
	req.True(ok)
	req.Equal(int64(5), lawyerID)
}

func TestCoordinator_CloseChatOwnership(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 3))
	chatID, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)

	// A stranger cannot close it
	err = f.coordinator.CloseChat(ctx, chatID, 42, "nope")
	req.ErrorIs(err, errors.ErrNotOwner)

	// The client can
	req.NoError(f.coordinator.CloseChat(ctx, chatID, 10, "resolved"))
	_, ok := f.coordinator.ChatOperator(chatID)
	req.False(ok)
	req.Empty(f.coordinator.OperatorChats(1))

	// Closing an unknown chat reports it
	err = f.coordinator.CloseChat(ctx, 999, 10, "resolved")
	req.ErrorIs(err, errors.ErrChatNotFound)
}

func TestCoordinator_CloseQueuedChatDequeues(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	chatID, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)

	req.NoError(f.coordinator.CloseChat(ctx, chatID, 10, "changed_my_mind"))
	req.Equal(-1, f.coordinator.QueuePosition(10))
	req.Len(f.sink.ofType(event.ChatClosed), 1)
}

func TestCoordinator_UpdatePriorityAndRemove(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	_, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)
	_, err = f.coordinator.OpenChat(ctx, 11, 0, nil)
	req.NoError(err)

	position, err := f.coordinator.UpdatePriority(ctx, 11, 9, 99)
	req.NoError(err)
	req.Equal(1, position)
	req.Len(f.sink.ofType(event.PrioritySet), 1)

	_, err = f.coordinator.UpdatePriority(ctx, 404, 1, 0)
	req.ErrorIs(err, errors.ErrClientNotFound)

	req.NoError(f.coordinator.RemoveFromQueue(ctx, 11))
	req.Equal(-1, f.coordinator.QueuePosition(11))
	req.ErrorIs(f.coordinator.RemoveFromQueue(ctx, 11), errors.ErrClientNotFound)
}

func TestCoordinator_DisconnectUser(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 2))
	_, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)
	_, err = f.coordinator.OpenChat(ctx, 11, 0, nil)
	req.NoError(err)
	_, err = f.coordinator.OpenChat(ctx, 12, 0, nil)
	req.NoError(err)

	// A waiting client disconnecting just leaves the queue
	req.NoError(f.coordinator.DisconnectUser(ctx, 12))
	req.Equal(-1, f.coordinator.QueuePosition(12))

	// An operator disconnecting goes offline and its chats are requeued
	req.NoError(f.coordinator.DisconnectUser(ctx, 1))
	op, _ := f.operators.Get(1)
	req.False(op.Online)
	req.Equal(2, f.queue.Len())

	// Unknown users are ignored
	req.NoError(f.coordinator.DisconnectUser(ctx, 404))
}

func TestCoordinator_StatsReportsLoads(t *testing.T) {
	req := require.New(t)
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	var seq int64
	f.allowPersistence(&seq)

	req.NoError(f.coordinator.SetOperatorOnline(ctx, 1, domain.KindSupport, 2))
	_, err := f.coordinator.OpenChat(ctx, 10, 0, nil)
	req.NoError(err)

	stats := f.coordinator.Stats()
	req.Equal(1, stats.TotalActiveChats)
	load, ok := stats.OperatorLoads[1]
	req.True(ok)
	req.Equal(1, load.CurrentChats)
	req.Equal(2, load.MaxChats)
	req.InDelta(0.5, load.Utilization, 0.001)
	req.True(load.Available)
}
