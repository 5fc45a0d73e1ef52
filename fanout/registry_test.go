package fanout

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeChannel records deliveries and can be told to fail.
type fakeChannel struct {
	mu       sync.Mutex
	messages []Message
	closed   bool
	fail     bool
}

func (c *fakeChannel) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return fmt.Errorf("connection reset")
	}
	if msg, ok := v.(Message); ok {
		c.messages = append(c.messages, msg)
	}
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) received() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegistry_ConnectSupersedesPrevious(t *testing.T) {
	req := require.New(t)
	r := NewRegistry(slog.Default())

	first := &fakeChannel{}
	second := &fakeChannel{}

	r.Connect(1, first, "support", nil)
	r.Connect(1, second, "support", nil)

	// The stale channel is closed, the new one delivers
	req.True(first.isClosed())
	req.True(r.Send(1, Message{Type: "ping"}))
	req.Empty(first.received())
	req.Len(second.received(), 1)
	req.Equal(1, r.Stats().TotalConnections)
}

func TestRegistry_SendFailureDropsConnection(t *testing.T) {
	req := require.New(t)
	r := NewRegistry(slog.Default())

	ch := &fakeChannel{fail: true}
	r.Connect(1, ch, "support", nil)
	r.JoinRoom(1, 100)

	req.False(r.Send(1, Message{Type: "ping"}))

	// The dead connection is fully evicted
	req.False(r.IsOnline(1))
	req.True(ch.isClosed())
	req.Empty(r.RoomMembers(100))
	req.Equal(0, r.Stats().ActiveRooms)

	req.False(r.Send(42, Message{Type: "ping"}))
}

func TestRegistry_RoomLifecycle(t *testing.T) {
	req := require.New(t)
	r := NewRegistry(slog.Default())

	op := &fakeChannel{}
	client := &fakeChannel{}
	r.Connect(1, op, "support", nil)
	r.Connect(10, client, "client", nil)

	r.JoinRoom(1, 100)
	r.JoinRoom(10, 100)
	req.Len(r.RoomMembers(100), 2)

	// Broadcast with exclusion only reaches the other member
	r.BroadcastRoom(100, Message{Type: "chat_message"}, 1)
	req.Empty(op.received())
	req.Len(client.received(), 1)

	r.LeaveRoom(1, 100)
	r.LeaveRoom(10, 100)
	// The emptied room is pruned
	req.Equal(0, r.Stats().ActiveRooms)
}

func TestRegistry_BroadcastRole(t *testing.T) {
	req := require.New(t)
	r := NewRegistry(slog.Default())

	a := &fakeChannel{}
	b := &fakeChannel{}
	c := &fakeChannel{}
	r.Connect(1, a, "support", nil)
	r.Connect(2, b, "support", nil)
	r.Connect(10, c, "client", nil)

	r.BroadcastRole("support", Message{Type: "new_chat_available"}, 2)

	req.Len(a.received(), 1)
	req.Empty(b.received())
	req.Empty(c.received())
}

func TestNotifyChatAssigned_JoinsBothParties(t *testing.T) {
	req := require.New(t)
	r := NewRegistry(slog.Default())

	op := &fakeChannel{}
	client := &fakeChannel{}
	r.Connect(1, op, "support", nil)
	r.Connect(10, client, "client", nil)

	r.NotifyChatAssigned(100, 1, 10)

	req.ElementsMatch([]int64{1, 10}, r.RoomMembers(100))
	opMsgs := op.received()
	req.Len(opMsgs, 1)
	req.Equal("chat_assigned", opMsgs[0].Type)
	clientMsgs := client.received()
	req.Len(clientMsgs, 1)
	req.Equal("operator_assigned", clientMsgs[0].Type)
}

func TestNotifyChatTransferred_SwapsRoomMembership(t *testing.T) {
	req := require.New(t)
	r := NewRegistry(slog.Default())

	prev := &fakeChannel{}
	next := &fakeChannel{}
	client := &fakeChannel{}
	r.Connect(1, prev, "support", nil)
	r.Connect(2, next, "support", nil)
	r.Connect(10, client, "client", nil)
	r.NotifyChatAssigned(100, 1, 10)

	r.NotifyChatTransferred(100, 2, 1, "handover")

	req.ElementsMatch([]int64{2, 10}, r.RoomMembers(100))

	nextMsgs := next.received()
	req.Len(nextMsgs, 1)
	req.Equal("chat_transferred_to_you", nextMsgs[0].Type)

	// The previous operator got the assignment, the hand-off notice and the
	// room broadcast before leaving
	var types []string
	for _, m := range prev.received() {
		types = append(types, m.Type)
	}
	req.Contains(types, "chat_transferred_from_you")
}

func TestNotifyChatClosed_EmptiesRoom(t *testing.T) {
	req := require.New(t)
	r := NewRegistry(slog.Default())

	op := &fakeChannel{}
	client := &fakeChannel{}
	r.Connect(1, op, "support", nil)
	r.Connect(10, client, "client", nil)
	r.NotifyChatAssigned(100, 1, 10)

	r.NotifyChatClosed(100, 10, "resolved")

	req.Empty(r.RoomMembers(100))
	last := client.received()
	req.Equal("chat_closed", last[len(last)-1].Type)
}

func TestNotifyClientTaken_ExcludesTaker(t *testing.T) {
	req := require.New(t)
	r := NewRegistry(slog.Default())

	taker := &fakeChannel{}
	other := &fakeChannel{}
	r.Connect(1, taker, "support", nil)
	r.Connect(2, other, "support", nil)

	r.NotifyClientTaken(10, 1)

	req.Empty(taker.received())
	msgs := other.received()
	req.Len(msgs, 1)
	req.Equal("client_taken", msgs[0].Type)
}
