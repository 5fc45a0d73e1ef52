package routing

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	domain "support-chat/domain/routing"
)

func TestOperatorRegistry_RegisterIsIdempotent(t *testing.T) {
	req := require.New(t)
	r := NewOperatorRegistry(slog.Default())

	// Given an online operator holding a chat
	r.Register(1, domain.KindSupport, 3)
	req.True(r.GoOnline(1))
	req.True(r.AttachChat(1, 100))

	// When the operator registers again with a new capacity
	r.Register(1, domain.KindSupport, 5)

	// Then the chat set and presence survive
	op, ok := r.Get(1)
	req.True(ok)
	req.Equal(5, op.MaxConcurrentChats)
	req.True(op.Online)
	req.True(op.Holds(100))
}

func TestOperatorRegistry_GoOnlineReportsChange(t *testing.T) {
	req := require.New(t)
	r := NewOperatorRegistry(slog.Default())
	r.Register(1, domain.KindSupport, 3)

	req.True(r.GoOnline(1))
	// Second call is a no-op, caller must not republish
	req.False(r.GoOnline(1))

	req.True(r.GoOffline(1))
	req.False(r.GoOffline(1))

	// Unknown operators never report a change
	req.False(r.GoOnline(42))
}

func TestOperatorRegistry_ListAvailableLeastLoadedFirst(t *testing.T) {
	req := require.New(t)
	r := NewOperatorRegistry(slog.Default())

	for id := int64(1); id <= 3; id++ {
		r.Register(id, domain.KindSupport, 3)
		r.GoOnline(id)
	}
	r.AttachChat(1, 100)
	r.AttachChat(1, 101)
	r.AttachChat(2, 102)

	available := r.ListAvailable(nil)
	req.Len(available, 3)
	req.Equal(int64(3), available[0].ID)
	req.Equal(int64(2), available[1].ID)
	req.Equal(int64(1), available[2].ID)
}

func TestOperatorRegistry_ListAvailableFilters(t *testing.T) {
	req := require.New(t)
	r := NewOperatorRegistry(slog.Default())

	r.Register(1, domain.KindSupport, 1)
	r.GoOnline(1)
	r.Register(2, domain.KindLawyer, 3)
	r.GoOnline(2)
	r.Register(3, domain.KindSupport, 3)
	r.GoOnline(3)
	r.Register(4, domain.KindSupport, 3)

	// Given operator 1 saturated and operator 5 busy
	req.True(r.AttachChat(1, 100))
	r.Register(5, domain.KindSupport, 3)
	r.GoOnline(5)
	req.True(r.SetBusy(5, true))

	kind := domain.KindSupport
	available := r.ListAvailable(&kind)

	// Then only the online, available support operator with room remains
	req.Len(available, 1)
	req.Equal(int64(3), available[0].ID)
}

func TestOperatorState_CanAcceptChat(t *testing.T) {
	req := require.New(t)
	r := NewOperatorRegistry(slog.Default())

	r.Register(1, domain.KindSupport, 2)
	op, _ := r.Get(1)
	// Registered but not online yet
	req.False(op.CanAcceptChat())

	r.GoOnline(1)
	op, _ = r.Get(1)
	req.True(op.CanAcceptChat())

	r.AttachChat(1, 100)
	r.AttachChat(1, 101)
	op, _ = r.Get(1)
	// At capacity
	req.False(op.CanAcceptChat())

	r.DetachChat(1, 100)
	op, _ = r.Get(1)
	req.True(op.CanAcceptChat())
}
