package bus

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeenStore_MarksAndDetects(t *testing.T) {
	req := require.New(t)

	store, err := OpenSeenStore(t.TempDir(), time.Hour, slog.Default())
	req.NoError(err)
	defer func() { req.NoError(store.Close()) }()

	// An unmarked id stays unseen no matter how often it is checked
	seen, err := store.Seen("evt-1")
	req.NoError(err)
	req.False(seen)

	seen, err = store.Seen("evt-1")
	req.NoError(err)
	req.False(seen)

	req.NoError(store.Mark("evt-1"))

	seen, err = store.Seen("evt-1")
	req.NoError(err)
	req.True(seen)

	seen, err = store.Seen("evt-2")
	req.NoError(err)
	req.False(seen)
}
