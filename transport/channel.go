package transport

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeBuffer  = 100
	writeTimeout = 5 * time.Second
)

// wsChannel wraps a websocket connection behind the engine's Channel
// contract. All writes flow through a single goroutine; gorilla connections
// do not tolerate concurrent writers.
type wsChannel struct {
	log     *slog.Logger
	conn    *websocket.Conn
	writeCh chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newWSChannel(conn *websocket.Conn, log *slog.Logger) *wsChannel {
	c := &wsChannel{
		log:     log,
		conn:    conn,
		writeCh: make(chan []byte, writeBuffer),
		done:    make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *wsChannel) writeLoop() {
	for {
		select {
		case data := <-c.writeCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				c.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("Write failed, closing channel", "error", err)
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *wsChannel) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.writeCh <- data:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	default:
		// A full buffer means the peer stopped reading. Drop the
		// connection rather than block the fan-out path.
		c.Close()
		return websocket.ErrCloseSent
	}
}

func (c *wsChannel) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
	return nil
}
