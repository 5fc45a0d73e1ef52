package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	domain "support-chat/domain/routing"
	"support-chat/fanout"
	"support-chat/routing"
)

// Gateway terminates websocket connections and turns inbound frames into
// coordinator calls. It runs under the supervisor.
type Gateway struct {
	log       *slog.Logger
	addr      string
	jwtSecret string

	coordinator *routing.Coordinator
	registry    *fanout.Registry
	upgrader    websocket.Upgrader
}

func NewGateway(addr, jwtSecret string, coordinator *routing.Coordinator, registry *fanout.Registry, log *slog.Logger) *Gateway {
	return &Gateway{
		log:         log,
		addr:        addr,
		jwtSecret:   jwtSecret,
		coordinator: coordinator,
		registry:    registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (g *Gateway) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWS)

	srv := &http.Server{
		Addr:              g.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		g.log.Info("Websocket gateway listening", "addr", g.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("gateway listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("gateway shutdown: %w", err)
		}
		return ctx.Err()
	}
}

func (g *Gateway) handleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearer(r)
	}
	identity, err := ParseToken(token, g.jwtSecret)
	if err != nil {
		g.log.Warn("Rejected websocket connection", "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("Upgrade failed", "user_id", identity.UserID, "error", err)
		return
	}

	ch := newWSChannel(conn, g.log)
	g.registry.Connect(identity.UserID, ch, identity.Role, nil)
	g.log.Info("User connected", "user_id", identity.UserID, "role", identity.Role)

	// The request context dies when this handler returns; the hijacked
	// connection outlives it.
	go g.readLoop(context.WithoutCancel(r.Context()), conn, identity)
}

// frame is the inbound client protocol. Unknown fields are ignored so the
// protocol can grow without breaking older clients.
type frame struct {
	Type               string         `json:"type"`
	ChatID             int64          `json:"chat_id"`
	ClientID           int64          `json:"client_id"`
	ToOperatorID       int64          `json:"to_operator_id"`
	Kind               string         `json:"kind"`
	MaxConcurrentChats int            `json:"max_concurrent_chats"`
	Priority           int            `json:"priority"`
	Busy               bool           `json:"busy"`
	Reason             string         `json:"reason"`
	Metadata           map[string]any `json:"metadata"`
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn, identity Identity) {
	defer func() {
		g.registry.Disconnect(identity.UserID)
		if err := g.coordinator.DisconnectUser(ctx, identity.UserID); err != nil {
			g.log.Warn("Disconnect cleanup failed", "user_id", identity.UserID, "error", err)
		}
		g.log.Info("User disconnected", "user_id", identity.UserID)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			g.log.Warn("Dropping malformed frame", "user_id", identity.UserID, "error", err)
			continue
		}
		if err := g.dispatch(ctx, identity, f); err != nil {
			g.registry.Send(identity.UserID, fanout.Message{
				Type: "error",
				Payload: map[string]any{
					"request": f.Type,
					"error":   err.Error(),
				},
			})
		}
	}
}

func (g *Gateway) dispatch(ctx context.Context, identity Identity, f frame) error {
	switch f.Type {
	case "open_chat":
		chatID, err := g.coordinator.OpenChat(ctx, identity.UserID, f.Priority, f.Metadata)
		if err != nil {
			return err
		}
		g.registry.Send(identity.UserID, fanout.Message{
			Type: "chat_opened",
			Payload: map[string]any{
				"chat_id":  chatID,
				"position": g.coordinator.QueuePosition(identity.UserID),
			},
		})
		return nil
	case "accept_chat":
		return g.coordinator.AssignChatToOperator(ctx, f.ChatID, identity.UserID, f.ClientID)
	case "transfer_chat":
		return g.coordinator.TransferChat(ctx, f.ChatID, f.ToOperatorID, identity.UserID, f.Reason, 0)
	case "close_chat":
		return g.coordinator.CloseChat(ctx, f.ChatID, identity.UserID, f.Reason)
	case "go_online":
		return g.coordinator.SetOperatorOnline(ctx, identity.UserID, domain.OperatorKind(f.Kind), f.MaxConcurrentChats)
	case "go_offline":
		return g.coordinator.SetOperatorOffline(ctx, identity.UserID)
	case "set_busy":
		return g.coordinator.SetOperatorBusy(ctx, identity.UserID, f.Busy)
	case "leave_queue":
		return g.coordinator.RemoveFromQueue(ctx, identity.UserID)
	case "queue_status":
		g.registry.Send(identity.UserID, fanout.Message{
			Type: "queue_status",
			Payload: map[string]any{
				"position": g.coordinator.QueuePosition(identity.UserID),
			},
		})
		return nil
	default:
		g.log.Warn("Unknown frame type", "user_id", identity.UserID, "type", f.Type)
		return nil
	}
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
