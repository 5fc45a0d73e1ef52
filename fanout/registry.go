// Package fanout delivers engine events to locally connected users. It only
// ever touches connections held by this instance; cross-instance delivery
// happens through the bus bridge feeding every instance's registry.
package fanout

import (
	"log/slog"
	"sync"
	"time"

	"support-chat/contract"
)

type set map[int64]struct{}

// Entry is one live user connection.
type Entry struct {
	UserID   int64
	Channel  contract.Channel
	Role     string
	JoinedAt time.Time
	Metadata map[string]any
}

// Message is the envelope delivered to clients.
type Message struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Registry maps live users to delivery channels, chat rooms and role groups.
// Delivery is best-effort and fire-and-forget: a failed send marks the
// connection dead and removes it, it never propagates an error to the
// routing engine.
type Registry struct {
	mu    sync.Mutex
	log   *slog.Logger
	users map[int64]*Entry
	rooms map[int64]set  // chat_id -> user ids
	roles map[string]set // role -> user ids
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:   log,
		users: make(map[int64]*Entry),
		rooms: make(map[int64]set),
		roles: make(map[string]set),
	}
}

// Connect registers a user's channel. A user has at most one primary
// channel: a new connection supersedes and closes the previous one.
func (r *Registry) Connect(userID int64, ch contract.Channel, role string, metadata map[string]any) {
	r.mu.Lock()
	prev := r.users[userID]
	r.users[userID] = &Entry{
		UserID:   userID,
		Channel:  ch,
		Role:     role,
		JoinedAt: time.Now().UTC(),
		Metadata: metadata,
	}
	if _, ok := r.roles[role]; !ok {
		r.roles[role] = make(set)
	}
	r.roles[role][userID] = struct{}{}
	r.mu.Unlock()

	if prev != nil {
		_ = prev.Channel.Close()
	}
	r.log.Info("User connected", "user_id", userID, "role", role)
}

// Disconnect removes the user from every room and role group and closes the
// channel.
func (r *Registry) Disconnect(userID int64) {
	r.mu.Lock()
	entry, ok := r.users[userID]
	if ok {
		delete(r.users, userID)
	}
	for chatID, members := range r.rooms {
		delete(members, userID)
		if len(members) == 0 {
			delete(r.rooms, chatID)
		}
	}
	for _, members := range r.roles {
		delete(members, userID)
	}
	r.mu.Unlock()

	if ok {
		_ = entry.Channel.Close()
		r.log.Info("User disconnected", "user_id", userID)
	}
}

func (r *Registry) JoinRoom(userID, chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[chatID]; !ok {
		r.rooms[chatID] = make(set)
	}
	r.rooms[chatID][userID] = struct{}{}
}

// LeaveRoom removes the user from a chat room, pruning the room when it
// empties.
func (r *Registry) LeaveRoom(userID, chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.rooms[chatID]
	if !ok {
		return
	}
	delete(members, userID)
	if len(members) == 0 {
		delete(r.rooms, chatID)
	}
}

func (r *Registry) IsOnline(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[userID]
	return ok
}

// RoomMembers returns a copy of a chat room's member set.
func (r *Registry) RoomMembers(chatID int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := make([]int64, 0, len(r.rooms[chatID]))
	for id := range r.rooms[chatID] {
		members = append(members, id)
	}
	return members
}

// Send delivers one message to one user. A delivery failure means the
// connection is dead: the user is disconnected and false is returned.
func (r *Registry) Send(userID int64, msg Message) bool {
	r.mu.Lock()
	entry, ok := r.users[userID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	if err := entry.Channel.Send(msg); err != nil {
		r.log.Warn("Delivery failed, dropping connection", "user_id", userID, "error", err)
		r.Disconnect(userID)
		return false
	}
	return true
}

// BroadcastRoom sends to every member of a chat room, optionally excluding
// one user.
func (r *Registry) BroadcastRoom(chatID int64, msg Message, exclude int64) {
	for _, userID := range r.RoomMembers(chatID) {
		if userID == exclude {
			continue
		}
		r.Send(userID, msg)
	}
}

// BroadcastRole sends to every connected user of a role group.
func (r *Registry) BroadcastRole(role string, msg Message, exclude int64) {
	r.mu.Lock()
	targets := make([]int64, 0, len(r.roles[role]))
	for id := range r.roles[role] {
		if id != exclude {
			targets = append(targets, id)
		}
	}
	r.mu.Unlock()

	for _, userID := range targets {
		r.Send(userID, msg)
	}
}

// Stats reports the fan-out layer's view of connected users.
type Stats struct {
	TotalConnections int            `json:"total_connections"`
	ActiveRooms      int            `json:"active_rooms"`
	ByRole           map[string]int `json:"connections_by_role"`
	RoomSizes        map[int64]int  `json:"room_sizes"`
}

func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Stats{
		TotalConnections: len(r.users),
		ActiveRooms:      len(r.rooms),
		ByRole:           make(map[string]int),
		RoomSizes:        make(map[int64]int),
	}
	for role, members := range r.roles {
		st.ByRole[role] = len(members)
	}
	for chatID, members := range r.rooms {
		st.RoomSizes[chatID] = len(members)
	}
	return st
}
