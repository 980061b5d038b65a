package core

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Yash-jaiswal2509/simple-chat-application/internal/metrics"
)

const (
	// DefaultHistoryLimit bounds per-room message history.
	DefaultHistoryLimit = 100
	// DefaultMaxMessageLen bounds message text length in runes.
	DefaultMaxMessageLen = 1000
)

const (
	noticeUserJoined = "A new user has joined the room"
	noticeUserLeft   = "A user has left the room"
)

// Options tune registry limits. Zero values fall back to defaults.
type Options struct {
	HistoryLimit  int
	MaxMessageLen int
}

// Registry is the single process-wide store of rooms. One coarse mutex
// serializes every room- and membership-mutating operation, so all
// members observe a room's events in one consistent total order.
type Registry struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	clients map[string]*Client

	historyLimit  int
	maxMessageLen int
	now           func() time.Time
}

// NewRegistry constructs an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.MaxMessageLen <= 0 {
		opts.MaxMessageLen = DefaultMaxMessageLen
	}
	return &Registry{
		rooms:         make(map[string]*Room),
		clients:       make(map[string]*Client),
		historyLimit:  opts.HistoryLimit,
		maxMessageLen: opts.MaxMessageLen,
		now:           time.Now,
	}
}

// Register makes a connected client known to the registry. Every
// Register must be paired with exactly one effective Disconnect.
func (reg *Registry) Register(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.clients[c.ID] = c
	metrics.Connections.Inc()
}

// Create inserts a room under code with the caller as its sole member.
// Existence check and insert happen as one atomic step: no two
// concurrent creates for the same code can both succeed. The creator
// receives an EventRoomCreated confirmation through its sink.
func (reg *Registry) Create(c *Client, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyRoomCode
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if c.room != "" {
		return ErrAlreadyInRoom
	}
	if _, exists := reg.rooms[code]; exists {
		return ErrRoomExists
	}

	room := newRoom(code, reg.historyLimit, reg.now())
	memberID := uuid.NewString()
	room.add(memberID, c)
	reg.rooms[code] = room
	c.room = code
	c.memberID = memberID
	metrics.RoomsActive.Inc()

	c.send(&Event{Kind: EventRoomCreated, Room: code, UserID: memberID})
	return nil
}

// Join adds the caller to an existing room. The joiner receives an
// EventRoomJoined with a history snapshot taken before it was counted
// as a member; everyone (joiner included) sees the post-join count, and
// the EventUserJoined broadcast excludes the joiner.
func (reg *Registry) Join(c *Client, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyRoomCode
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if c.room != "" {
		return ErrAlreadyInRoom
	}
	room, ok := reg.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}

	history := room.snapshot()
	memberID := uuid.NewString()
	room.add(memberID, c)
	c.room = code
	c.memberID = memberID
	online := room.size()

	c.send(&Event{
		Kind:        EventRoomJoined,
		Room:        code,
		UserID:      memberID,
		History:     history,
		UsersOnline: online,
	})
	room.broadcast(&Event{
		Kind:        EventUserJoined,
		Room:        code,
		UsersOnline: online,
		Notice:      noticeUserJoined,
	}, memberID)
	return nil
}

// Post validates text, appends it to the caller's room history and
// broadcasts the message to all members, the sender included.
func (reg *Registry) Post(c *Client, text string) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if c.room == "" {
		return ErrNotInRoom
	}
	if text == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > reg.maxMessageLen {
		return ErrMessageTooLong
	}
	room, ok := reg.rooms[c.room]
	if !ok {
		return ErrRoomNotFound
	}

	msg := Message{
		ID:       uuid.NewString(),
		Room:     room.Code,
		AuthorID: c.memberID,
		Text:     text,
		SentAt:   reg.now(),
	}
	room.append(msg)
	room.broadcast(&Event{Kind: EventMessage, Room: room.Code, Message: &msg}, "")
	metrics.MessagesTotal.Inc()
	return nil
}

// Disconnect removes the client's room binding (if any), broadcasts
// the departure and closes its sink. Safe to call more than once; only
// the first call has any effect.
func (reg *Registry) Disconnect(c *Client) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if c.closed {
		return
	}
	reg.leaveLocked(c)
	delete(reg.clients, c.ID)
	c.closed = true
	close(c.Events)
	metrics.Connections.Dec()
}

func (reg *Registry) leaveLocked(c *Client) {
	if c.room == "" {
		return
	}
	room, ok := reg.rooms[c.room]
	memberID := c.memberID
	c.room, c.memberID = "", ""
	if !ok || !room.remove(memberID) {
		return
	}
	// An emptied room stays behind for the janitor sweep.
	room.broadcast(&Event{
		Kind:        EventUserLeft,
		Room:        room.Code,
		UsersOnline: room.size(),
		Notice:      noticeUserLeft,
	}, "")
}

// Sweep deletes rooms that are empty and were created before cutoff.
// Returns the number of rooms deleted. Used only by the janitor: room
// deletion is never exposed to client-triggered paths.
func (reg *Registry) Sweep(cutoff time.Time) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reaped := 0
	for code, room := range reg.rooms {
		if room.empty() && room.CreatedAt.Before(cutoff) {
			delete(reg.rooms, code)
			reaped++
		}
	}
	if reaped > 0 {
		metrics.RoomsActive.Sub(float64(reaped))
	}
	return reaped
}

// RoomInfo is a point-in-time view of one room.
type RoomInfo struct {
	Code        string
	UsersOnline int
	CreatedAt   time.Time
}

// RoomInfo looks up occupancy details for a room code.
func (reg *Registry) RoomInfo(code string) (RoomInfo, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[strings.TrimSpace(code)]
	if !ok {
		return RoomInfo{}, false
	}
	return RoomInfo{Code: room.Code, UsersOnline: room.size(), CreatedAt: room.CreatedAt}, true
}

// Stats counts rooms and connected clients.
type Stats struct {
	Rooms       int
	Connections int
}

// Stats reports the current registry totals.
func (reg *Registry) Stats() Stats {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return Stats{Rooms: len(reg.rooms), Connections: len(reg.clients)}
}
