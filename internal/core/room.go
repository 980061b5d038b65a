package core

import "time"

// Room holds the membership set and bounded message history for one
// room code. Every method is called with the registry mutex held.
type Room struct {
	Code      string
	CreatedAt time.Time

	members map[string]*Client
	history []Message
	limit   int
}

func newRoom(code string, limit int, createdAt time.Time) *Room {
	return &Room{
		Code:      code,
		CreatedAt: createdAt,
		members:   make(map[string]*Client),
		history:   make([]Message, 0, limit),
		limit:     limit,
	}
}

func (r *Room) add(memberID string, c *Client) {
	r.members[memberID] = c
}

// remove deletes a member if present. Returns true if it was present.
func (r *Room) remove(memberID string) bool {
	if _, ok := r.members[memberID]; !ok {
		return false
	}
	delete(r.members, memberID)
	return true
}

func (r *Room) size() int {
	return len(r.members)
}

func (r *Room) empty() bool {
	return len(r.members) == 0
}

// append records a message, evicting the oldest when over the cap.
func (r *Room) append(msg Message) {
	r.history = append(r.history, msg)
	if len(r.history) > r.limit {
		excess := len(r.history) - r.limit
		r.history = r.history[excess:]
	}
}

// snapshot copies the history so callers cannot mutate room state.
func (r *Room) snapshot() []Message {
	cpy := make([]Message, len(r.history))
	copy(cpy, r.history)
	return cpy
}

// broadcast fans an event out to every member except the excluded one.
func (r *Room) broadcast(ev *Event, exclude string) {
	for id, member := range r.members {
		if id == exclude {
			continue
		}
		member.send(ev)
	}
}
