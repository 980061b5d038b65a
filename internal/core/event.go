package core

// EventKind is a notification the relay emits to clients.
type EventKind int

const (
	// EventRoomCreated confirms room creation to the creator only.
	EventRoomCreated EventKind = iota
	// EventRoomJoined confirms a join and carries the history snapshot.
	EventRoomJoined
	// EventUserJoined notifies other room members that someone joined.
	EventUserJoined
	// EventUserLeft notifies remaining room members that someone left.
	EventUserLeft
	// EventMessage carries a chat message to all room members.
	EventMessage
)

// Event is delivered through a client's sink to describe what happened.
// Only the fields relevant to the kind are populated.
type Event struct {
	Kind        EventKind
	Room        string
	UserID      string
	UsersOnline int
	Notice      string
	Message     *Message
	History     []Message
}
