package proto

import "time"

// Inbound is the single request envelope clients send. Message is only
// meaningful for the "message" type.
type Inbound struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	Message  string `json:"message,omitempty"`
}

// Recognized inbound types.
const (
	TypeCreateRoom = "createRoom"
	TypeJoinRoom   = "joinRoom"
	TypeMessage    = "message"
)

// Outbound type discriminators.
const (
	TypeRoomCreated = "roomCreated"
	TypeRoomJoined  = "roomJoined"
	TypeUserJoined  = "userJoined"
	TypeUserLeft    = "userLeft"
	TypeError       = "error"
)

// RoomCreated confirms creation to the creating client only.
type RoomCreated struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
	UserID   string `json:"userId"`
}

// ChatMessage is one message as it appears on the wire.
type ChatMessage struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	UserID  string    `json:"userId"`
}

// RoomJoined confirms a join and carries the history snapshot.
type RoomJoined struct {
	Type        string        `json:"type"`
	RoomCode    string        `json:"roomCode"`
	UserID      string        `json:"userId"`
	Messages    []ChatMessage `json:"messages"`
	UsersOnline int           `json:"usersOnline"`
}

// UserNotice announces a join or leave to the rest of the room.
type UserNotice struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	UsersOnline int    `json:"usersOnline"`
}

// MessageEvent broadcasts a chat message to every room member.
type MessageEvent struct {
	Type string `json:"type"`
	ChatMessage
}

// ErrorReply reports a failure to the offending client only.
type ErrorReply struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
