package core

// Error codes for domain errors.
const (
	ErrCodeRoomExists     = "room_exists"
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeNotInRoom      = "not_in_room"
	ErrCodeAlreadyInRoom  = "already_in_room"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
)

// RelayError pairs a stable code with a client-facing message.
type RelayError struct {
	Code    string
	Message string
}

func (e *RelayError) Error() string {
	return e.Message
}

var (
	ErrRoomExists     = &RelayError{Code: ErrCodeRoomExists, Message: "Room already exists"}
	ErrRoomNotFound   = &RelayError{Code: ErrCodeRoomNotFound, Message: "Room does not exist"}
	ErrNotInRoom      = &RelayError{Code: ErrCodeNotInRoom, Message: "Join a room first"}
	ErrAlreadyInRoom  = &RelayError{Code: ErrCodeAlreadyInRoom, Message: "Already in a room"}
	ErrEmptyRoomCode  = &RelayError{Code: ErrCodeBadRequest, Message: "Room code is required"}
	ErrEmptyMessage   = &RelayError{Code: ErrCodeInvalidMessage, Message: "Message cannot be empty"}
	ErrMessageTooLong = &RelayError{Code: ErrCodeInvalidMessage, Message: "Message is too long"}
)
