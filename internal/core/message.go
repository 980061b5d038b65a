package core

import "time"

// Message is an immutable chat message. Once appended, it is owned by
// its room's history and never mutated.
type Message struct {
	ID       string
	Room     string
	AuthorID string
	Text     string
	SentAt   time.Time
}
