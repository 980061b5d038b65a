package core

// sinkBuffer sizes the per-client event buffer. A full buffer means the
// peer is not draining its connection and further events are dropped.
const sinkBuffer = 32

// Client is one connected peer as seen by the relay core. The binding
// fields and closed flag are guarded by the registry mutex.
type Client struct {
	ID     string
	Events chan *Event

	room     string
	memberID string
	closed   bool
}

// NewClient constructs a client with an initialized event sink.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, sinkBuffer),
	}
}

// send delivers an event without blocking. Closed or slow sinks are
// skipped silently: delivery is best-effort.
func (c *Client) send(ev *Event) {
	if c.closed {
		return
	}
	select {
	case c.Events <- ev:
	default:
	}
}
