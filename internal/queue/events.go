package queue

import "sync"

// EventType distinguishes the two event kinds a queue run produces.
type EventType string

const (
	// EventProgress is emitted after every processed page.
	EventProgress EventType = "progress"
	// EventCompletion is emitted exactly once per document run, always
	// after the run's final progress event.
	EventCompletion EventType = "completion"
)

// Event is a queue notification. Progress events carry the page counters;
// completion events carry the outcome.
type Event struct {
	Type       EventType `json:"type"`
	DocumentID string    `json:"document_id"`
	Processed  int       `json:"processed,omitempty"`
	Total      int       `json:"total,omitempty"`
	Success    bool      `json:"success,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// subscriberBufferSize bounds how far a slow consumer may lag before events
// are dropped for it. The store remains the source of truth, so a dropped
// event is recoverable by polling.
const subscriberBufferSize = 32

type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event)}
}

// subscribe registers a listener and returns its channel plus an
// unsubscribe function. Unsubscribing closes the channel.
func (b *broadcaster) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBufferSize)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// publish delivers e to every subscriber without blocking the worker; a
// full subscriber buffer loses the event.
func (b *broadcaster) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
