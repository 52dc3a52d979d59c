package upload

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Event is one progress update for an upload session.
type Event struct {
	Status    string `json:"status,omitempty"` // started | processing | completed | failed
	Processed int    `json:"processed"`
	TotalRows int    `json:"totalRows"`
	Percent   int    `json:"percent"`
	Error     string `json:"error,omitempty"`
}

// Broker tracks progress per upload session. Each upload gets its own id, so
// concurrent uploads never interleave on a subscriber's stream. Sessions live
// in memory and are lost on restart, which matches the lifetime of the upload
// they describe.
type Broker struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

type session struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	last   Event
	done   bool
}

func NewBroker() *Broker {
	return &Broker{sessions: make(map[string]*session)}
}

// Open creates a new session and returns its id.
func (b *Broker) Open() string {
	id := uuid.New().String()
	b.mu.Lock()
	b.sessions[id] = &session{subs: make(map[int]chan Event)}
	b.mu.Unlock()
	return id
}

// Publish delivers an event to every subscriber of the session. Percent is
// monotonic: an update reporting less progress than an earlier one keeps the
// higher value.
func (b *Broker) Publish(id string, ev Event) {
	b.mu.RLock()
	s := b.sessions[id]
	b.mu.RUnlock()
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	if ev.Percent < s.last.Percent {
		ev.Percent = s.last.Percent
	}
	if ev.Processed < s.last.Processed {
		ev.Processed = s.last.Processed
	}
	s.last = ev
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default: // slow subscriber, drop this update; the next one supersedes it
		}
	}
}

// Close publishes a final event and ends the session. Subscriber channels are
// closed so SSE handlers unblock.
func (b *Broker) Close(id string, final Event) {
	b.mu.Lock()
	s := b.sessions[id]
	delete(b.sessions, id)
	b.mu.Unlock()
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if final.Percent < s.last.Percent {
		final.Percent = s.last.Percent
	}
	s.last = final
	s.done = true
	for _, ch := range s.subs {
		select {
		case ch <- final:
		default:
		}
		close(ch)
	}
	s.subs = nil
}

// Subscribe attaches to a session's stream. The latest event, if any, is
// replayed first. The returned cancel func must be called when the consumer
// goes away.
func (b *Broker) Subscribe(id string) (<-chan Event, func(), error) {
	b.mu.RLock()
	s := b.sessions[id]
	b.mu.RUnlock()
	if s == nil {
		return nil, nil, fmt.Errorf("upload: unknown session %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, nil, fmt.Errorf("upload: session %q already finished", id)
	}
	ch := make(chan Event, 16)
	subID := s.nextID
	s.nextID++
	s.subs[subID] = ch
	if s.last != (Event{}) {
		ch <- s.last
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[subID]; ok {
			delete(s.subs, subID)
			close(ch)
		}
	}
	return ch, cancel, nil
}
