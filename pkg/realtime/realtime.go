// Package realtime fans board events out to in-process listeners such as
// websocket sessions.
//
// Delivery is best effort: each listener owns a buffered channel and an event
// that does not fit is dropped for that listener only. Nothing is persisted
// or replayed.
package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published by the board.
const (
	QuestionCreated  = "question.created"
	QuestionModified = "question.modified"
	QuestionDeleted  = "question.deleted"
	QuestionVoted    = "question.voted"
	AnswerCreated    = "answer.created"
	AnswerModified   = "answer.modified"
	AnswerDeleted    = "answer.deleted"
	AnswerVoted      = "answer.voted"
)

// Event describes one board mutation.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	QuestionID int64     `json:"question_id,omitempty"`
	AnswerID   int64     `json:"answer_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	At         time.Time `json:"at"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType string, questionID, answerID int64, username, subject string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		QuestionID: questionID,
		AnswerID:   answerID,
		Username:   username,
		Subject:    subject,
		At:         time.Now().UTC(),
	}
}

// Hub is a concurrency-safe fan-out dispatcher.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub returns a hub whose listeners buffer bufSize events (32 when
// bufSize <= 0).
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Call Unregister with the returned id when done.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes a listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Publish delivers e to every listener with room in its buffer and returns
// how many received it.
func (h *Hub) Publish(e Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, ch := range h.listeners {
		select {
		case ch <- e:
			delivered++
		default:
		}
	}
	return delivered
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
