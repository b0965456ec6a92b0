// Package notify keeps the short-lived toast messages shown over the view.
package notify

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

type Kind string

const (
	Success Kind = "success"
	Info    Kind = "info"
	Warning Kind = "warning"
	Error   Kind = "error"
)

const DefaultDuration = 4 * time.Second

type (
	Notification struct {
		ID        string        `json:"id"`
		Message   string        `json:"message"`
		Kind      Kind          `json:"kind"`
		Duration  time.Duration `json:"duration"`
		CreatedAt time.Time     `json:"created_at"`
	}

	Queue struct {
		mu      sync.Mutex
		items   []Notification
		now     func() time.Time
		enabled bool
	}
)

func (n Notification) Expired(now time.Time) bool {
	return n.Duration > 0 && !now.Before(n.CreatedAt.Add(n.Duration))
}

func NewQueue() *Queue {
	return &Queue{now: time.Now, enabled: true}
}

// SetEnabled toggles whether new notifications are accepted. Errors are
// always accepted.
func (q *Queue) SetEnabled(enabled bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enabled = enabled
}

// Push adds a notification and returns its id. A zero duration uses
// DefaultDuration; a negative one never expires.
func (q *Queue) Push(kind Kind, message string, duration time.Duration) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.enabled && kind != Error {
		return ""
	}

	switch {
	case duration == 0:
		duration = DefaultDuration
	case duration < 0:
		duration = 0
	}

	n := Notification{
		ID:        xid.New().String(),
		Message:   message,
		Kind:      kind,
		Duration:  duration,
		CreatedAt: q.now(),
	}
	q.items = append(q.items, n)
	return n.ID
}

func (q *Queue) Success(message string) string { return q.Push(Success, message, 0) }
func (q *Queue) Info(message string) string    { return q.Push(Info, message, 0) }
func (q *Queue) Warning(message string) string { return q.Push(Warning, message, 0) }
func (q *Queue) Error(message string) string   { return q.Push(Error, message, 0) }

// Active drops expired notifications and returns the rest, oldest first.
func (q *Queue) Active(now time.Time) []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.items[:0]
	for _, n := range q.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	q.items = kept

	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}

func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}
