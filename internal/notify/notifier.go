// Package notify carries user-facing notifications (success, warning and
// error "modals") from the controllers to whatever renders them.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification.
type Kind int

const (
	KindSuccess Kind = iota
	KindWarning
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Notification is one message shown to the user.
type Notification struct {
	ID      string
	Kind    Kind
	Title   string
	Message string
	At      time.Time
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// Success sends a success notification.
func Success(n Notifier, title, message string) {
	n.Notify(Notification{Kind: KindSuccess, Title: title, Message: message})
}

// Warning sends a warning notification.
func Warning(n Notifier, title, message string) {
	n.Notify(Notification{Kind: KindWarning, Title: title, Message: message})
}

// Error sends an error notification.
func Error(n Notifier, title, message string) {
	n.Notify(Notification{Kind: KindError, Title: title, Message: message})
}

// Channel is a single global-style notification slot: it keeps only the most
// recent notification, and each subscriber sees at most one pending
// notification, newer ones replacing older ones.
type Channel struct {
	mu     sync.Mutex
	latest *Notification
	subs   map[int]chan Notification
	nextID int
}

// NewChannel creates an empty Channel.
func NewChannel() *Channel {
	return &Channel{subs: make(map[int]chan Notification)}
}

// Notify records n as the latest notification and fans it out.
func (c *Channel) Notify(n Notification) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.At.IsZero() {
		n.At = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest = &n
	for _, ch := range c.subs {
		select {
		case ch <- n:
		default:
			// Drop the unread notification so the newest wins.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- n:
			default:
			}
		}
	}
}

// Latest returns the most recent notification that has not been dismissed.
func (c *Channel) Latest() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return Notification{}, false
	}
	return *c.latest, true
}

// Dismiss clears the latest notification.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	c.latest = nil
	c.mu.Unlock()
}

// Subscribe returns a channel receiving notifications and a func that
// unsubscribes and closes it.
func (c *Channel) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// Recorder is a Notifier that keeps every notification, mostly for tests and
// batch output.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify appends n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of every recorded notification.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
