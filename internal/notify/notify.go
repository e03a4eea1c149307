package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for rendering.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is one transient user-facing message. Notifications report an
// outcome and are then discarded; nothing in the application blocks on them.
type Notification struct {
	ID       string
	Severity Severity
	Message  string
	At       time.Time
}

const defaultCapacity = 32

// Center collects pending notifications until the front end drains them.
// When full, the oldest entries are dropped first.
type Center struct {
	mu       sync.Mutex
	pending  []Notification
	capacity int
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{capacity: defaultCapacity}
}

// Success queues a success notification.
func (c *Center) Success(message string) {
	c.push(SeveritySuccess, message)
}

// Error queues an error notification.
func (c *Center) Error(message string) {
	c.push(SeverityError, message)
}

// Errorf queues a formatted error notification.
func (c *Center) Errorf(format string, args ...any) {
	c.push(SeverityError, fmt.Sprintf(format, args...))
}

// Drain returns all pending notifications in arrival order and clears them.
func (c *Center) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	drained := c.pending
	c.pending = nil
	return drained
}

func (c *Center) push(severity Severity, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = append(c.pending, Notification{
		ID:       uuid.NewString(),
		Severity: severity,
		Message:  message,
		At:       time.Now(),
	})
	if len(c.pending) > c.capacity {
		c.pending = c.pending[len(c.pending)-c.capacity:]
	}
}
