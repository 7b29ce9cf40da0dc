package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/ports"
)

// DefaultSubscriberBuffer is used when Subscribe is called with a non-positive buffer
const DefaultSubscriberBuffer = 64

var _ ports.Notifier = (*EventBus)(nil)

type subscriber struct {
	ch      chan domain.Event
	dropped atomic.Int64
}

// EventBus fans events out to subscribers without ever blocking the publisher
type EventBus struct {
	closed      bool
	mu          sync.RWMutex
	nextID      int
	now         func() time.Time
	subscribers map[int]*subscriber
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{
		now:         time.Now,
		subscribers: make(map[int]*subscriber),
	}
}

// Subscribe registers a new observer. The returned function unsubscribes
// and closes the channel; it is safe to call more than once.
func (b *EventBus) Subscribe(buffer int) (<-chan domain.Event, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscriber{ch: make(chan domain.Event, buffer)}
	if b.closed {
		close(sub.ch)
		return sub.ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *EventBus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	close(sub.ch)
}

// Publish delivers event to every subscriber with room in its buffer.
// Subscribers that are full miss the event.
func (b *EventBus) Publish(event domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for id, sub := range b.subscribers {
		select {
		case sub.ch <- event:
		default:
			sub.dropped.Add(1)
			logging.Logger.Debug("Dropped event for slow subscriber", "subscriber", id)
		}
	}
}

// Dropped returns the number of events dropped across all current subscribers
func (b *EventBus) Dropped() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var total int64
	for _, sub := range b.subscribers {
		total += sub.dropped.Load()
	}
	return total
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

// Log publishes a user-facing log line
func (b *EventBus) Log(message string, severity domain.Severity) {
	b.Publish(domain.LogEvent{Message: message, Severity: severity, Time: b.now()})
}

// Progress publishes a task progress value clamped to 0..100
func (b *EventBus) Progress(taskID string, value int) {
	b.Publish(domain.ProgressEvent{TaskID: taskID, Time: b.now(), Value: clampProgress(value)})
}

// Device publishes a device snapshot
func (b *EventBus) Device(record domain.DeviceRecord) {
	b.Publish(domain.DeviceEvent{Record: record, Time: b.now()})
}

func clampProgress(value int) int {
	return max(0, min(100, value))
}
