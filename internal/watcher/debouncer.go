package watcher

import (
	"sync"
	"time"

	"github.com/markhook/markhook/internal/webhook"
)

// EventType says whether a content file should be upserted or removed.
type EventType int

const (
	EventUpsert EventType = iota
	EventDelete
)

func (e EventType) String() string {
	switch e {
	case EventUpsert:
		return "UPSERT"
	case EventDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Event is a debounced change to one content file.
type Event struct {
	Change    webhook.Change
	Type      EventType
	Timestamp time.Time
}

// Debouncer coalesces rapid editor events per content path. Editors
// write files multiple times in quick succession; syncing once per burst
// is enough.
type Debouncer struct {
	delay  time.Duration
	events map[string]*pendingEvent
	mu     sync.Mutex
	output chan Event
	stopCh chan struct{}
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// NewDebouncer creates a new event debouncer.
func NewDebouncer(delayMs int) *Debouncer {
	return &Debouncer{
		delay:  time.Duration(delayMs) * time.Millisecond,
		events: make(map[string]*pendingEvent),
		output: make(chan Event, 100),
		stopCh: make(chan struct{}),
	}
}

// Events returns the channel of debounced events.
func (d *Debouncer) Events() <-chan Event {
	return d.output
}

// Add queues a change, replacing any pending event for the same path.
// A delete always wins over a pending upsert: the file is gone.
func (d *Debouncer) Add(change webhook.Change, eventType EventType) {
	d.mu.Lock()
	defer d.mu.Unlock()

	select {
	case <-d.stopCh:
		return
	default:
	}

	event := Event{
		Change:    change,
		Type:      eventType,
		Timestamp: time.Now(),
	}

	if pending, exists := d.events[change.Path]; exists {
		pending.timer.Stop()
		if eventType == EventDelete {
			pending.event.Type = EventDelete
		}
		pending.event.Timestamp = event.Timestamp
		pending.timer = time.AfterFunc(d.delay, func() {
			d.emit(change.Path)
		})
	} else {
		d.events[change.Path] = &pendingEvent{
			event: event,
			timer: time.AfterFunc(d.delay, func() {
				d.emit(change.Path)
			}),
		}
	}
}

// emit sends an event to the output channel.
func (d *Debouncer) emit(path string) {
	d.mu.Lock()
	pending, exists := d.events[path]
	if exists {
		delete(d.events, path)
	}
	d.mu.Unlock()

	if exists {
		select {
		case d.output <- pending.event:
		case <-d.stopCh:
		}
	}
}

// Flush immediately emits all pending events.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.events))
	for path, pending := range d.events {
		pending.timer.Stop()
		paths = append(paths, path)
	}
	d.mu.Unlock()

	for _, path := range paths {
		d.emit(path)
	}
}

// Stop stops the debouncer and discards remaining events.
func (d *Debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	for _, pending := range d.events {
		pending.timer.Stop()
	}
	d.events = make(map[string]*pendingEvent)
	d.mu.Unlock()

	close(d.output)
}

// PendingCount returns the number of pending events.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}
