// Package events delivers mission events to observers outside the tick loop.
package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType represents the type of mission event being published.
type EventType string

const (
	EventMissionCreated  EventType = "mission_created"
	EventPhaseStarted    EventType = "phase_started"
	EventPhaseCompleted  EventType = "phase_completed"
	EventMemberAdded     EventType = "member_added"
	EventMemberRemoved   EventType = "member_removed"
	EventStatusAdded     EventType = "status_added"
	EventVehicleReserved EventType = "vehicle_reserved"
	EventVehicleReleased EventType = "vehicle_released"
	EventMissionEnded    EventType = "mission_ended"
)

// Event represents a mission event.
type Event struct {
	Type        EventType
	MissionID   string
	MissionName string
	SimTime     time.Time
	Timestamp   time.Time
	Data        map[string]interface{}
}

// Listener receives events.
type Listener func(Event)

// Filter selects the events a listener is interested in. A nil filter accepts everything.
type Filter func(Event) bool

// ForMission accepts only events of the given mission.
func ForMission(missionID string) Filter {
	return func(e Event) bool { return e.MissionID == missionID }
}

type subscription struct {
	ch     chan Event
	filter Filter
}

// Bus is a non-blocking publish/subscribe bus. Registration may happen from
// any goroutine; delivery is asynchronous through a buffered channel per
// listener, and events are dropped for a listener whose channel is full.
type Bus struct {
	mu         sync.RWMutex
	subs       []*subscription
	bufferSize int
	closed     bool
	wg         sync.WaitGroup
	dropped    atomic.Int64
}

// NewBus creates a new event bus with the specified buffer size per listener.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &Bus{bufferSize: bufferSize}
}

// Subscribe registers fn for events accepted by filter and returns an unsubscribe function.
func (b *Bus) Subscribe(fn Listener, filter Filter) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{ch: make(chan Event, b.bufferSize), filter: filter}
	if b.closed {
		close(sub.ch)
		return func() {}
	}
	b.subs = append(b.subs, sub)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for event := range sub.ch {
			func() {
				defer func() {
					// a panicking listener must not stop delivery to itself or others
					_ = recover()
				}()
				fn(event)
			}()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s == sub {
					b.subs = append(b.subs[:i], b.subs[i+1:]...)
					close(sub.ch)
					break
				}
			}
		})
	}
}

// Publish sends an event to every interested listener without blocking.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	for _, s := range b.subs {
		if s.filter != nil && !s.filter(event) {
			continue
		}
		select {
		case s.ch <- event:
		default:
			// listener is behind, drop
			b.dropped.Add(1)
		}
	}
}

// Dropped is the number of deliveries skipped because a listener was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes all listener channels. Later subscriptions are inert.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	b.closed = true
}

// Wait blocks until every closed listener has drained its channel.
// Call it after Close to make sure all published events were delivered.
func (b *Bus) Wait() {
	b.wg.Wait()
}
