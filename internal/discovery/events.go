// internal/discovery/events.go
package discovery

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/vrf-gateway/internal/status"
)

// EventKind tells what happened to a unit.
type EventKind string

const (
	EventUnitAdded   EventKind = "unit_added"
	EventUnitRemoved EventKind = "unit_removed"
)

// Event reports a roster change on one gateway.
type Event struct {
	ID      uuid.UUID
	Kind    EventKind
	Gateway string
	Address status.Address
	At      time.Time
}

// NewEvent stamps a new event.
func NewEvent(kind EventKind, gateway string, a status.Address) Event {
	return Event{
		ID:      uuid.New(),
		Kind:    kind,
		Gateway: gateway,
		Address: a,
		At:      time.Now(),
	}
}

// Bus fans events out to subscribers. Publish never blocks: a
// subscriber whose channel is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
	dropped     atomic.Uint64
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers ch for all future events.
func (b *Bus) Subscribe(ch chan<- Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, ch)
}

// Publish delivers ev to every subscriber that has room. A nil bus
// discards the event.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped counts deliveries skipped because a subscriber was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}
