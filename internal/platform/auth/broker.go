package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a session lifecycle event.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is published on every session state change.
type Event struct {
	Type      EventType `json:"type"`
	PatientID uuid.UUID `json:"patient_id"`
	SessionID uuid.UUID `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

type subscriber struct {
	ch        chan Event
	patientID uuid.UUID
}

// Broker fans session events out to in-process subscribers. Subscribers that
// cannot keep up have events dropped rather than blocking the publisher.
type Broker struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers interest in session events for a single patient. The
// returned cancel function releases the subscription and closes the channel;
// calling it more than once is safe.
func (b *Broker) Subscribe(patientID uuid.UUID) (<-chan Event, func()) {
	sub := &subscriber{
		ch:        make(chan Event, 16),
		patientID: patientID,
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[sub]; ok {
				delete(b.subs, sub)
				close(sub.ch)
			}
			b.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Publish delivers an event to every subscriber watching the event's patient.
func (b *Broker) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		if sub.patientID != evt.PatientID {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// Subscriber buffer full; skip to avoid blocking.
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
