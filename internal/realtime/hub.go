// Package realtime fans full collection snapshots out to subscribers.
package realtime

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

const (
	TopicMolds     = "molds"
	TopicPersonnel = "personnel"
	TopicMachines  = "machines"
	TopicLayout    = "layout"
)

var topics = map[string]bool{
	TopicMolds:     true,
	TopicPersonnel: true,
	TopicMachines:  true,
	TopicLayout:    true,
}

func ValidTopic(topic string) bool {
	return topics[topic]
}

// Snapshot is the complete current state of one topic, never a delta.
type Snapshot struct {
	Topic   string
	Version uint64
	Data    json.RawMessage
}

type subscriber struct {
	topic  string
	events chan Snapshot
}

// Hub keeps the latest snapshot per topic and pushes every new one to the
// subscribers of that topic.
type Hub struct {
	log    *slog.Logger
	buffer int

	mu      sync.Mutex
	subs    map[string]*subscriber
	latest  map[string]Snapshot
	version uint64
}

func NewHub(log *slog.Logger, buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		log:    log,
		buffer: buffer,
		subs:   make(map[string]*subscriber),
		latest: make(map[string]Snapshot),
	}
}

// Subscription must be released when the consumer goes away, otherwise the
// hub keeps pushing into it.
type Subscription struct {
	ID     string
	Topic  string
	Events <-chan Snapshot

	hub  *Hub
	once sync.Once
}

// Subscribe registers a consumer. If the topic already has a snapshot it is
// delivered first.
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &subscriber{topic: topic, events: make(chan Snapshot, h.buffer)}
	id := uuid.NewString()

	h.mu.Lock()
	h.subs[id] = sub
	if snap, ok := h.latest[topic]; ok {
		sub.events <- snap
	}
	total := len(h.subs)
	h.mu.Unlock()

	h.log.Debug("subscriber registered", slog.String("id", id), slog.String("topic", topic), slog.Int("total", total))

	return &Subscription{ID: id, Topic: topic, Events: sub.events, hub: h}
}

// Release unregisters the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Release() {
	s.once.Do(func() {
		s.hub.unregister(s.ID)
	})
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		close(sub.events)
		delete(h.subs, id)
		h.log.Debug("subscriber released", slog.String("id", id), slog.Int("total", len(h.subs)))
	}
}

// Publish stores v as the latest snapshot of topic and pushes it to every
// subscriber. A subscriber whose buffer is full loses its oldest pending
// snapshot; since snapshots are complete it still ends on the newest one.
func (h *Hub) Publish(topic string, v any) error {
	const op = "realtime.Hub.Publish"

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode %s snapshot: %w", op, topic, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.version++
	snap := Snapshot{Topic: topic, Version: h.version, Data: data}
	h.latest[topic] = snap

	for id, sub := range h.subs {
		if sub.topic != topic {
			continue
		}
		select {
		case sub.events <- snap:
		default:
			select {
			case <-sub.events:
			default:
			}
			select {
			case sub.events <- snap:
			default:
			}
			h.log.Warn("subscriber buffer full, dropped stale snapshot", slog.String("id", id), slog.String("topic", topic))
		}
	}

	return nil
}

func (h *Hub) Latest(topic string) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snap, ok := h.latest[topic]
	return snap, ok
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, sub := range h.subs {
		if sub.topic == topic {
			n++
		}
	}
	return n
}
