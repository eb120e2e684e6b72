package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Topic names for core domain events.
const (
	TopicConfigUpdated    = "config.updated"
	TopicCredentialsSaved = "credentials.saved"
	TopicStudioStatus     = "studio.status"
)

// CredentialsSaved is the payload of TopicCredentialsSaved.
type CredentialsSaved struct {
	Count int `json:"count"`
}

// StudioStatus is the payload of TopicStudioStatus: one resolved feature request.
type StudioStatus struct {
	Feature  string `json:"feature"`
	Source   string `json:"source"`
	Reason   string `json:"reason,omitempty"`
	Attempts int    `json:"attempts"`
	Notice   string `json:"notice,omitempty"`
}

// Event is one published message.
type Event struct {
	Topic     string            `json:"topic"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   any               `json:"payload,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Handler receives events for a topic.
type Handler func(context.Context, Event)

// Publisher is implemented by anything that accepts studio events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any, metadata map[string]string)
}

// Subscriber registers handlers on topics.
type Subscriber interface {
	Subscribe(topic string, handler Handler) func()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any, map[string]string) {}

type subscription struct {
	id      uint64
	handler Handler
}

// Hub fans events out to in-process subscribers. Handlers run synchronously
// on the publishing goroutine, in the order they subscribed.
type Hub struct {
	mu     sync.RWMutex
	topics map[string][]subscription
	seq    uint64
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string][]subscription)}
}

// Subscribe adds handler to topic and returns its cancel func. Calling the
// cancel func more than once is harmless.
func (h *Hub) Subscribe(topic string, handler Handler) func() {
	h.mu.Lock()
	h.seq++
	id := h.seq
	h.topics[topic] = append(h.topics[topic], subscription{id: id, handler: handler})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(topic, id) })
	}
}

func (h *Hub) unsubscribe(topic string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.topics[topic]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		rest := make([]subscription, 0, len(subs)-1)
		rest = append(rest, subs[:i]...)
		rest = append(rest, subs[i+1:]...)
		if len(rest) == 0 {
			delete(h.topics, topic)
		} else {
			h.topics[topic] = rest
		}
		return
	}
}

// Publish stamps the event and hands it to every subscriber of topic. A
// panicking handler is logged and skipped.
func (h *Hub) Publish(ctx context.Context, topic string, payload any, metadata map[string]string) {
	h.mu.RLock()
	subs := h.topics[topic]
	h.mu.RUnlock()
	if len(subs) == 0 {
		return
	}

	ev := Event{Topic: topic, Timestamp: time.Now().UTC(), Payload: payload, Metadata: metadata}
	for _, s := range subs {
		deliver(ctx, s.handler, ev)
	}
}

func deliver(ctx context.Context, fn Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"topic": ev.Topic, "panic": r}).Error("event handler panicked")
		}
	}()
	fn(ctx, ev)
}

// SubscriberCount reports how many handlers listen on topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
