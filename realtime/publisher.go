package realtime

import (
	"context"
	"sync"
)

// Event names pushed to connected sessions.
const (
	EventMessageNew         = "message:new"
	EventBadgeUpdate        = "badge:update"
	EventConversationUpsert = "conversation:upsert"
	EventNotification       = "notification"
	EventUnreadCountUpdate  = "unreadCountUpdate"
)

const AdminChannel = "role:admin"

func UserChannel(userID string) string {
	return "user:" + userID
}

func ConversationChannel(conversationID string) string {
	return "conversation:" + conversationID
}

// Publisher pushes a state change to whatever sessions are currently
// subscribed to a channel. Delivery is best effort: callers commit first,
// publish after, and treat a failed publish as a log line, never a rollback.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload interface{}) error
	Close() error
}

// Envelope is the on-wire shape: one JSON object per publish.
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// NoopPublisher drops everything; used when no Redis address is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

// MemoryPublisher records publishes for assertions in tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []RecordedEvent
}

type RecordedEvent struct {
	Channel string
	Event   string
	Payload interface{}
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (m *MemoryPublisher) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, RecordedEvent{Channel: channel, Event: event, Payload: payload})
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

func (m *MemoryPublisher) Events() []RecordedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventsFor filters recorded publishes by channel.
func (m *MemoryPublisher) EventsFor(channel string) []RecordedEvent {
	var out []RecordedEvent
	for _, e := range m.Events() {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}
