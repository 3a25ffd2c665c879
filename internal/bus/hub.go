package bus

import (
	"sync"
	"time"
)

// Topic identifies a process-wide notification.
type Topic uint8

const (
	_topic_beg Topic = iota
	TopicSessionExpired
	TopicUserLoggedOut
	_topic_end
)

func (t Topic) IsAvailable() bool {
	return t > _topic_beg && t < _topic_end
}

func (t Topic) String() string {
	switch t {
	case TopicSessionExpired:
		return "session-expired"
	case TopicUserLoggedOut:
		return "user-logged-out"
	default:
		return "unknown"
	}
}

// Notice is the unit delivered to subscribers.
type Notice struct {
	Topic Topic
	At    time.Time
}

const subscriberBuffer = 8

// Hub fans out notifications to any number of subscribers. Publishers
// never learn who listens, and a slow subscriber never blocks a publish.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Topic]map[uint64]chan Notice
}

// NewHub allocates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[Topic]map[uint64]chan Notice)}
}

// Subscribe registers interest in a topic. The returned cancel func
// removes the subscription and closes the channel.
func (h *Hub) Subscribe(topic Topic) (<-chan Notice, func()) {
	ch := make(chan Notice, subscriberBuffer)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	group := h.subs[topic]
	if group == nil {
		group = make(map[uint64]chan Notice)
		h.subs[topic] = group
	}
	group[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if group, ok := h.subs[topic]; ok {
			if _, ok := group[id]; ok {
				delete(group, id)
				close(ch)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a notice to every subscriber of the topic without
// blocking. A subscriber whose buffer is full misses the notice.
func (h *Hub) Publish(topic Topic) {
	if h == nil || !topic.IsAvailable() {
		return
	}
	notice := Notice{Topic: topic, At: time.Now()}

	h.mu.Lock()
	for _, ch := range h.subs[topic] {
		select {
		case ch <- notice:
		default:
		}
	}
	h.mu.Unlock()
}
