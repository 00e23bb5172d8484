package changefeed

import (
	"sync"

	"gerai-be/internal/logger"

	"go.uber.org/zap"
)

const subscriberBuffer = 64

// Hub is the in-process half of the change feed: sources publish events
// into it and stores subscribe per table. It is safe for concurrent use.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*hubSub
	closed bool
}

type hubSub struct {
	tables map[string]struct{}
	ch     chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]*hubSub)}
}

func (h *Hub) Subscribe(tables ...string) *Subscription {
	tableSet := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		tableSet[t] = struct{}{}
	}

	ch := make(chan Event, subscriberBuffer)
	sub := &hubSub{tables: tableSet, ch: ch}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.closed {
		close(ch)
	} else {
		h.subs[id] = sub
	}
	h.mu.Unlock()

	return &Subscription{
		C: ch,
		cancel: func() {
			h.mu.Lock()
			if s, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(s.ch)
			}
			h.mu.Unlock()
		},
	}
}

// Publish fans the event out to matching subscribers. A subscriber whose
// buffer is full misses the event; stores reconcile on the next one, so a
// dropped event is logged and not fatal.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if len(sub.tables) > 0 {
			if _, ok := sub.tables[e.Table]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- e:
		default:
			logger.L().Warn("change event dropped for slow subscriber",
				zap.String("table", e.Table),
				zap.String("action", string(e.Action)),
			)
		}
	}
}

// Close closes all subscriber channels. Subsequent Subscribe calls get a
// closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}
