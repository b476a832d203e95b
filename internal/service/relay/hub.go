package relay

import (
	"sync"

	"secure_chat/internal/model"
)

type (
	// Hub fans newly appended envelopes out to live subscribers, keyed by
	// recipient. Delivery is non-blocking: a subscriber that cannot keep
	// up misses pushes and catches up through a cursor fetch instead.
	Hub struct {
		mu   sync.Mutex
		next int
		subs map[string]map[int]chan *model.Envelope
	}
)

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[int]chan *model.Envelope),
	}
}

func (h *Hub) Subscribe(recipient string) (<-chan *model.Envelope, func()) {
	ch := make(chan *model.Envelope, 16)

	h.mu.Lock()
	id := h.next
	h.next++
	if h.subs[recipient] == nil {
		h.subs[recipient] = make(map[int]chan *model.Envelope)
	}
	h.subs[recipient][id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if chans, ok := h.subs[recipient]; ok {
			if _, ok := chans[id]; ok {
				delete(chans, id)
				close(ch)
			}
			if len(chans) == 0 {
				delete(h.subs, recipient)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *Hub) Notify(env *model.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[env.To] {
		select {
		case ch <- env:
		default:
		}
	}
}
