// Package memorybus diffuse les événements d'extraction aux abonnés du processus (SSE).
package memorybus

import (
	"strings"
	"sync"

	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

const subscriberBuffer = 64

type subscriber struct {
	prefixes []string
}

func (s subscriber) wants(topic string) bool {
	if len(s.prefixes) == 0 {
		return true
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(topic, p) {
			return true
		}
	}
	return false
}

// Bus est un fan-out non bloquant: un abonné trop lent perd des événements.
type Bus struct {
	mu      sync.Mutex
	subs    map[chan ports.Event]subscriber
	dropped uint64
	closed  bool
}

func New() *Bus {
	return &Bus{subs: make(map[chan ports.Event]subscriber)}
}

func (b *Bus) Publish(topic string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	evt := ports.Event{Topic: topic, Payload: payload}
	for ch, sub := range b.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case ch <- evt:
		default:
			b.dropped++
		}
	}
}

// Subscribe reçoit tous les topics.
func (b *Bus) Subscribe() (<-chan ports.Event, func()) {
	return b.SubscribeTopics()
}

// SubscribeTopics ne reçoit que les topics commençant par un des préfixes (ex: "detail.").
func (b *Bus) SubscribeTopics(prefixes ...string) (<-chan ports.Event, func()) {
	ch := make(chan ports.Event, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = subscriber{prefixes: prefixes}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Dropped renvoie le nombre d'événements perdus faute de place chez un abonné.
func (b *Bus) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close ferme tous les abonnements; les Publish suivants sont ignorés.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}
