package app

import (
	"context"
	"sync"
)

// FetchLimiter borne le nombre de chargements de détail simultanés.
// Le plafond peut être modifié à chaud via SetLimit; Acquire respecte le contexte.
type FetchLimiter struct {
	mu       sync.Mutex
	limit    int
	inFlight int
	notify   chan struct{}
}

func NewFetchLimiter(limit int) *FetchLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &FetchLimiter{limit: limit, notify: make(chan struct{})}
}

func (l *FetchLimiter) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

func (l *FetchLimiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

func (l *FetchLimiter) SetLimit(limit int) {
	if limit <= 0 {
		limit = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit != limit {
		l.limit = limit
		l.wakeLocked()
	}
}

// Acquire attend une place libre. La fonction renvoyée libère la place;
// l'appeler plusieurs fois est sans effet.
func (l *FetchLimiter) Acquire(ctx context.Context) (release func(), err error) {
	for {
		l.mu.Lock()
		if l.inFlight < l.limit {
			l.inFlight++
			l.mu.Unlock()
			var once sync.Once
			return func() { once.Do(l.release) }, nil
		}
		wait := l.notify
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-wait:
		}
	}
}

func (l *FetchLimiter) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inFlight > 0 {
		l.inFlight--
	}
	l.wakeLocked()
}

// wakeLocked réveille tous les waiters: on ferme le channel et on en recrée un.
func (l *FetchLimiter) wakeLocked() {
	close(l.notify)
	l.notify = make(chan struct{})
}
