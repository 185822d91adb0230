package ratelimit

import (
	"math"
	"sync"
	"time"
)

// Clock is injectable so tests can move through windows without sleeping.
type Clock func() time.Time

// Limiter is a fixed-window request counter per client identity. State is
// process-local on purpose: each instance enforces its own windows and
// nothing is shared across processes.
type Limiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	message   string
	now       Clock
	clients   map[string]*clientWindow
	lastSweep time.Time
}

type clientWindow struct {
	start time.Time
	count int
}

// Result reports one admission decision plus the header values that go with
// it.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is the whole seconds left until the client's window expires.
	Reset int
}

func New(window time.Duration, max int, message string) *Limiter {
	return &Limiter{
		window:  window,
		max:     max,
		message: message,
		now:     time.Now,
		clients: make(map[string]*clientWindow),
	}
}

func (l *Limiter) Message() string { return l.message }

func (l *Limiter) SetClock(c Clock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = c
}

// Allow counts one request for the client and decides whether it may pass.
func (l *Limiter) Allow(client string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) >= l.window {
		w = &clientWindow{start: now}
		l.clients[client] = w
	}

	reset := int(math.Ceil(l.window.Seconds() - now.Sub(w.start).Seconds()))
	if reset < 0 {
		reset = 0
	}

	if w.count >= l.max {
		return Result{Allowed: false, Limit: l.max, Remaining: 0, Reset: reset}
	}

	w.count++
	return Result{Allowed: true, Limit: l.max, Remaining: l.max - w.count, Reset: reset}
}

// sweep drops expired windows at most once per window length so the map does
// not grow with every client ever seen. Caller holds the lock.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for client, w := range l.clients {
		if now.Sub(w.start) >= l.window {
			delete(l.clients, client)
		}
	}
}
