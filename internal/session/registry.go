// Package session implements the channel-scoped minigame session engine:
// channel occupancy, the join phase, the race-against-timeout round
// primitive, and score accumulation.
package session

import (
	"errors"
	"sync"
)

// ErrChannelBusy is returned by Acquire when a game is already running in
// the channel. It is a normal control-flow outcome, not a failure.
var ErrChannelBusy = errors.New("a game is already active in this channel")

// Registry tracks which channels have an active game session. At most one
// session holds a channel at any time; acquisition is an atomic
// test-and-set under a single mutex.
type Registry struct {
	mu     sync.Mutex
	active map[int64]*Lease
}

// NewRegistry creates an empty channel registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[int64]*Lease)}
}

// Acquire claims the channel for a new session. It returns ErrChannelBusy
// without side effects if the channel is occupied.
func (r *Registry) Acquire(chatID int64) (*Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, occupied := r.active[chatID]; occupied {
		return nil, ErrChannelBusy
	}
	lease := &Lease{registry: r, chatID: chatID}
	r.active[chatID] = lease
	return lease, nil
}

// Active reports whether the channel currently has a session.
func (r *Registry) Active(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, occupied := r.active[chatID]
	return occupied
}

// Count returns the number of channels with an active session.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

// Lease is the proof of exclusive occupancy of a channel. It must be
// released on every exit path; sessions defer Release immediately after a
// successful Acquire so abort, timeout, and panic paths all free the
// channel.
type Lease struct {
	registry *Registry
	chatID   int64
	once     sync.Once
}

// ChatID returns the channel the lease covers.
func (l *Lease) ChatID() int64 {
	return l.chatID
}

// Release frees the channel. Safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.registry.mu.Lock()
		defer l.registry.mu.Unlock()
		// Only remove our own entry; a later session may hold the slot.
		if l.registry.active[l.chatID] == l {
			delete(l.registry.active, l.chatID)
		}
	})
}
