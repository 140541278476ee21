/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package visit

import (
	"context"
	"sync"
	"time"
)

type registryEntry struct {
	session  *Session
	cancel   context.CancelFunc
	stopped  chan struct{}
	lastSeen time.Time
}

// Registry maps web session keys to assessment sessions and owns their
// auto-savers.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]*registryEntry
	store    Store
	interval time.Duration
	opts     []Option
	now      func() time.Time
}

// NewRegistry creates a registry. A non-positive interval disables auto-save.
func NewRegistry(store Store, interval time.Duration, opts ...Option) *Registry {
	return &Registry{
		entries:  make(map[string]*registryEntry),
		store:    store,
		interval: interval,
		opts:     opts,
		now:      time.Now,
	}
}

// Store returns the backing store.
func (r *Registry) Store() Store {
	return r.store
}

// Open returns the session for key, creating it for operatorID when absent.
// A session owned by a different operator is ended and replaced.
func (r *Registry) Open(key, operatorID string) (*Session, error) {
	if operatorID == "" {
		return nil, ErrOperatorRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		if e.session.OperatorID() == operatorID {
			e.lastSeen = r.now()
			return e.session, nil
		}

		r.stopLocked(key, e)
	}

	s := NewSession(r.store, operatorID, r.opts...)
	ctx, cancel := context.WithCancel(context.Background())
	e := &registryEntry{session: s, cancel: cancel, stopped: make(chan struct{}), lastSeen: r.now()}

	if r.interval > 0 {
		saver := NewAutoSaver(r.interval)

		go func() {
			defer close(e.stopped)
			saver.Run(ctx, s)
		}()
	} else {
		close(e.stopped)
	}

	r.entries[key] = e
	logger.Debug("Opened assessment session", "operator", operatorID)

	return s, nil
}

// Get returns the session for key.
func (r *Registry) Get(key string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}

	e.lastSeen = r.now()

	return e.session, true
}

func (r *Registry) stopLocked(key string, e *registryEntry) {
	e.cancel()
	e.session.End()
	<-e.stopped
	delete(r.entries, key)
}

// End stops the auto-saver for key and forgets the session.
func (r *Registry) End(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		r.stopLocked(key, e)
	}
}

// ExpireIdle ends every session not opened or fetched within maxIdle and
// returns how many were ended.
func (r *Registry) ExpireIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	expired := 0

	for key, e := range r.entries {
		if e.lastSeen.After(cutoff) {
			continue
		}

		logger.Debug("Expiring idle assessment session", "operator", e.session.OperatorID(), "last_seen", e.lastSeen)
		r.stopLocked(key, e)
		expired++
	}

	return expired
}

// RunJanitor calls ExpireIdle every period until ctx is cancelled.
func (r *Registry) RunJanitor(ctx context.Context, period, maxIdle time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.ExpireIdle(maxIdle); n > 0 {
				logger.Info("Expired idle assessment sessions", "count", n)
			}
		}
	}
}

// Close ends every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, e := range r.entries {
		r.stopLocked(key, e)
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}
