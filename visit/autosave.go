/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package visit

import (
	"context"
	"time"
)

// DefaultAutoSaveInterval is how often an open visit is persisted.
const DefaultAutoSaveInterval = 30 * time.Second

// AutoSaver periodically saves a session's current visit.
type AutoSaver struct {
	interval time.Duration

	// tick returns a tick channel and its stop function.
	tick func(time.Duration) (<-chan time.Time, func())
}

// NewAutoSaver returns an auto-saver firing every interval.
func NewAutoSaver(interval time.Duration) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}

	return &AutoSaver{
		interval: interval,
		tick: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Run saves s on every tick until ctx is cancelled or the session ends.
// Save failures are logged and retried on the next tick.
func (a *AutoSaver) Run(ctx context.Context, s *Session) {
	ticks, stop := a.tick(a.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.Done():
			return
		case <-ticks:
			if !s.HasVisit() {
				continue
			}

			if err := s.Save(ctx); err != nil {
				logger.Warn("Auto-save failed", "operator", s.OperatorID(), "error", err)
			}
		}
	}
}
