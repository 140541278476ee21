/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package visit

import (
	"context"
	"slices"
	"sync"
)

// Store is the durable backing for the visit list.
type Store interface {
	LoadAll(ctx context.Context) ([]Visit, error)
	SaveAll(ctx context.Context, visits []Visit) error
}

// Upserter is implemented by stores that can replace a single visit
// atomically. Sessions prefer it over a LoadAll/SaveAll round trip.
type Upserter interface {
	Upsert(ctx context.Context, v Visit) error
}

// upsert replaces the visit with the same id or appends it.
func upsert(visits []Visit, v Visit) []Visit {
	idx := slices.IndexFunc(visits, func(existing Visit) bool { return existing.ID == v.ID })
	if idx >= 0 {
		visits[idx] = v
		return visits
	}

	return append(visits, v)
}

// MemoryStore keeps visits in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	visits []Visit
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func cloneAll(in []Visit) []Visit {
	out := make([]Visit, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}

	return out
}

// LoadAll returns copies of every stored visit.
func (m *MemoryStore) LoadAll(_ context.Context) ([]Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneAll(m.visits), nil
}

// SaveAll replaces the stored list.
func (m *MemoryStore) SaveAll(_ context.Context, visits []Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.visits = cloneAll(visits)

	return nil
}

// Upsert replaces or appends a single visit.
func (m *MemoryStore) Upsert(_ context.Context, v Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.visits = upsert(m.visits, v.Clone())

	return nil
}
