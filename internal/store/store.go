// Package store persists session records by id. The analysis pipeline never
// touches it; only the HTTP layer consults and updates sessions.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/kl2321/FYP2025Kath-sub000/internal/types"
)

// ErrNotFound indicates no record exists for the requested session id.
var ErrNotFound = errors.New("session not found")

// Store is the key-value session record store.
type Store interface {
	Get(ctx context.Context, sessionID string) (types.SessionRecord, error)
	Put(ctx context.Context, sessionID string, rec types.SessionRecord) error

	// List returns all records, newest first. Used by the report export.
	List(ctx context.Context) ([]types.SessionRecord, error)
}

// Memory is the in-process store used by default and in tests.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]types.SessionRecord
}

func NewMemory() *Memory {
	return &Memory{recs: make(map[string]types.SessionRecord)}
}

func (m *Memory) Get(ctx context.Context, sessionID string) (types.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[sessionID]
	if !ok {
		return types.SessionRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) Put(ctx context.Context, sessionID string, rec types.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[sessionID] = rec
	return nil
}

func (m *Memory) List(ctx context.Context) ([]types.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.SessionRecord, 0, len(m.recs))
	for _, rec := range m.recs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
