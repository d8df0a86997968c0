package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/samithreddychinni/greedytangle/pkg/errors"
	"github.com/samithreddychinni/greedytangle/pkg/observability"
)

// Memory is an in-process store for tests and single-run tools.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

// Save stores a copy of the record.
func (m *Memory) Save(ctx context.Context, rec *Record) error {
	stamp(rec)

	m.mu.Lock()
	m.records[rec.ID] = *rec
	m.mu.Unlock()

	size := 0
	if data, err := json.Marshal(rec); err == nil {
		size = len(data)
	}
	observability.Store().OnSave(ctx, "memory", rec.ID, size)
	return nil
}

// Get retrieves a record by ID.
func (m *Memory) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	rec, ok := m.records[id]
	m.mu.RUnlock()

	observability.Store().OnLoad(ctx, "memory", id, ok)
	if !ok {
		return nil, errors.New(errors.ErrCodeReplayNotFound, "replay %s not found", id)
	}
	return &rec, nil
}

// List returns records newest first.
func (m *Memory) List(_ context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a record; missing IDs are ignored.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *Memory) Close(context.Context) error { return nil }
