package record

import (
	"context"
	"sync"
)

// MemoryBackend keeps records in memory. It is used when no database is configured.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]Record)}
}

// Setup does nothing.
func (*MemoryBackend) Setup(ctx context.Context) error {
	return nil
}

// Save stores a copy of the record.
func (m *MemoryBackend) Save(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.Moves = append([]Move(nil), r.Moves...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
	return nil
}

// Load returns a copy of the record.
func (m *MemoryBackend) Load(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Moves = append([]Move(nil), r.Moves...)
	return &r, nil
}
