package store

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
)

type memory struct {
	mu   sync.RWMutex
	data map[string]map[string]Record
}

func NewMemory() Store { return &memory{data: map[string]map[string]Record{}} }

func (m *memory) List(_ context.Context, collection string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.data[collection]
	out := make([]Record, 0, len(c))
	for _, r := range c {
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memory) Get(_ context.Context, collection, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.data[collection][id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	return clone(r), nil
}

func (m *memory) Put(_ context.Context, collection string, rec Record) error {
	if err := validKey(collection, rec.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[collection]
	if !ok {
		c = map[string]Record{}
		m.data[collection] = c
	}
	c[rec.ID] = clone(rec)
	return nil
}

func (m *memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[collection][id]; !ok {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	delete(m.data[collection], id)
	return nil
}

func (m *memory) Close() error { return nil }

func clone(r Record) Record {
	return Record{ID: r.ID, Fields: maps.Clone(r.Fields)}
}
