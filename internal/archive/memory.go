package archive

import (
	"context"
	"sort"
	"sync"
)

// memoryStore keeps records in process. Used when no backend is configured
// and in tests.
type memoryStore struct {
	mu   sync.RWMutex
	byID map[string]GameRecord
	seq  map[string]int
	next int
}

func NewMemoryStore() Store {
	return &memoryStore{
		byID: make(map[string]GameRecord),
		seq:  make(map[string]int),
	}
}

func (m *memoryStore) Save(ctx context.Context, rec GameRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[rec.ID]; exists {
		return ErrDuplicateGame
	}
	rec.MovesUCI = append([]string(nil), rec.MovesUCI...)
	m.next++
	m.byID[rec.ID] = rec
	m.seq[rec.ID] = m.next
	return nil
}

func (m *memoryStore) Recent(ctx context.Context, limit int) ([]GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]GameRecord, 0, len(m.byID))
	for _, rec := range m.byID {
		items = append(items, rec)
	}
	// EndedAt desc, insertion order desc on ties
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return m.seq[items[i].ID] > m.seq[items[j].ID]
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memoryStore) Close() error { return nil }
