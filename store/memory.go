package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps models in a map. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	models map[string]Model
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{models: make(map[string]Model)}
}

func (s *MemoryStore) SaveModel(_ context.Context, m Model) (string, error) {
	if !m.Kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, m.Kind)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Payload = append([]byte(nil), m.Payload...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.models[m.ID]; ok {
		m.CreatedAt = existing.CreatedAt
	} else {
		m.CreatedAt = time.Now().UTC()
	}
	s.models[m.ID] = m
	return m.ID, nil
}

func (s *MemoryStore) Model(_ context.Context, id string) (Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[id]
	if !ok {
		return Model{}, fmt.Errorf("%w: %q", ErrModelNotFound, id)
	}
	m.Payload = append([]byte(nil), m.Payload...)
	return m, nil
}

func (s *MemoryStore) Models(_ context.Context) ([]Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Model, 0, len(s.models))
	for _, m := range s.models {
		m.Payload = append([]byte(nil), m.Payload...)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) DeleteModel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.models[id]; !ok {
		return fmt.Errorf("%w: %q", ErrModelNotFound, id)
	}
	delete(s.models, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
