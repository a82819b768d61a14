package store

import (
	"context"
	"sync"

	"github.com/MeKo-Tech/scandoc/internal/document"
)

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	mu   sync.Mutex
	docs []document.Document

	// FailNextLoad makes the next Load call return this error once; tests
	// use it to exercise store-failure paths.
	FailNextLoad error
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Load(ctx context.Context) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNextLoad != nil {
		err := m.FailNextLoad
		m.FailNextLoad = nil
		return nil, err
	}
	out := make([]document.Document, len(m.docs))
	copy(out, m.docs)
	return out, nil
}

func (m *MemStore) Save(ctx context.Context, docs []document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make([]document.Document, len(docs))
	copy(m.docs, docs)
	return nil
}
