// Package store defines the persistence boundary for documents. The store
// is the single source of truth: components re-read a document before
// mutating it instead of trusting copies held across await points.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MeKo-Tech/scandoc/internal/document"
)

// ErrNotFound is returned when a document id is absent from the store.
var ErrNotFound = errors.New("document not found")

// Store persists the full document collection with last-write-wins
// semantics.
type Store interface {
	Load(ctx context.Context) ([]document.Document, error)
	Save(ctx context.Context, docs []document.Document) error
}

// Get loads one document by id.
func Get(ctx context.Context, s Store, id string) (*document.Document, error) {
	docs, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	for i := range docs {
		if docs[i].ID == id {
			d := docs[i]
			return &d, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
}

// Update applies mutate to the current stored copy of the document and
// writes the collection back. The read and write happen back-to-back so the
// window for lost updates stays as small as the contract allows.
func Update(ctx context.Context, s Store, id string, mutate func(*document.Document) error) (*document.Document, error) {
	docs, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		if err := mutate(&docs[i]); err != nil {
			return nil, err
		}
		if err := s.Save(ctx, docs); err != nil {
			return nil, fmt.Errorf("save documents: %w", err)
		}
		d := docs[i]
		return &d, nil
	}
	return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
}

// Put inserts or replaces one document.
func Put(ctx context.Context, s Store, doc *document.Document) error {
	docs, err := s.Load(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	replaced := false
	for i := range docs {
		if docs[i].ID == doc.ID {
			docs[i] = *doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, *doc)
	}
	if err := s.Save(ctx, docs); err != nil {
		return fmt.Errorf("save documents: %w", err)
	}
	return nil
}
