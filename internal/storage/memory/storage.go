package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are kept as serialized JSON so callers never share maps with the store.
type Storage struct {
	mu sync.RWMutex

	collections map[string]map[string][]byte
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		collections: make(map[string]map[string][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ListDocuments(ctx context.Context, collection string) ([]storage.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]storage.Document, 0, len(ids))
	for _, id := range ids {
		fields, err := storage.UnmarshalFields(docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, storage.Document{ID: id, Fields: fields})
	}
	return out, nil
}

func (s *Storage) GetDocument(ctx context.Context, collection, id string) (storage.Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, model.ErrDocumentNotFound
	}
	return storage.UnmarshalFields(data)
}

func (s *Storage) SetDocument(ctx context.Context, collection, id string, fields storage.Fields, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.collections[collection] = docs
	}

	if merge {
		if existing, ok := docs[id]; ok {
			base, err := storage.UnmarshalFields(existing)
			if err != nil {
				return err
			}
			fields = storage.Merge(base, fields)
		}
	}

	data, err := storage.MarshalFields(fields)
	if err != nil {
		return err
	}
	docs[id] = data
	return nil
}

func (s *Storage) AddDocument(ctx context.Context, collection string, fields storage.Fields) (string, error) {
	id := uuid.NewString()
	if err := s.SetDocument(ctx, collection, id, fields, false); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Storage) DeleteDocument(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}
