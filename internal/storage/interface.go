package storage

import (
	"context"
)

// Collection names
const (
	CollectionClasses       = "classes"
	CollectionRegistrations = "registrations"
)

// Fields is the JSON-compatible content of a document
type Fields map[string]any

// Document is a stored document and its id
type Document struct {
	ID     string
	Fields Fields
}

// Storage is the document store the application persists to
type Storage interface {
	// ListDocuments returns every document in the collection, ordered by id
	ListDocuments(ctx context.Context, collection string) ([]Document, error)

	// GetDocument returns model.ErrDocumentNotFound when the document is absent
	GetDocument(ctx context.Context, collection, id string) (Fields, error)

	// SetDocument writes a document. With merge, top-level fields are laid
	// over the existing document; without, the document is replaced.
	SetDocument(ctx context.Context, collection, id string, fields Fields, merge bool) error

	// AddDocument stores a document under a newly generated id
	AddDocument(ctx context.Context, collection string, fields Fields) (string, error)

	// DeleteDocument removes a document. Deleting an absent document is not an error.
	DeleteDocument(ctx context.Context, collection, id string) error
}
