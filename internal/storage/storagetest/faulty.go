package storagetest

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/classreg/internal/storage"
)

// ErrInjected is returned by a Faulty store when a failure is switched on
var ErrInjected = errors.New("injected store failure")

// Faulty wraps a store and fails reads or writes on demand
type Faulty struct {
	storage.Storage

	mu         sync.Mutex
	failReads  bool
	failWrites bool
	writes     int
}

// NewFaulty wraps inner
func NewFaulty(inner storage.Storage) *Faulty {
	return &Faulty{Storage: inner}
}

var _ storage.Storage = (*Faulty)(nil)

// FailReads toggles read failures
func (f *Faulty) FailReads(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failReads = fail
}

// FailWrites toggles write failures
func (f *Faulty) FailWrites(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = fail
}

// Writes returns the number of write calls that reached the inner store
func (f *Faulty) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *Faulty) readErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return ErrInjected
	}
	return nil
}

func (f *Faulty) writeErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return ErrInjected
	}
	f.writes++
	return nil
}

func (f *Faulty) ListDocuments(ctx context.Context, collection string) ([]storage.Document, error) {
	if err := f.readErr(); err != nil {
		return nil, err
	}
	return f.Storage.ListDocuments(ctx, collection)
}

func (f *Faulty) GetDocument(ctx context.Context, collection, id string) (storage.Fields, error) {
	if err := f.readErr(); err != nil {
		return nil, err
	}
	return f.Storage.GetDocument(ctx, collection, id)
}

func (f *Faulty) SetDocument(ctx context.Context, collection, id string, fields storage.Fields, merge bool) error {
	if err := f.writeErr(); err != nil {
		return err
	}
	return f.Storage.SetDocument(ctx, collection, id, fields, merge)
}

func (f *Faulty) AddDocument(ctx context.Context, collection string, fields storage.Fields) (string, error) {
	if err := f.writeErr(); err != nil {
		return "", err
	}
	return f.Storage.AddDocument(ctx, collection, fields)
}

func (f *Faulty) DeleteDocument(ctx context.Context, collection, id string) error {
	if err := f.writeErr(); err != nil {
		return err
	}
	return f.Storage.DeleteDocument(ctx, collection, id)
}
