package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ListDocuments(ctx context.Context, collection string) ([]storage.Document, error) {
	ids, err := s.client.SMembers(ctx, collectionIndexKey(collection)).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []storage.Document{}, nil
	}
	slices.Sort(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = documentKey(collection, id)
	}

	// Fetch all documents in one round trip
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	docs := make([]storage.Document, 0, len(values))
	for i, val := range values {
		raw, ok := val.(string)
		if !ok {
			continue // Index entry without a document
		}
		fields, err := storage.UnmarshalFields([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("document %s/%s: %w", collection, ids[i], err)
		}
		docs = append(docs, storage.Document{ID: ids[i], Fields: fields})
	}
	return docs, nil
}

func (s *Storage) GetDocument(ctx context.Context, collection, id string) (storage.Fields, error) {
	data, err := s.client.Get(ctx, documentKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, err
	}
	return storage.UnmarshalFields(data)
}

func (s *Storage) SetDocument(ctx context.Context, collection, id string, fields storage.Fields, merge bool) error {
	if merge {
		return s.mergeDocument(ctx, collection, id, fields)
	}

	data, err := storage.MarshalFields(fields)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, documentKey(collection, id), data, 0)
	pipe.SAdd(ctx, collectionIndexKey(collection), id)
	_, err = pipe.Exec(ctx)
	return err
}

// mergeDocument reads, overlays and writes under WATCH so a concurrent
// writer forces a retry instead of being silently overwritten
func (s *Storage) mergeDocument(ctx context.Context, collection, id string, patch storage.Fields) error {
	key := documentKey(collection, id)

	txf := func(tx *redis.Tx) error {
		base := storage.Fields{}
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if base, err = storage.UnmarshalFields(data); err != nil {
				return err
			}
		}

		merged, err := storage.MarshalFields(storage.Merge(base, patch))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, merged, 0)
			pipe.SAdd(ctx, collectionIndexKey(collection), id)
			return nil
		})
		return err
	}

	retries := max(s.cfg.MaxMergeRetries, 1)
	for range retries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("merge %s/%s: too many concurrent writers", collection, id)
}

func (s *Storage) AddDocument(ctx context.Context, collection string, fields storage.Fields) (string, error) {
	id := uuid.NewString()
	if err := s.SetDocument(ctx, collection, id, fields, false); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Storage) DeleteDocument(ctx context.Context, collection, id string) error {
	// Delete document and index entry in one pipeline
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, documentKey(collection, id))
	pipe.SRem(ctx, collectionIndexKey(collection), id)
	_, err := pipe.Exec(ctx)
	return err
}
