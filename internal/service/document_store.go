package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/repository"
)

// DocumentStore is the key-value document persistence the catalog services build on.
// repository.DocumentRepository implements it.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*model.Document, error)
	Put(ctx context.Context, collection, id string, data []byte) (*model.Document, error)
	Update(ctx context.Context, collection, id string, fn func(current []byte) ([]byte, error)) (*model.Document, error)
	Delete(ctx context.Context, collection, id string) error
	ListByPrefix(ctx context.Context, collection, prefix string) ([]model.Document, error)
}

// CachedDocumentStore is a read-through Redis cache in front of a DocumentStore.
// Writes go to the backing store first and then drop the cached copy.
type CachedDocumentStore struct {
	next DocumentStore
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCachedDocumentStore wraps next. A nil rdb disables caching.
func NewCachedDocumentStore(next DocumentStore, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedDocumentStore {
	return &CachedDocumentStore{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "document_cache").Logger(),
	}
}

// Get serves from Redis when possible. Cache failures fall through to the store.
func (s *CachedDocumentStore) Get(ctx context.Context, collection, id string) (*model.Document, error) {
	if s.rdb == nil {
		return s.next.Get(ctx, collection, id)
	}

	key := config.CacheKey.DocumentKey(collection, id)
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var d model.Document
		if err := json.Unmarshal(raw, &d); err == nil {
			return &d, nil
		}
		s.log.Warn().Str("key", key).Msg("Dropping undecodable cached document")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("key", key).Msg("Document cache read failed")
	}

	d, err := s.next.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, key, d)
	return d, nil
}

// Put writes through and refreshes the cached copy.
func (s *CachedDocumentStore) Put(ctx context.Context, collection, id string, data []byte) (*model.Document, error) {
	d, err := s.next.Put(ctx, collection, id, data)
	if err != nil {
		return nil, err
	}
	s.forget(ctx, collection, id)
	return d, nil
}

// Update runs fn against the backing store, which holds the row lock.
func (s *CachedDocumentStore) Update(ctx context.Context, collection, id string, fn func(current []byte) ([]byte, error)) (*model.Document, error) {
	d, err := s.next.Update(ctx, collection, id, fn)
	if err != nil {
		return nil, err
	}
	s.forget(ctx, collection, id)
	return d, nil
}

// Delete removes the document and its cached copy.
func (s *CachedDocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.next.Delete(ctx, collection, id); err != nil {
		return err
	}
	s.forget(ctx, collection, id)
	return nil
}

// ListByPrefix is never cached; it only backs admin listings.
func (s *CachedDocumentStore) ListByPrefix(ctx context.Context, collection, prefix string) ([]model.Document, error) {
	return s.next.ListByPrefix(ctx, collection, prefix)
}

func (s *CachedDocumentStore) remember(ctx context.Context, key string, d *model.Document) {
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Document cache write failed")
	}
}

func (s *CachedDocumentStore) forget(ctx context.Context, collection, id string) {
	if s.rdb == nil {
		return
	}
	key := config.CacheKey.DocumentKey(collection, id)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Document cache invalidation failed")
	}
}

// isNotFound reports whether err means the document does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrDocumentNotFound)
}

// getJSON loads a document and decodes its body into v.
func getJSON(ctx context.Context, docs DocumentStore, id string, v any) error {
	d, err := docs.Get(ctx, model.ConfigCollection, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", id, err)
	}
	return nil
}

// updateJSON decodes the current body into a fresh T, lets fn change it, and
// stores the result under the store's row lock. fn sees exists=false for a
// missing document.
func updateJSON[T any](ctx context.Context, docs DocumentStore, id string, fn func(v *T, exists bool) error) (T, error) {
	var out T
	_, err := docs.Update(ctx, model.ConfigCollection, id, func(current []byte) ([]byte, error) {
		var v T
		exists := current != nil
		if exists {
			if err := json.Unmarshal(current, &v); err != nil {
				return nil, fmt.Errorf("decode %s: %w", id, err)
			}
		}
		if err := fn(&v, exists); err != nil {
			return nil, err
		}
		out = v
		return json.Marshal(v)
	})
	return out, err
}
