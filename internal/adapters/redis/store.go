// Package redis provides a Redis-backed TemplateStore for deployments
// where several render nodes share one template catalog.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/vellum/pkg/domain"
)

// Store implements ports.TemplateStore using Redis. Templates are JSON
// values under a prefixed key, tracked in a SET index; auxiliary files
// live in one hash per template keyed by relative path.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithPrefix sets the key prefix for templates.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL sets an expiry on template keys, for deployments that treat
// the catalog as a cache over another system of record. Zero (the
// default) keeps templates forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "vellum:template:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id domain.TemplateID) string {
	return s.prefix + string(id)
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func (s *Store) filesKey(id domain.TemplateID) string {
	return s.prefix + "files:" + string(id)
}

// SaveTemplate persists the template and adds it to the index.
func (s *Store) SaveTemplate(ctx context.Context, tmpl domain.Template) error {
	data, err := json.Marshal(tmpl)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(tmpl.ID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), string(tmpl.ID))
	if s.ttl > 0 {
		pipe.Expire(ctx, s.filesKey(tmpl.ID), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by ID.
func (s *Store) GetTemplate(ctx context.Context, id domain.TemplateID) (domain.Template, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return domain.Template{}, domain.ErrTemplateNotFound
		}
		return domain.Template{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var tmpl domain.Template
	if err := json.Unmarshal([]byte(val), &tmpl); err != nil {
		return domain.Template{}, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	return tmpl, nil
}

// DeleteTemplate removes the template, its files hash and its index entry.
func (s *Store) DeleteTemplate(ctx context.Context, id domain.TemplateID) error {
	deleted, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	if deleted == 0 {
		return domain.ErrTemplateNotFound
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.filesKey(id))
	pipe.SRem(ctx, s.indexKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clean up template keys: %w", err)
	}
	return nil
}

// ListTemplates loads every template tracked in the index.
func (s *Store) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	templates := make([]domain.Template, 0, len(ids))
	for _, id := range ids {
		tmpl, err := s.GetTemplate(ctx, domain.TemplateID(id))
		if err == domain.ErrTemplateNotFound {
			// Index entry outlived the key; skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// ListTemplateFiles returns the paths stored in the template's file hash.
func (s *Store) ListTemplateFiles(ctx context.Context, id domain.TemplateID) ([]string, error) {
	paths, err := s.client.HKeys(ctx, s.filesKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list template files: %w", err)
	}
	return paths, nil
}

// GetTemplateFile retrieves one auxiliary file.
func (s *Store) GetTemplateFile(ctx context.Context, id domain.TemplateID, path string) ([]byte, error) {
	val, err := s.client.HGet(ctx, s.filesKey(id), path).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get template file: %w", err)
	}
	return []byte(val), nil
}

// SaveTemplateFile persists one auxiliary file (create-or-replace).
func (s *Store) SaveTemplateFile(ctx context.Context, id domain.TemplateID, path string, data []byte) error {
	if err := s.client.HSet(ctx, s.filesKey(id), path, data).Err(); err != nil {
		return fmt.Errorf("failed to save template file: %w", err)
	}
	return nil
}

// DeleteTemplateFile removes one auxiliary file.
func (s *Store) DeleteTemplateFile(ctx context.Context, id domain.TemplateID, path string) error {
	removed, err := s.client.HDel(ctx, s.filesKey(id), path).Result()
	if err != nil {
		return fmt.Errorf("failed to delete template file: %w", err)
	}
	if removed == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
