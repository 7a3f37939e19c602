// Package memory provides an in-memory TemplateStore, used by tests and
// embedded setups that don't need persistence.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/vellum/pkg/domain"
)

// Store implements ports.TemplateStore with plain maps.
// Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	templates map[domain.TemplateID]domain.Template
	files     map[domain.TemplateID]map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		templates: make(map[domain.TemplateID]domain.Template),
		files:     make(map[domain.TemplateID]map[string][]byte),
	}
}

// SaveTemplate persists the template (create-or-replace).
func (s *Store) SaveTemplate(ctx context.Context, tmpl domain.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tmpl.ID] = tmpl
	return nil
}

// GetTemplate retrieves a template by ID.
func (s *Store) GetTemplate(ctx context.Context, id domain.TemplateID) (domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tmpl, ok := s.templates[id]
	if !ok {
		return domain.Template{}, domain.ErrTemplateNotFound
	}
	return tmpl, nil
}

// DeleteTemplate removes a template and its files.
func (s *Store) DeleteTemplate(ctx context.Context, id domain.TemplateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return domain.ErrTemplateNotFound
	}
	delete(s.templates, id)
	delete(s.files, id)
	return nil
}

// ListTemplates returns all templates sorted by ID for stable output.
func (s *Store) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	templates := make([]domain.Template, 0, len(s.templates))
	for _, tmpl := range s.templates {
		templates = append(templates, tmpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

// ListTemplateFiles returns the template's auxiliary file paths.
func (s *Store) ListTemplateFiles(ctx context.Context, id domain.TemplateID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files[id]))
	for path := range s.files[id] {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// GetTemplateFile retrieves one auxiliary file.
func (s *Store) GetTemplateFile(ctx context.Context, id domain.TemplateID, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[id][path]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// SaveTemplateFile persists one auxiliary file (create-or-replace).
func (s *Store) SaveTemplateFile(ctx context.Context, id domain.TemplateID, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files[id] == nil {
		s.files[id] = make(map[string][]byte)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	s.files[id][path] = stored
	return nil
}

// DeleteTemplateFile removes one auxiliary file.
func (s *Store) DeleteTemplateFile(ctx context.Context, id domain.TemplateID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id][path]; !ok {
		return domain.ErrFileNotFound
	}
	delete(s.files[id], path)
	return nil
}
