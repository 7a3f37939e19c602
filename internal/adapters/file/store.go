// Package file provides a filesystem-backed TemplateStore. Templates are
// stored as JSON documents, auxiliary files as plain files under a
// per-template directory.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/vellum/pkg/domain"
)

// Store implements ports.TemplateStore using the local filesystem.
// Layout:
//
//	<base>/templates/<id>.json
//	<base>/files/<id>/<relative path>
type Store struct {
	BasePath string
}

// NewStore creates a new Store rooted at basePath.
// If basePath is empty, it defaults to "./data".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = "data"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) templatePath(id domain.TemplateID) string {
	return filepath.Join(s.BasePath, "templates", string(id)+".json")
}

func (s *Store) filesDir(id domain.TemplateID) string {
	return filepath.Join(s.BasePath, "files", string(id))
}

// validID rejects template IDs that would escape the storage layout.
func validID(id domain.TemplateID) error {
	str := string(id)
	if str == "" {
		return fmt.Errorf("template id cannot be empty")
	}
	if strings.ContainsAny(str, "/\\") || str == "." || str == ".." {
		return fmt.Errorf("invalid template id %q", str)
	}
	return nil
}

// validFilePath rejects asset paths that would escape the template's
// file directory.
func validFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid file path %q", path)
	}
	return nil
}

// SaveTemplate persists the template as a JSON file (create-or-replace).
func (s *Store) SaveTemplate(ctx context.Context, tmpl domain.Template) error {
	if err := validID(tmpl.ID); err != nil {
		return err
	}

	dir := filepath.Join(s.BasePath, "templates")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure template directory: %w", err)
	}

	data, err := json.MarshalIndent(tmpl, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}

	if err := os.WriteFile(s.templatePath(tmpl.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write template file: %w", err)
	}

	return nil
}

// GetTemplate reads a template from its JSON file.
func (s *Store) GetTemplate(ctx context.Context, id domain.TemplateID) (domain.Template, error) {
	if err := validID(id); err != nil {
		return domain.Template{}, err
	}

	data, err := os.ReadFile(s.templatePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Template{}, domain.ErrTemplateNotFound
		}
		return domain.Template{}, fmt.Errorf("failed to read template file: %w", err)
	}

	var tmpl domain.Template
	if err := json.Unmarshal(data, &tmpl); err != nil {
		return domain.Template{}, fmt.Errorf("failed to unmarshal template: %w", err)
	}

	return tmpl, nil
}

// DeleteTemplate removes the template document and its files directory.
func (s *Store) DeleteTemplate(ctx context.Context, id domain.TemplateID) error {
	if err := validID(id); err != nil {
		return err
	}

	err := os.Remove(s.templatePath(id))
	if os.IsNotExist(err) {
		return domain.ErrTemplateNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete template file: %w", err)
	}

	if err := os.RemoveAll(s.filesDir(id)); err != nil {
		return fmt.Errorf("failed to delete template assets: %w", err)
	}

	return nil
}

// ListTemplates reads every template document under the base path.
func (s *Store) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	dir := filepath.Join(s.BasePath, "templates")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Template{}, nil
		}
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	templates := make([]domain.Template, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := domain.TemplateID(strings.TrimSuffix(entry.Name(), ".json"))
		tmpl, err := s.GetTemplate(ctx, id)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}

	return templates, nil
}

// ListTemplateFiles walks the template's files directory.
func (s *Store) ListTemplateFiles(ctx context.Context, id domain.TemplateID) ([]string, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	root := s.filesDir(id)
	paths := []string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list template files: %w", err)
	}

	return paths, nil
}

// GetTemplateFile reads one auxiliary file.
func (s *Store) GetTemplateFile(ctx context.Context, id domain.TemplateID, path string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	if err := validFilePath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.filesDir(id), filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	return data, nil
}

// SaveTemplateFile writes one auxiliary file (create-or-replace).
func (s *Store) SaveTemplateFile(ctx context.Context, id domain.TemplateID, path string, data []byte) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := validFilePath(path); err != nil {
		return err
	}

	target := filepath.Join(s.filesDir(id), filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to ensure asset directory: %w", err)
	}

	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write asset: %w", err)
	}

	return nil
}

// DeleteTemplateFile removes one auxiliary file.
func (s *Store) DeleteTemplateFile(ctx context.Context, id domain.TemplateID, path string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := validFilePath(path); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.filesDir(id), filepath.FromSlash(path)))
	if os.IsNotExist(err) {
		return domain.ErrFileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return nil
}
