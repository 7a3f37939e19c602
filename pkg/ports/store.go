package ports

import (
	"context"

	"github.com/aretw0/vellum/pkg/domain"
)

// TemplateStore defines the interface for persisting templates and their
// auxiliary files (fonts, images, includes). The rendering core only
// consumes this port; implementations live under internal/adapters.
type TemplateStore interface {
	// SaveTemplate persists a template with create-or-replace semantics
	// keyed by its ID.
	SaveTemplate(ctx context.Context, tmpl domain.Template) error

	// GetTemplate retrieves a template by ID.
	// Returns domain.ErrTemplateNotFound if it does not exist.
	GetTemplate(ctx context.Context, id domain.TemplateID) (domain.Template, error)

	// DeleteTemplate removes a template and its files.
	// Returns domain.ErrTemplateNotFound if it does not exist.
	DeleteTemplate(ctx context.Context, id domain.TemplateID) error

	// ListTemplates returns all stored templates.
	ListTemplates(ctx context.Context) ([]domain.Template, error)

	// ListTemplateFiles returns the relative paths of the template's
	// auxiliary files.
	ListTemplateFiles(ctx context.Context, id domain.TemplateID) ([]string, error)

	// GetTemplateFile retrieves one auxiliary file.
	// Returns domain.ErrFileNotFound if it does not exist.
	GetTemplateFile(ctx context.Context, id domain.TemplateID, path string) ([]byte, error)

	// SaveTemplateFile persists one auxiliary file (create-or-replace).
	SaveTemplateFile(ctx context.Context, id domain.TemplateID, path string, data []byte) error

	// DeleteTemplateFile removes one auxiliary file.
	// Returns domain.ErrFileNotFound if it does not exist.
	DeleteTemplateFile(ctx context.Context, id domain.TemplateID, path string) error
}
