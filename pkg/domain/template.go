package domain

import (
	"time"

	"github.com/aretw0/vellum/pkg/schema"
)

// TemplateID identifies a template within the storage domain.
// It is set once at creation and never changes.
type TemplateID string

func (id TemplateID) String() string { return string(id) }

// Template pairs markup source with the schema of the data it accepts.
// Instances are immutable between updates; Apply returns a new value
// rather than mutating in place.
type Template struct {
	ID          TemplateID    `json:"id"`
	Name        string        `json:"name"`
	Source      string        `json:"source"`
	Schema      schema.Schema `json:"schema"`
	Description string        `json:"description,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewTemplate creates a template with both timestamps set to now and no
// description.
func NewTemplate(id TemplateID, name, source string, s schema.Schema) Template {
	now := time.Now().UTC()
	return Template{
		ID:        id,
		Name:      name,
		Source:    source,
		Schema:    s,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithDescription returns a copy with the description set. Intended for
// use at construction time; timestamps are left untouched.
func (t Template) WithDescription(text string) Template {
	t.Description = text
	return t
}

// TemplateUpdate carries a partial update; nil fields are left unchanged.
type TemplateUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Source      *string        `json:"source,omitempty"`
	Schema      *schema.Schema `json:"schema,omitempty"`
	Description *string        `json:"description,omitempty"`
}

// Apply returns a copy with the present fields applied and UpdatedAt
// refreshed. An update carrying no fields is legal and only refreshes
// the timestamp.
func (t Template) Apply(u TemplateUpdate) Template {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Source != nil {
		t.Source = *u.Source
	}
	if u.Schema != nil {
		t.Schema = *u.Schema
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	t.UpdatedAt = time.Now().UTC()
	return t
}

// ValidateData checks input data against the template's schema.
func (t Template) ValidateData(data map[string]any) error {
	return t.Schema.Validate(data)
}
