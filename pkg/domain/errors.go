package domain

import "errors"

// ErrTemplateNotFound is returned when a template ID cannot be found in the store.
var ErrTemplateNotFound = errors.New("template not found")

// ErrFileNotFound is returned when a template asset path cannot be found in the store.
var ErrFileNotFound = errors.New("template file not found")
