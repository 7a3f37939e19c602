// Package ports defines the interfaces the rendering core consumes:
// template persistence and the typesetting engine. Adapters live under
// internal/adapters; the contract suite in this package verifies that
// every store adapter honors the same semantics.
package ports
