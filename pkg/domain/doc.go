// Package domain holds the value types shared across the rendering
// core and its adapters: templates, render options, render results and
// the sentinel errors the storage port reports.
//
// Everything here is plain data. Behavior is limited to pure
// transformations over the values (constructors, partial updates,
// validation delegation); persistence and compilation live behind the
// ports in pkg/ports.
package domain
