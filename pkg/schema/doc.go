// Package schema declares the shape of data a template accepts and
// validates candidate input values against that shape before any
// compilation is attempted.
//
// A Schema is an ordered list of field declarations. Validation is a
// pure function over (schema, data): unknown keys are tolerated for
// forward compatibility, and all violations are collected into a single
// AggregateError rather than stopping at the first.
package schema
