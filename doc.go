/*
Package vellum renders structured input data into PDF documents by
combining reusable templates (markup source plus a declared data schema)
with caller-supplied JSON data.

It separates the rendering core from its collaborators following a
Hexagonal Architecture: templates and schemas are plain values
(pkg/domain, pkg/schema), persistence and the typesetting engine are
consumed through ports (pkg/ports), and adapters for the filesystem,
Redis and HTTP live under internal/adapters.

# Concept

A Template pairs markup source with the schema of the data it accepts.
Each render validates the data against that schema, binds it into a
compilation world alongside the source, and drives the typesetting
engine: the result is either a PDF artifact or a list of diagnostics
positioned as byte ranges in the template source. Worlds are reused
across renders of the same template to amortize setup cost.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/vellum"
		"github.com/aretw0/vellum/pkg/domain"
		"github.com/aretw0/vellum/pkg/schema"
	)

	func main() {
		svc := vellum.New()
		ctx := context.Background()

		s, err := schema.New(
			schema.Field{Name: "name", Type: schema.TypeText, Required: true},
		)
		if err != nil {
			log.Fatal(err)
		}

		_, err = svc.CreateTemplate(ctx, "greeting", "Greeting",
			"# Hello\n\nDear {{name}}, welcome.", s, "")
		if err != nil {
			log.Fatal(err)
		}

		result, err := svc.Render(ctx, "greeting", map[string]any{"name": "Ada"}, nil)
		if err != nil {
			log.Fatal(err)
		}

		if !result.OK() {
			for _, d := range result.Diagnostics {
				log.Printf("[%d:%d] %s", d.Start, d.End, d.Message)
			}
			return
		}
		_ = os.WriteFile("greeting.pdf", result.PDF, 0644)
	}

Compile diagnostics arrive as data in the result, never as errors:
a template with problems is an expected outcome, not a pipeline failure.
Schema validation failures, world setup failures and artifact encoding
failures are returned as errors so callers can tell "your document has
errors" apart from "the render pipeline broke".
*/
package vellum
