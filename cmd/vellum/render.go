package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/vellum"
	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/schema"
)

var renderCmd = &cobra.Command{
	Use:   "render <template-file>",
	Short: "Render a template to PDF",
	Long:  `Renders a markup template against JSON data and writes the resulting PDF. Compile diagnostics are printed with their byte positions.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dataPath, _ := cmd.Flags().GetString("data")
		schemaPath, _ := cmd.Flags().GetString("schema")
		outPath, _ := cmd.Flags().GetString("out")
		paperSize, _ := cmd.Flags().GetString("paper-size")
		noCompress, _ := cmd.Flags().GetBool("no-compress")

		if err := runRender(args[0], dataPath, schemaPath, outPath, paperSize, !noCompress); err != nil {
			fmt.Printf("Render failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("data", "d", "", "Path to a JSON file with the template data")
	renderCmd.Flags().StringP("schema", "s", "", "Path to a JSON schema file (optional)")
	renderCmd.Flags().StringP("out", "o", "out.pdf", "Output PDF path")
	renderCmd.Flags().String("paper-size", "a4", "Page format (a3, a4, a5, letter, legal)")
	renderCmd.Flags().Bool("no-compress", false, "Disable PDF stream compression")
}

func runRender(sourcePath, dataPath, schemaPath, outPath, paperSize string, compress bool) error {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	data := map[string]any{}
	if dataPath != "" {
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return fmt.Errorf("failed to read data: %w", err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to parse data: %w", err)
		}
	}

	var sch schema.Schema
	if schemaPath != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		if err := json.Unmarshal(raw, &sch); err != nil {
			return fmt.Errorf("failed to parse schema: %w", err)
		}
	}

	ctx := context.Background()
	svc := vellum.New()

	tmpl, err := svc.CreateTemplate(ctx, "cli", sourcePath, string(source), sch, "")
	if err != nil {
		return err
	}

	opts := domain.RenderOptions{PaperSize: paperSize, Compress: compress}
	result, err := svc.RenderTemplate(ctx, tmpl, data, &opts)
	if err != nil {
		return err
	}

	if !result.OK() {
		for _, d := range result.Diagnostics {
			fmt.Printf("%s:%d-%d: %s\n", sourcePath, d.Start, d.End, d.Message)
		}
		return fmt.Errorf("%d compile diagnostic(s)", len(result.Diagnostics))
	}

	if err := os.WriteFile(outPath, result.PDF, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", outPath, len(result.PDF))
	return nil
}
