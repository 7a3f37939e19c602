package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/vellum/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schema-file> <data-file>",
	Short: "Check data against a template schema",
	Long:  `Validates a JSON data file against a schema definition and reports every violation, not just the first.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0], args[1]); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Data is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(schemaPath, dataPath string) error {
	rawSchema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	var sch schema.Schema
	if err := json.Unmarshal(rawSchema, &sch); err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := sch.Check(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	rawData, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(rawData, &data); err != nil {
		return fmt.Errorf("failed to parse data: %w", err)
	}

	if err := sch.Validate(data); err != nil {
		for _, v := range schema.ValidationErrors(err) {
			fmt.Println(" -", v)
		}
		return err
	}
	return nil
}
