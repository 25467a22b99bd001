package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmegroup/adlib/internal/contentfile"
	"github.com/jmegroup/adlib/internal/observability"
	"github.com/jmegroup/adlib/internal/schemas"
	"github.com/jmegroup/adlib/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a content document",
	Long:  "Checks a content document (JSON or YAML) against the content JSON Schema and the field rules the renderer enforces.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

var validateSchemaFile string

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaFile, "schema", "s", "", "JSON Schema to validate against instead of the built-in one (JSON documents only)")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	path := cfg.Content
	if len(args) == 1 {
		path = args[0]
	}

	if err := validateDocument(path, override(validateSchemaFile, cfg.Schema)); err != nil {
		var schemaErr *schemas.ValidationError
		var violation *types.SchemaViolation
		if errors.As(err, &violation) && cfg.Verbose {
			observability.NewPrinter(os.Stderr).PrintViolations(violation)
		}
		if errors.As(err, &schemaErr) || errors.As(err, &violation) {
			return fmt.Errorf("validation failed: %w", err)
		}
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s is valid\n", path)
	return nil
}

// validateDocument runs both the schema check and the struct rules.
func validateDocument(path, schemaPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	format := contentfile.FormatFor(path)

	if schemaPath != "" && format == contentfile.FormatJSON {
		err = schemas.ValidateFile(schemaPath, path)
	} else {
		err = contentfile.ValidateSchema(data, format)
	}
	if err != nil {
		return err
	}

	doc, err := contentfile.Decode(data, format)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return doc.Validate()
}
