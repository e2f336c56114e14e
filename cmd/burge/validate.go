// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package main

import (
	"fmt"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/burge/burge/internal/behavior"
	"github.com/burge/burge/internal/document"
	"github.com/burge/burge/internal/scene"
	"github.com/burge/burge/pkg/errutil"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene files...>",
		Short: "Validate scene documents without running them",
		Long: `Parses each scene document, checks it against the scene schema and
loads every element through the built-in templates. Nothing is stepped.
Exits with code 0 on success, non-zero on failure.

Useful in CI pipelines to catch broken levels early:
  burge validate levels/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
}

func runValidate(cmd *cobra.Command, paths []string) error {
	templates := scene.NewTemplates(slog.Default())
	behavior.Register(templates, slog.Default())

	var failed int
	for _, path := range paths {
		n, err := validateFile(templates, path)
		if err != nil {
			failed++
			code := errutil.Code(err)
			if code == "SCHEMA_INVALID" {
				cmd.PrintErrf("%s: %s: %s\n", path, code, document.FormatSchemaError(err))
			} else {
				cmd.PrintErrf("%s: %s: %v\n", path, code, err)
			}
			continue
		}
		cmd.Printf("%s: ok (%d elements)\n", path, n)
	}

	if failed > 0 {
		return fmt.Errorf("validation failed: %d of %d scene documents invalid", failed, len(paths))
	}
	return nil
}

func validateFile(templates *scene.Templates, path string) (int, error) {
	doc, err := document.LoadFile(path)
	if err != nil {
		return 0, err
	}
	for i, e := range doc.Documents() {
		if !templates.Has(e.Name()) {
			return 0, oops.Code("TEMPLATE_UNKNOWN").
				With("index", i).
				Errorf("element %d: unknown template %q", i, e.Name())
		}
	}
	if _, err := templates.CreateScene(doc.Documents()); err != nil {
		return 0, err
	}
	return len(doc.Elements), nil
}
