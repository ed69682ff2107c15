package main

import (
	"context"
	"errors"
	"fmt"

	"coursedash/internal/courses"

	"github.com/spf13/cobra"
)

var errInvalidRecords = errors.New("dataset has invalid records")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the configured dataset and report invalid records",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Dataset.LoadTimeout)
		defer cancel()

		src, err := openSource(cfg)
		if err != nil {
			return err
		}

		doc, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", src.Name(), err)
		}

		out := cmd.OutOrStdout()
		issues := courses.Validate(doc.Courses)
		for _, is := range issues {
			fmt.Fprintf(out, "#%d %q: %s %s\n", is.Index, is.Name, is.Field, is.Problem)
		}
		fmt.Fprintf(out, "%s: %d courses, %d issues\n", src.Name(), len(doc.Courses), len(issues))

		if len(issues) > 0 {
			return errInvalidRecords
		}
		return nil
	},
}
