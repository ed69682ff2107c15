package main

import (
	"context"
	"errors"
	"fmt"

	"coursedash/internal/config"
	"coursedash/internal/courses"

	"github.com/spf13/cobra"
)

var seedFrom string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy a dataset file, or the embedded dataset, into MongoDB",
	Long: `seed replaces the configured MongoDB collection with the courses of a
JSON or YAML document. Without --from the embedded dataset is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Mongo.URI == "" {
			return errors.New("mongo.uri is required to seed")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Dataset.LoadTimeout)
		defer cancel()

		var src courses.Source = embeddedSource()
		switch {
		case seedFrom != "":
			src = courses.FileSource{Path: seedFrom}
		case cfg.Dataset.Source == config.SourceFile:
			src = courses.FileSource{Path: cfg.Dataset.Path}
		}

		doc, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", src.Name(), err)
		}
		for _, is := range courses.Validate(doc.Courses) {
			log.Warn("seeding invalid record", "index", is.Index, "field", is.Field, "problem", is.Problem)
		}

		repo, disconnect, err := openRepo(ctx, cfg.Mongo, log)
		if err != nil {
			return err
		}
		defer disconnect(context.Background())

		n, err := repo.Seed(ctx, doc.Courses)
		if err != nil {
			return err
		}
		total, err := repo.Count(ctx, "")
		if err != nil {
			return err
		}
		log.Info("seeded courses", "source", src.Name(), "target", repo.Name(), "inserted", n, "stored", total)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFrom, "from", "", "Dataset file to seed from (json or yaml)")
}
