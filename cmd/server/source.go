package main

import (
	"context"
	"fmt"
	"log/slog"

	"coursedash/data"
	"coursedash/internal/config"
	"coursedash/internal/courses"
	"coursedash/internal/db"
)

func embeddedSource() courses.Source {
	return courses.BytesSource{Label: "embedded", Data: data.Courses, Format: "json"}
}

// openSource returns the configured dataset source. Nothing is dialed or
// read here; failures surface from Load, inside the loader.
func openSource(c config.Config) (courses.Source, error) {
	switch c.Dataset.Source {
	case config.SourceEmbedded:
		return embeddedSource(), nil
	case config.SourceFile:
		return courses.FileSource{Path: c.Dataset.Path}, nil
	case config.SourceSQLite:
		return courses.SQLiteSource{Path: c.Dataset.Path}, nil
	case config.SourceMongo:
		return mongoSource{cfg: c.Mongo, log: log}, nil
	}
	return nil, fmt.Errorf("%w: %q", courses.ErrUnknownSource, c.Dataset.Source)
}

// mongoSource connects for the duration of a single Load.
type mongoSource struct {
	cfg config.MongoConfig
	log *slog.Logger
}

func (s mongoSource) Name() string { return "mongo:" + s.cfg.Collection }

func (s mongoSource) Load(ctx context.Context) (*courses.Document, error) {
	repo, disconnect, err := openRepo(ctx, s.cfg, s.log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			s.log.Warn("failed to disconnect from MongoDB", "error", err)
		}
	}()
	return repo.Load(ctx)
}

func openRepo(ctx context.Context, c config.MongoConfig, log *slog.Logger) (*courses.Repo, func(context.Context) error, error) {
	log.Info("connecting to MongoDB", "database", c.Database)
	database, disconnect, err := db.Connect(ctx, c.URI, c.Database)
	if err != nil {
		return nil, nil, err
	}
	log.Info("connected to MongoDB")

	repo := courses.NewRepo(database, c.Collection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Warn("failed to ensure indexes", "error", err)
	}
	return repo, disconnect, nil
}
