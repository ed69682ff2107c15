package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursedash/internal/config"
	"coursedash/internal/courses"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSource(t *testing.T) {
	tests := []struct {
		dataset config.DatasetConfig
		want    string
	}{
		{config.DatasetConfig{Source: config.SourceEmbedded}, "embedded"},
		{config.DatasetConfig{Source: config.SourceFile, Path: "/tmp/c.yaml"}, "file:/tmp/c.yaml"},
		{config.DatasetConfig{Source: config.SourceSQLite, Path: "/tmp/c.db"}, "sqlite:/tmp/c.db"},
	}
	for _, tt := range tests {
		t.Run(tt.dataset.Source, func(t *testing.T) {
			src, err := openSource(config.Config{Dataset: tt.dataset})
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Name())
		})
	}

	_, err := openSource(config.Config{Dataset: config.DatasetConfig{Source: "ftp"}})
	assert.ErrorIs(t, err, courses.ErrUnknownSource)
}

func TestMongoSourceUnreachable(t *testing.T) {
	prev := log
	log = slog.New(slog.NewTextHandler(io.Discard, nil))
	t.Cleanup(func() { log = prev })

	c := config.Config{
		Dataset: config.DatasetConfig{Source: config.SourceMongo},
		Mongo:   config.MongoConfig{URI: "mongodb://127.0.0.1:1", Database: "coursedash", Collection: "courses"},
	}

	// Opening never dials, so startup carries on.
	src, err := openSource(c)
	require.NoError(t, err)
	assert.Equal(t, "mongo:courses", src.Name())

	loader := courses.NewLoader(src, 300*time.Millisecond, log)
	loader.Start(context.Background())

	assert.ErrorIs(t, loader.Wait(context.Background()), courses.ErrLoadFailed)
	state, _ := loader.State()
	assert.Equal(t, courses.StateFailed, state)

	web := courses.WebRoutes(courses.NewHandler(courses.NewService(loader, courses.Defaults{Title: "Cursos"}), log))
	rec := httptest.NewRecorder()
	web.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "mongo:courses")
}

func TestEmbeddedDatasetIsValid(t *testing.T) {
	doc, err := embeddedSource().Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Title)
	assert.NotEmpty(t, doc.Courses)
	assert.Empty(t, courses.Validate(doc.Courses))

	p := courses.NewPalette(doc.Courses)
	for _, c := range doc.Courses {
		assert.Equal(t, courses.BrandColors[c.Category], p.Color(c.Category), c.Category)
	}
}
