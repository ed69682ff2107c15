package courses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat = errors.New("unknown dataset format")
	ErrUnknownSource = errors.New("unknown dataset source")
)

// Source supplies the dataset. Load is called once at startup.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Document, error)
}

// Decode parses a dataset document. format is "json" or "yaml".
func Decode(data []byte, format string) (*Document, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json dataset: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &doc, nil
}

// BytesSource serves a dataset held in memory, such as the embedded one.
type BytesSource struct {
	Label  string
	Data   []byte
	Format string
}

func (s BytesSource) Name() string { return s.Label }

func (s BytesSource) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Decode(s.Data, s.Format)
}

// FileSource reads a JSON or YAML document from disk, picking the format
// from the file extension.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", s.Path, err)
	}
	format := strings.TrimPrefix(filepath.Ext(s.Path), ".")
	return Decode(data, format)
}
