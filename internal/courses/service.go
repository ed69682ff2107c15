package courses

import (
	"bytes"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Dashboard is everything the dashboard page shows above the course lists.
type Dashboard struct {
	Title           string
	Author          string
	DescriptionHTML string
	Granularity     Granularity
	Metrics         Metrics
	DateBuckets     []DateBucket
	CategoryBuckets []CategoryBucket
	Categories      []string
}

// Defaults fill in header text the dataset does not carry.
type Defaults struct {
	Title  string
	Author string
}

type Service struct {
	loader   *Loader
	defaults Defaults
	md       goldmark.Markdown
	policy   *bluemonday.Policy

	paletteOnce sync.Once
	palette     *Palette
}

func NewService(loader *Loader, defaults Defaults) *Service {
	return &Service{
		loader:   loader,
		defaults: defaults,
		md:       goldmark.New(),
		policy:   bluemonday.UGCPolicy(),
	}
}

// State reports the dataset lifecycle.
func (s *Service) State() (LoadState, error) {
	return s.loader.State()
}

// Courses returns the loaded dataset in source order.
func (s *Service) Courses() ([]Course, error) {
	doc, err := s.loader.Document()
	if err != nil {
		return nil, err
	}
	return doc.Courses, nil
}

// Palette returns the color assignment for the loaded dataset.
func (s *Service) Palette() (*Palette, error) {
	cs, err := s.Courses()
	if err != nil {
		return nil, err
	}
	s.paletteOnce.Do(func() {
		s.palette = NewPalette(cs)
	})
	return s.palette, nil
}

// Dashboard computes the header, metrics and chart data.
func (s *Service) Dashboard(g Granularity) (Dashboard, error) {
	doc, err := s.loader.Document()
	if err != nil {
		return Dashboard{}, err
	}
	p, err := s.Palette()
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Title:           doc.Title,
		Author:          doc.Author,
		Granularity:     g,
		Metrics:         ComputeMetrics(doc.Courses),
		DateBuckets:     DateBuckets(doc.Courses, g),
		CategoryBuckets: CategoryBuckets(doc.Courses, p),
		Categories:      Categories(doc.Courses),
	}
	if d.Title == "" {
		d.Title = s.defaults.Title
	}
	if d.Author == "" {
		d.Author = s.defaults.Author
	}
	if doc.Description != "" {
		d.DescriptionHTML = s.RenderMarkdown(doc.Description)
	}
	return d, nil
}

// Metrics summarizes the loaded dataset.
func (s *Service) Metrics() (Metrics, error) {
	cs, err := s.Courses()
	if err != nil {
		return Metrics{}, err
	}
	return ComputeMetrics(cs), nil
}

// DateBuckets counts courses per year or year-month.
func (s *Service) DateBuckets(g Granularity) ([]DateBucket, error) {
	cs, err := s.Courses()
	if err != nil {
		return nil, err
	}
	return DateBuckets(cs, g), nil
}

// CategoryBuckets counts courses per category.
func (s *Service) CategoryBuckets() ([]CategoryBucket, error) {
	cs, err := s.Courses()
	if err != nil {
		return nil, err
	}
	p, err := s.Palette()
	if err != nil {
		return nil, err
	}
	return CategoryBuckets(cs, p), nil
}

// Categories lists the distinct categories alphabetically.
func (s *Service) Categories() ([]string, error) {
	cs, err := s.Courses()
	if err != nil {
		return nil, err
	}
	return Categories(cs), nil
}

// List runs the shared list query for one presentation.
func (s *Service) List(v ViewState, opts ListOptions) (Page[Course], error) {
	cs, err := s.Courses()
	if err != nil {
		return Page[Course]{}, err
	}
	return Query(cs, v, opts), nil
}

// RenderMarkdown converts markdown to sanitized HTML
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return s.policy.Sanitize(content)
	}
	return s.policy.Sanitize(buf.String())
}
