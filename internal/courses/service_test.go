package courses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyService(t *testing.T, doc *Document) *Service {
	t.Helper()
	src := &gatedSource{release: make(chan struct{}), doc: doc}
	close(src.release)

	l := NewLoader(src, 0, discardLogger())
	l.Start(context.Background())
	require.NoError(t, l.Wait(context.Background()))
	return NewService(l, Defaults{Title: "Cursos", Author: "Equipo"})
}

func pendingService(t *testing.T) *Service {
	t.Helper()
	src := &gatedSource{release: make(chan struct{})}
	l := NewLoader(src, 0, discardLogger())
	l.Start(context.Background())
	t.Cleanup(func() {
		close(src.release)
		_ = l.Wait(context.Background())
	})
	return NewService(l, Defaults{})
}

func TestServiceDashboard(t *testing.T) {
	svc := readyService(t, &Document{
		Title:       "Mi trayectoria",
		Description: "Todo lo **aprendido** <script>alert(1)</script>",
		Courses:     sample,
	})

	d, err := svc.Dashboard(ByMonthYear)
	require.NoError(t, err)
	assert.Equal(t, "Mi trayectoria", d.Title)
	assert.Equal(t, "Equipo", d.Author, "default fills missing author")
	assert.Equal(t, ByMonthYear, d.Granularity)
	assert.Equal(t, 3, d.Metrics.TotalCourses)
	assert.Len(t, d.DateBuckets, 3)
	assert.Len(t, d.CategoryBuckets, 2)
	assert.Equal(t, []string{"X", "Y"}, d.Categories)

	assert.Contains(t, d.DescriptionHTML, "<strong>aprendido</strong>")
	assert.NotContains(t, d.DescriptionHTML, "<script>")
}

func TestServiceDashboardDefaultTitle(t *testing.T) {
	svc := readyService(t, &Document{Courses: sample})
	d, err := svc.Dashboard(ByYear)
	require.NoError(t, err)
	assert.Equal(t, "Cursos", d.Title)
	assert.Empty(t, d.DescriptionHTML)
}

func TestServicePaletteIsShared(t *testing.T) {
	svc := readyService(t, &Document{Courses: sample})
	p1, err := svc.Palette()
	require.NoError(t, err)
	p2, err := svc.Palette()
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	buckets, err := svc.CategoryBuckets()
	require.NoError(t, err)
	for _, b := range buckets {
		assert.Equal(t, p1.Color(b.Category), b.Color)
	}
}

func TestServiceList(t *testing.T) {
	svc := readyService(t, &Document{Courses: sample})

	v := DefaultViewState()
	page, err := svc.List(v, ListOptions{PageSize: 2, Sortable: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B"}, names(page.Items))
	assert.Equal(t, 2, page.TotalPages)
}

func TestServiceNotReady(t *testing.T) {
	svc := pendingService(t)

	state, err := svc.State()
	assert.Equal(t, StatePending, state)
	assert.NoError(t, err)

	_, err = svc.Metrics()
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = svc.Dashboard(ByYear)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = svc.List(DefaultViewState(), TableOptions)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = svc.Palette()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestRenderMarkdown(t *testing.T) {
	svc := readyService(t, &Document{})
	out := svc.RenderMarkdown("# Hola\n\n[enlace](javascript:alert(1))")
	assert.Contains(t, out, "<h1>Hola</h1>")
	assert.NotContains(t, out, "javascript:")
}
