package components

import (
	"bytes"
	"context"
	"testing"
	"time"

	"coursedash/views/models"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDateFormats(t *testing.T) {
	d := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "15 de enero de 2020", DateLong(d, true))
	assert.Equal(t, "15 ene 2020", DateShort(d, true))

	d = time.Date(2023, time.September, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 de septiembre de 2023", DateLong(d, true))
	assert.Equal(t, "3 sept 2023", DateShort(d, true))

	assert.Equal(t, InvalidDate, DateLong(time.Time{}, false))
	assert.Equal(t, InvalidDate, DateShort(time.Time{}, false))
}

func TestHeaderEscapes(t *testing.T) {
	out := renderString(t, Header(models.HeaderView{Title: "<b>Cursos</b>", Description: "<p>ok</p>"}))
	assert.Contains(t, out, "&lt;b&gt;Cursos&lt;/b&gt;")
	assert.Contains(t, out, "<p>ok</p>")
	assert.NotContains(t, out, "class=\"author\"")
}

func TestMetricsPanel(t *testing.T) {
	out := renderString(t, MetricsPanel(models.MetricsView{TotalCourses: 44, TotalCategories: 12, ActiveYears: 7, Period: "2018-2024", MostRecent: "Go"}))
	assert.Contains(t, out, ">44<")
	assert.Contains(t, out, "2018-2024")
	assert.Contains(t, out, "Último: Go")

	out = renderString(t, MetricsPanel(models.MetricsView{}))
	assert.Contains(t, out, "Rango temporal")
}

func TestDateChartRender(t *testing.T) {
	out := renderString(t, DateChart(models.DateChartView{
		Granularity: "month-year",
		Endpoint:    "/fragments/charts/date",
		Buckets:     []models.BucketView{{Label: "2020-01", Count: 3}},
	}))
	assert.Contains(t, out, `<option value="month-year" selected>`)
	assert.Contains(t, out, `hx-get="/fragments/charts/date"`)
	assert.Contains(t, out, "<title>2020-01: 3</title>")

	out = renderString(t, DateChart(models.DateChartView{Granularity: "year"}))
	assert.Contains(t, out, "Sin datos")
}

func TestCategoryChartRender(t *testing.T) {
	out := renderString(t, CategoryChart(models.CategoryChartView{Total: 2, Categories: []models.CategoryView{
		{Name: "Finanzas", Count: 2, Color: "#06b6d4", Percent: 100},
	}}))
	assert.Contains(t, out, "<circle")
	assert.Contains(t, out, `fill="#06b6d4"`)
	assert.Contains(t, out, "Finanzas (2)")
}

func TestCourseListsRender(t *testing.T) {
	lv := models.ListView{
		ID:         "course-table",
		Endpoint:   "/fragments/table",
		Courses:    []models.CourseView{{Name: "Go", Category: "X", Color: "#111111", BadgeBG: "#11111120", BadgeBorder: "#11111140", DateLong: "1 de marzo de 2021", DateShort: "1 mar 2021"}},
		Category:   "X",
		Categories: []string{"X", "Y"},
		SortField:  "date",
		SortOrder:  "desc",
		SortLinks:  []models.SortLink{{Label: "Nombre del Curso", URL: "/fragments/table?order=asc&sort=name"}},
		Page:       1, TotalPages: 2, Start: 1, End: 1, Total: 2,
		HasNext: true, NextURL: "/fragments/table?page=2",
	}

	out := renderString(t, CourseTable(lv))
	assert.Contains(t, out, "Mostrando 1 - 1 de 2 cursos")
	assert.Contains(t, out, "Página 1 de 2")
	assert.Contains(t, out, `<option value="X" selected>X</option>`)
	assert.Contains(t, out, `name="sort" value="date"`)
	assert.Contains(t, out, `hx-get="/fragments/table?page=2"`)
	assert.Contains(t, out, `<button type="button" disabled>‹ Anterior</button>`)
	assert.Contains(t, out, "1 de marzo de 2021")

	lv.ID = "course-cards"
	out = renderString(t, CourseCards(lv))
	assert.Contains(t, out, `id="course-cards"`)
	assert.Contains(t, out, "1 mar 2021")
}

func TestListSlots(t *testing.T) {
	out := renderString(t, ListSlots("/fragments/table?order=desc&sort=date", "/fragments/cards"))
	assert.Contains(t, out, `class="desktop-only" id="course-table"`)
	assert.Contains(t, out, `class="mobile-only" id="course-cards"`)
	assert.Contains(t, out, `hx-get="/fragments/table?order=desc&amp;sort=date"`)
}

func TestCourseTableSortLinks(t *testing.T) {
	out := renderString(t, CourseTable(models.ListView{
		ID: "course-table",
		SortLinks: []models.SortLink{
			{Label: "Nombre del Curso", URL: "/fragments/table?order=asc&sort=name"},
			{Label: "Fecha", URL: "/fragments/table?order=asc&sort=date", Active: true, Order: "desc"},
		},
	}))
	assert.Contains(t, out, `class="active desc">Fecha ⇅</a>`)
	assert.Contains(t, out, `hx-get="/fragments/table?order=asc&amp;sort=name"`)
	assert.Contains(t, out, `<td colspan="3" class="empty">No se encontraron cursos</td>`)
}

func TestBadgeAndSwatchColors(t *testing.T) {
	out := renderString(t, CourseCards(models.ListView{
		ID:      "course-cards",
		Courses: []models.CourseView{{Name: "Go", Category: "X", Color: "#111111", BadgeBG: "#11111133", BadgeBorder: "#11111166"}},
	}))
	assert.Contains(t, out, "background-color: #11111133; color: #111111; border-color: #11111166")

	out = renderString(t, CategoryChart(models.CategoryChartView{Total: 1, Categories: []models.CategoryView{
		{Name: "X", Count: 1, Color: "#222222", Percent: 100},
	}}))
	assert.Contains(t, out, `style="background-color: #222222"`)
}

func TestRenderStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Header(models.HeaderView{Title: "Cursos"}).Render(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
