package courses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedService(t *testing.T) *Service {
	t.Helper()
	src := &gatedSource{release: make(chan struct{}), err: errors.New("disk on fire")}
	close(src.release)
	l := NewLoader(src, 0, discardLogger())
	l.Start(context.Background())
	require.Error(t, l.Wait(context.Background()))
	return NewService(l, Defaults{})
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestAPIReady(t *testing.T) {
	api := APIRoutes(NewHandler(readyService(t, &Document{Courses: sample}), discardLogger()))

	rec := serve(t, api, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusResult{State: "ready"}, decode[StatusResult](t, rec))

	rec = serve(t, api, "/metrics")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 3, decode[Metrics](t, rec).TotalCourses)

	rec = serve(t, api, "/buckets/date?granularity=month-year")
	assert.Len(t, decode[[]DateBucket](t, rec), 3)

	rec = serve(t, api, "/buckets/category")
	cats := decode[[]CategoryBucket](t, rec)
	require.Len(t, cats, 2)
	assert.Equal(t, "X", cats[0].Category)

	rec = serve(t, api, "/categories")
	assert.Equal(t, []string{"X", "Y"}, decode[[]string](t, rec))
}

func TestAPIListCourses(t *testing.T) {
	api := APIRoutes(NewHandler(readyService(t, &Document{Courses: sample}), discardLogger()))

	rec := serve(t, api, "/courses?page_size=2&page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PageResult](t, rec)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A", page.Items[0].Name, "default sort is newest first")
	assert.Equal(t, spareColors[0], page.Items[0].Color)

	rec = serve(t, api, "/courses?q=a&sort=name&order=asc")
	page = decode[PageResult](t, rec)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A", page.Items[0].Name)

	rec = serve(t, api, "/courses?category=Y")
	page = decode[PageResult](t, rec)
	assert.Equal(t, 1, page.TotalItems)

	rec = serve(t, api, "/courses?page_size=500")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "page_size")
}

func TestAPINotReady(t *testing.T) {
	api := APIRoutes(NewHandler(pendingService(t), discardLogger()))

	rec := serve(t, api, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", decode[StatusResult](t, rec).State)

	for _, path := range []string{"/metrics", "/buckets/date", "/buckets/category", "/categories", "/courses"} {
		rec := serve(t, api, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestAPIFailed(t *testing.T) {
	api := APIRoutes(NewHandler(failedService(t), discardLogger()))

	rec := serve(t, api, "/status")
	st := decode[StatusResult](t, rec)
	assert.Equal(t, "failed", st.State)
	assert.Contains(t, st.Error, "disk on fire")

	rec = serve(t, api, "/metrics")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "dataset load failed")
}

func TestHomePageStates(t *testing.T) {
	web := WebRoutes(NewHandler(pendingService(t), discardLogger()))
	rec := serve(t, web, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh"`)
	assert.Contains(t, rec.Body.String(), "Cargando el listado de cursos.")

	web = WebRoutes(NewHandler(failedService(t), discardLogger()))
	rec = serve(t, web, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "No se pudieron cargar los cursos")
	assert.Contains(t, rec.Body.String(), "disk on fire")
	assert.NotContains(t, rec.Body.String(), `http-equiv="refresh"`)
}

func TestHomePageReady(t *testing.T) {
	svc := readyService(t, &Document{Title: "Mi trayectoria", Author: "Ana", Courses: sample})
	rec := serve(t, WebRoutes(NewHandler(svc, discardLogger())), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, want := range []string{
		"<h1>Mi trayectoria</h1>",
		"por Ana",
		"Total de Cursos",
		"2020-2021",
		"Último: C",
		`id="date-chart"`,
		`id="course-table"`,
		`id="course-cards"`,
		`hx-trigger="load"`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestDateChartFragment(t *testing.T) {
	web := WebRoutes(NewHandler(readyService(t, &Document{Courses: sample}), discardLogger()))

	rec := serve(t, web, "/fragments/charts/date?granularity=month-year")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2020-06")
	assert.Contains(t, body, "2021-03")
	assert.NotContains(t, body, "<html")
}

func TestTableFragment(t *testing.T) {
	web := WebRoutes(NewHandler(readyService(t, &Document{Courses: sample}), discardLogger()))

	rec := serve(t, web, "/fragments/table")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="course-table"`)
	assert.Contains(t, body, "Mostrando 1 - 3 de 3 cursos")
	assert.Contains(t, body, "Página 1 de 1")
	assert.Contains(t, body, "15 de enero de 2020")
	// newest first
	assert.Less(t, strings.Index(body, ">C<"), strings.Index(body, ">A<"))

	rec = serve(t, web, "/fragments/table?q=zzz&page=3")
	body = rec.Body.String()
	assert.Contains(t, body, "Mostrando 0 - 0 de 0 cursos")
	assert.Contains(t, body, "No se encontraron cursos")
	assert.Contains(t, body, "<button type=\"button\" disabled>Siguiente ›</button>")
}

func TestCardsFragment(t *testing.T) {
	web := WebRoutes(NewHandler(readyService(t, &Document{Courses: sample}), discardLogger()))

	rec := serve(t, web, "/fragments/cards?sort=name&order=desc")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="course-cards"`)
	assert.Contains(t, body, "15 ene 2020")
	// cards ignore sort parameters and keep dataset order
	assert.Less(t, strings.Index(body, ">A<"), strings.Index(body, ">C<"))
	assert.NotContains(t, body, `name="sort"`)
}

func TestFragmentsNotReady(t *testing.T) {
	web := WebRoutes(NewHandler(pendingService(t), discardLogger()))
	for _, path := range []string{"/fragments/table", "/fragments/cards", "/fragments/charts/date"} {
		assert.Equal(t, http.StatusServiceUnavailable, serve(t, web, path).Code, path)
	}
}

func TestListURL(t *testing.T) {
	v := DefaultViewState()
	assert.Equal(t, "/fragments/table?order=desc&sort=date", listURL(tablePath, v, true))
	assert.Equal(t, "/fragments/cards", listURL(cardsPath, v, false))

	v = v.WithSearch("go básico").WithCategory("Desarrollo Web")
	v.Page = 2
	assert.Equal(t,
		"/fragments/cards?category=Desarrollo+Web&page=2&q=go+b%C3%A1sico",
		listURL(cardsPath, v, false))
}

func TestListToViewSortLinks(t *testing.T) {
	svc := readyService(t, &Document{Courses: sample})
	p, err := svc.Palette()
	require.NoError(t, err)

	v := DefaultViewState()
	page := Query(sample, v, TableOptions)
	lv := listToView(tableID, tablePath, page, v, []string{"X", "Y"}, p, true)

	require.Len(t, lv.SortLinks, 3)
	byLabel := map[string]string{}
	for _, l := range lv.SortLinks {
		byLabel[l.Label] = l.URL
		assert.Equal(t, l.Label == "Fecha de Finalización", l.Active)
	}
	assert.Equal(t, "/fragments/table?order=asc&sort=name", byLabel["Nombre del Curso"])
	assert.Equal(t, "/fragments/table?order=asc&sort=date", byLabel["Fecha de Finalización"])
	assert.False(t, lv.HasPrev)
	assert.False(t, lv.HasNext)
}

func TestCoursesToViewsBadgeTints(t *testing.T) {
	p := NewPalette([]Course{{Category: "Finanzas"}})
	views := coursesToViews([]Course{{Name: "A", Date: "2020-01-15", Category: "Finanzas"}}, p)
	require.Len(t, views, 1)
	assert.Equal(t, "#06b6d4", views[0].Color)
	assert.Equal(t, "#06b6d433", views[0].BadgeBG, "20% fill")
	assert.Equal(t, "#06b6d466", views[0].BadgeBorder, "40% border")
	assert.Equal(t, "15 de enero de 2020", views[0].DateLong)
}
