package courses

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"coursedash/views/components"
	"coursedash/views/models"
	"coursedash/views/pages"
)

const (
	tableID       = "course-table"
	cardsID       = "course-cards"
	tablePath     = "/fragments/table"
	cardsPath     = "/fragments/cards"
	dateChartPath = "/fragments/charts/date"
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// --- REST API Handlers ---

// StatusResult reports the dataset lifecycle.
type StatusResult struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// CourseResult represents a course in API responses
type CourseResult struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Color    string `json:"color"`
}

// PageResult is one page of courses in API responses.
type PageResult struct {
	Items      []CourseResult `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalItems int            `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}

// Status handles GET /api/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.State()
	res := StatusResult{State: string(state)}
	if err != nil {
		res.Error = err.Error()
	}
	h.jsonResponse(w, res, http.StatusOK)
}

// Metrics handles GET /api/metrics
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Metrics()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, m, http.StatusOK)
}

// DateBucketsAPI handles GET /api/buckets/date
func (h *Handler) DateBucketsAPI(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.svc.DateBuckets(ParseGranularity(r.URL.Query().Get("granularity")))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, buckets, http.StatusOK)
}

// CategoryBucketsAPI handles GET /api/buckets/category
func (h *Handler) CategoryBucketsAPI(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.svc.CategoryBuckets()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, buckets, http.StatusOK)
}

// ListCategories handles GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, cats, http.StatusOK)
}

// ListCourses handles GET /api/courses
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := TableOptions
	opts.PageSize = h.parseInt(q.Get("page_size"), TableOptions.PageSize)
	if opts.PageSize < 1 || opts.PageSize > 200 {
		h.jsonError(w, "page_size must be between 1 and 200", http.StatusBadRequest)
		return
	}

	page, err := h.svc.List(h.parseViewState(q, true), opts)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	p, err := h.svc.Palette()
	if err != nil {
		h.serviceError(w, err)
		return
	}
	h.jsonResponse(w, pageToResult(page, p), http.StatusOK)
}

// --- Helper methods ---

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotReady), errors.Is(err, ErrLoadFailed):
		h.jsonError(w, err.Error(), http.StatusServiceUnavailable)
	default:
		h.log.Error("request failed", "error", err)
		h.jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) parseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseViewState reads one list's state from the query string. Forms never
// submit page, so any search, filter or sort change lands on page 1.
func (h *Handler) parseViewState(q url.Values, sortable bool) ViewState {
	v := DefaultViewState()
	v = v.WithSearch(q.Get("q"))
	v = v.WithCategory(q.Get("category"))
	if sortable {
		v.SortField = ParseSortField(q.Get("sort"), v.SortField)
		v.SortOrder = ParseSortOrder(q.Get("order"), v.SortOrder)
	}
	v.Page = h.parseInt(q.Get("page"), 1)
	return v
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		h.log.Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// listURL encodes v as a fragment URL.
func listURL(endpoint string, v ViewState, sortable bool) string {
	q := url.Values{}
	if v.Search != "" {
		q.Set("q", v.Search)
	}
	if !v.FilterAll() {
		q.Set("category", v.Category)
	}
	if sortable {
		q.Set("sort", string(v.SortField))
		q.Set("order", string(v.SortOrder))
	}
	if v.Page > 1 {
		q.Set("page", strconv.Itoa(v.Page))
	}
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}

// --- View model converters ---

func pageToResult(page Page[Course], p *Palette) PageResult {
	items := make([]CourseResult, len(page.Items))
	for i, c := range page.Items {
		items[i] = CourseResult{Name: c.Name, Date: c.Date, Category: c.Category, Color: p.Color(c.Category)}
	}
	return PageResult{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

func coursesToViews(cs []Course, p *Palette) []models.CourseView {
	views := make([]models.CourseView, len(cs))
	for i, c := range cs {
		t, ok := c.CompletedAt()
		color := p.Color(c.Category)
		views[i] = models.CourseView{
			Name:        c.Name,
			Category:    c.Category,
			Color:       color,
			BadgeBG:     color + badgeFillAlpha,
			BadgeBorder: color + badgeBorderAlpha,
			DateLong:    components.DateLong(t, ok),
			DateShort:   components.DateShort(t, ok),
		}
	}
	return views
}

// Hex alpha suffixes for badge tints: 0x33 is 20%, 0x66 is 40%.
const (
	badgeFillAlpha   = "33"
	badgeBorderAlpha = "66"
)

var sortColumns = []struct {
	field SortField
	label string
}{
	{SortByName, "Nombre del Curso"},
	{SortByCategory, "Categoría"},
	{SortByDate, "Fecha de Finalización"},
}

func listToView(id, endpoint string, page Page[Course], v ViewState, cats []string, p *Palette, sortable bool) models.ListView {
	v.Page = page.Number
	lv := models.ListView{
		ID:         id,
		Endpoint:   endpoint,
		Courses:    coursesToViews(page.Items, p),
		Search:     v.Search,
		Category:   v.Category,
		Categories: cats,
		Page:       page.Number,
		TotalPages: page.TotalPages,
		Start:      page.Start,
		End:        page.End,
		Total:      page.TotalItems,
		HasPrev:    page.HasPrev(),
		HasNext:    page.HasNext(),
	}

	prev, next := v, v
	prev.Page, next.Page = page.Prev(), page.Next()
	lv.PrevURL = listURL(endpoint, prev, sortable)
	lv.NextURL = listURL(endpoint, next, sortable)

	if sortable {
		lv.SortField = string(v.SortField)
		lv.SortOrder = string(v.SortOrder)
		for _, col := range sortColumns {
			lv.SortLinks = append(lv.SortLinks, models.SortLink{
				Label:  col.label,
				URL:    listURL(endpoint, v.ToggleSort(col.field), true),
				Active: v.SortField == col.field,
				Order:  string(v.SortOrder),
			})
		}
	}
	return lv
}

func dateChartView(g Granularity, buckets []DateBucket) models.DateChartView {
	views := make([]models.BucketView, len(buckets))
	for i, b := range buckets {
		views[i] = models.BucketView{Label: b.Label, Count: b.Count}
	}
	return models.DateChartView{Granularity: string(g), Endpoint: dateChartPath, Buckets: views}
}

func categoryChartView(total int, buckets []CategoryBucket) models.CategoryChartView {
	views := make([]models.CategoryView, len(buckets))
	for i, b := range buckets {
		views[i] = models.CategoryView{Name: b.Category, Count: b.Count, Color: b.Color, Percent: b.Share}
	}
	return models.CategoryChartView{Total: total, Categories: views}
}

func dashboardToView(d Dashboard) models.DashboardView {
	period := ""
	if d.Metrics.FirstYear != 0 {
		period = fmt.Sprintf("%d-%d", d.Metrics.FirstYear, d.Metrics.LastYear)
	}
	return models.DashboardView{
		Header: models.HeaderView{
			Title:       d.Title,
			Author:      d.Author,
			Description: template.HTML(d.DescriptionHTML),
		},
		Metrics: models.MetricsView{
			TotalCourses:    d.Metrics.TotalCourses,
			TotalCategories: d.Metrics.TotalCategories,
			ActiveYears:     d.Metrics.ActiveYears,
			Period:          period,
			MostRecent:      d.Metrics.MostRecent,
		},
		DateChart:     dateChartView(d.Granularity, d.DateBuckets),
		CategoryChart: categoryChartView(d.Metrics.TotalCourses, d.CategoryBuckets),
		TableURL:      listURL(tablePath, DefaultViewState(), true),
		CardsURL:      listURL(cardsPath, DefaultViewState(), false),
	}
}

// --- HTMX Web Handlers ---

// HomePage handles GET /
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	state, loadErr := h.svc.State()
	switch state {
	case StatePending:
		h.render(w, r, http.StatusOK, pages.LoadingPage(models.StatusView{
			Title:   "Cargando…",
			State:   string(state),
			Message: "Cargando el listado de cursos.",
		}))
		return
	case StateFailed:
		h.render(w, r, http.StatusServiceUnavailable, pages.FailedPage(models.StatusView{
			Title:   "No se pudieron cargar los cursos",
			State:   string(state),
			Message: loadErr.Error(),
		}))
		return
	}

	d, err := h.svc.Dashboard(ParseGranularity(r.URL.Query().Get("granularity")))
	if err != nil {
		h.log.Error("failed to build dashboard", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, pages.DashboardPage(dashboardToView(d)))
}

// DateChartFragment handles GET /fragments/charts/date (HTMX partial)
func (h *Handler) DateChartFragment(w http.ResponseWriter, r *http.Request) {
	g := ParseGranularity(r.URL.Query().Get("granularity"))
	buckets, err := h.svc.DateBuckets(g)
	if err != nil {
		h.fragmentError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, components.DateChart(dateChartView(g, buckets)))
}

// TableFragment handles GET /fragments/table (HTMX partial)
func (h *Handler) TableFragment(w http.ResponseWriter, r *http.Request) {
	lv, err := h.listView(r.URL.Query(), tableID, tablePath, TableOptions)
	if err != nil {
		h.fragmentError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, components.CourseTable(lv))
}

// CardsFragment handles GET /fragments/cards (HTMX partial)
func (h *Handler) CardsFragment(w http.ResponseWriter, r *http.Request) {
	lv, err := h.listView(r.URL.Query(), cardsID, cardsPath, CardOptions)
	if err != nil {
		h.fragmentError(w, err)
		return
	}
	h.render(w, r, http.StatusOK, components.CourseCards(lv))
}

func (h *Handler) listView(q url.Values, id, endpoint string, opts ListOptions) (models.ListView, error) {
	v := h.parseViewState(q, opts.Sortable)
	page, err := h.svc.List(v, opts)
	if err != nil {
		return models.ListView{}, err
	}
	cats, err := h.svc.Categories()
	if err != nil {
		return models.ListView{}, err
	}
	p, err := h.svc.Palette()
	if err != nil {
		return models.ListView{}, err
	}
	return listToView(id, endpoint, page, v, cats, p, opts.Sortable), nil
}

func (h *Handler) fragmentError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotReady) || errors.Is(err, ErrLoadFailed) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	h.log.Error("failed to render fragment", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
