package courses

import "github.com/go-chi/chi/v5"

// WebRoutes serves the dashboard page and its HTMX fragments.
func WebRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HomePage)
	r.Get(dateChartPath, h.DateChartFragment)
	r.Get(tablePath, h.TableFragment)
	r.Get(cardsPath, h.CardsFragment)
	return r
}

// APIRoutes serves the JSON API. Mount it under /api.
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/status", h.Status)
	r.Get("/metrics", h.Metrics)
	r.Get("/buckets/date", h.DateBucketsAPI)
	r.Get("/buckets/category", h.CategoryBucketsAPI)
	r.Get("/categories", h.ListCategories)
	r.Get("/courses", h.ListCourses)
	return r
}
