package courses

import (
	"strings"
	"time"
)

// Course is one completed course. Records are immutable once loaded.
type Course struct {
	Name     string `json:"nombre" yaml:"nombre" bson:"nombre" validate:"required"`
	Date     string `json:"fecha" yaml:"fecha" bson:"fecha" validate:"required,coursedate"`
	Category string `json:"categoria" yaml:"categoria" bson:"categoria" validate:"required"`
}

// CompletedAt parses the completion date. ok is false for malformed dates.
func (c Course) CompletedAt() (t time.Time, ok bool) {
	return ParseDate(c.Date)
}

// Document is the dataset file layout.
type Document struct {
	Title       string   `json:"titulo" yaml:"titulo"`
	Author      string   `json:"autor" yaml:"autor"`
	Description string   `json:"descripcion" yaml:"descripcion"` // markdown
	Courses     []Course `json:"cursos" yaml:"cursos"`
}

// Granularity is the date bucketing resolution.
type Granularity string

const (
	ByYear      Granularity = "year"
	ByMonthYear Granularity = "month-year"
)

// ParseGranularity falls back to ByYear for anything unrecognized.
func ParseGranularity(s string) Granularity {
	if Granularity(s) == ByMonthYear {
		return ByMonthYear
	}
	return ByYear
}

// SortField names the column a table is sorted by.
type SortField string

const (
	SortByName     SortField = "name"
	SortByDate     SortField = "date"
	SortByCategory SortField = "category"
)

// ParseSortField returns def when s is not a known field.
func ParseSortField(s string, def SortField) SortField {
	switch SortField(s) {
	case SortByName, SortByDate, SortByCategory:
		return SortField(s)
	}
	return def
}

// SortOrder is the sort direction.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ParseSortOrder returns def when s is not asc or desc.
func ParseSortOrder(s string, def SortOrder) SortOrder {
	switch SortOrder(s) {
	case Asc, Desc:
		return SortOrder(s)
	}
	return def
}

// AllCategories is the category filter value that matches every course.
const AllCategories = "all"

// ViewState is the user-controlled state of one list presentation.
// The table and the card list each hold their own.
type ViewState struct {
	Search    string
	Category  string
	SortField SortField
	SortOrder SortOrder
	Page      int
}

// DefaultViewState matches the initial state of a freshly mounted list:
// newest courses first, no filters, first page.
func DefaultViewState() ViewState {
	return ViewState{
		Category:  AllCategories,
		SortField: SortByDate,
		SortOrder: Desc,
		Page:      1,
	}
}

// FilterAll reports whether the category filter is inactive.
func (v ViewState) FilterAll() bool {
	return v.Category == "" || v.Category == AllCategories
}

// ToggleSort returns the state after clicking the header of field: the active
// field flips direction, any other field becomes active in ascending order.
// The page always goes back to 1.
func (v ViewState) ToggleSort(field SortField) ViewState {
	if v.SortField == field {
		if v.SortOrder == Asc {
			v.SortOrder = Desc
		} else {
			v.SortOrder = Asc
		}
	} else {
		v.SortField = field
		v.SortOrder = Asc
	}
	v.Page = 1
	return v
}

// WithSearch returns the state after editing the search box.
func (v ViewState) WithSearch(s string) ViewState {
	v.Search = s
	v.Page = 1
	return v
}

// WithCategory returns the state after picking a category filter.
func (v ViewState) WithCategory(c string) ViewState {
	if strings.TrimSpace(c) == "" {
		c = AllCategories
	}
	v.Category = c
	v.Page = 1
	return v
}

// Metrics are the dashboard summary numbers.
type Metrics struct {
	TotalCourses    int    `json:"totalCourses"`
	TotalCategories int    `json:"totalCategories"`
	ActiveYears     int    `json:"activeYears"`
	FirstYear       int    `json:"firstYear,omitempty"`
	LastYear        int    `json:"lastYear,omitempty"`
	MostRecent      string `json:"mostRecent,omitempty"`
}

// DateBucket counts courses in one year or year-month.
type DateBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoryBucket counts courses in one category.
type CategoryBucket struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Color    string  `json:"color"`
	Share    float64 `json:"share"` // percent of all courses
}

// ListOptions parameterize the shared list query for one presentation.
type ListOptions struct {
	PageSize int
	Sortable bool
}

var (
	// TableOptions drive the desktop table.
	TableOptions = ListOptions{PageSize: 10, Sortable: true}
	// CardOptions drive the mobile card list, which keeps dataset order.
	CardOptions = ListOptions{PageSize: 6, Sortable: false}
)

// LoadState is the lifecycle of the one-time dataset load.
type LoadState string

const (
	StatePending LoadState = "pending"
	StateReady   LoadState = "ready"
	StateFailed  LoadState = "failed"
)
