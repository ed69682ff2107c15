package models

import "html/template"

// HeaderView is the dashboard title block.
type HeaderView struct {
	Title       string
	Author      string
	Description template.HTML // sanitized markdown output
}

// MetricsView holds the four summary cards.
type MetricsView struct {
	TotalCourses    int
	TotalCategories int
	ActiveYears     int
	Period          string // e.g. "2018-2024"
	MostRecent      string
}

// BucketView is one bar of the date chart.
type BucketView struct {
	Label string
	Count int
}

// DateChartView feeds the bar chart and its granularity select.
type DateChartView struct {
	Granularity string // "year" or "month-year"
	Endpoint    string // fragment URL the select reloads
	Buckets     []BucketView
}

// CategoryView is one pie slice and legend entry.
type CategoryView struct {
	Name    string
	Count   int
	Color   string
	Percent float64
}

// CategoryChartView feeds the pie chart and legend.
type CategoryChartView struct {
	Total      int
	Categories []CategoryView
}

// CourseView represents a course row or card for template rendering
type CourseView struct {
	Name        string
	Category    string
	Color       string
	BadgeBG     string
	BadgeBorder string
	DateLong    string
	DateShort   string
}

// SortLink is one sortable table header.
type SortLink struct {
	Label  string
	URL    string
	Active bool
	Order  string
}

// ListView is one list presentation: the desktop table or the mobile cards.
type ListView struct {
	ID         string // DOM id the fragment swaps into
	Endpoint   string
	Courses    []CourseView
	Search     string
	Category   string
	Categories []string
	SortField  string
	SortOrder  string
	SortLinks  []SortLink
	Page       int
	TotalPages int
	Start      int
	End        int
	Total      int
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

// DashboardView is the whole dashboard page.
type DashboardView struct {
	Header        HeaderView
	Metrics       MetricsView
	DateChart     DateChartView
	CategoryChart CategoryChartView
	TableURL      string
	CardsURL      string
}

// StatusView backs the loading and failed pages.
type StatusView struct {
	Title   string
	State   string
	Message string
}
