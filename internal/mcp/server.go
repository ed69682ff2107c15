package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"coursedash/internal/courses"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with read-only tools over the course dataset
func NewServer(svc *courses.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Course Dashboard",
		version,
		server.WithToolCapabilities(true),
	)

	// Tool: get_metrics - Dashboard summary numbers
	s.AddTool(
		mcp.NewTool("get_metrics",
			mcp.WithDescription("Get the dashboard summary: total courses, number of categories, active years, first and last year and the most recent course."),
		),
		handleGetMetrics(svc),
	)

	// Tool: get_date_buckets - Courses per year or month
	s.AddTool(
		mcp.NewTool("get_date_buckets",
			mcp.WithDescription("Count completed courses per year or per month, in chronological order."),
			mcp.WithString("granularity",
				mcp.Description("Bucket size: 'year' (default) or 'month-year'"),
				mcp.Enum(string(courses.ByYear), string(courses.ByMonthYear)),
			),
		),
		handleGetDateBuckets(svc),
	)

	// Tool: get_category_buckets - Courses per category
	s.AddTool(
		mcp.NewTool("get_category_buckets",
			mcp.WithDescription("Count completed courses per category, largest first, with each category's share of the total."),
		),
		handleGetCategoryBuckets(svc),
	)

	// Tool: list_categories - Distinct categories
	s.AddTool(
		mcp.NewTool("list_categories",
			mcp.WithDescription("List the distinct course categories alphabetically. Use these values for the category filter of search_courses."),
		),
		handleListCategories(svc),
	)

	// Tool: search_courses - Filter, sort and page the course list
	s.AddTool(
		mcp.NewTool("search_courses",
			mcp.WithDescription("Search courses by case-insensitive substring of name or category, optionally filtered by category, sorted and paginated."),
			mcp.WithString("query",
				mcp.Description("Optional: text matched against course name and category"),
			),
			mcp.WithString("category",
				mcp.Description("Optional: exact category name, or 'all'"),
			),
			mcp.WithString("sort",
				mcp.Description("Sort field: 'name', 'date' (default) or 'category'"),
			),
			mcp.WithString("order",
				mcp.Description("Sort order: 'asc' or 'desc' (default)"),
			),
			mcp.WithNumber("page",
				mcp.Description("1-based page number (default: 1)"),
			),
			mcp.WithNumber("page_size",
				mcp.Description("Courses per page (default: 10, max: 200)"),
			),
		),
		handleSearchCourses(svc),
	)

	return s
}

// CourseResult represents a course in tool responses
type CourseResult struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

// SearchResult is one page of search_courses output.
type SearchResult struct {
	Courses    []CourseResult `json:"courses"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	Total      int            `json:"total"`
}

func handleGetMetrics(svc *courses.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		m, err := svc.Metrics()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get metrics: %v", err)), nil
		}
		return jsonResult(m), nil
	}
}

func handleGetDateBuckets(svc *courses.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := req.GetString("granularity", string(courses.ByYear))
		g := courses.ParseGranularity(raw)
		if string(g) != raw {
			return mcp.NewToolResultError("granularity must be 'year' or 'month-year'"), nil
		}

		buckets, err := svc.DateBuckets(g)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get date buckets: %v", err)), nil
		}
		return jsonResult(buckets), nil
	}
}

func handleGetCategoryBuckets(svc *courses.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		buckets, err := svc.CategoryBuckets()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to get category buckets: %v", err)), nil
		}
		return jsonResult(buckets), nil
	}
}

func handleListCategories(svc *courses.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cats, err := svc.Categories()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list categories: %v", err)), nil
		}
		return jsonResult(cats), nil
	}
}

func handleSearchCourses(svc *courses.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		pageSize := req.GetInt("page_size", courses.TableOptions.PageSize)
		if pageSize < 1 || pageSize > 200 {
			return mcp.NewToolResultError("page_size must be between 1 and 200"), nil
		}

		v := courses.DefaultViewState().
			WithSearch(req.GetString("query", "")).
			WithCategory(req.GetString("category", courses.AllCategories))
		v.SortField = courses.ParseSortField(req.GetString("sort", ""), v.SortField)
		v.SortOrder = courses.ParseSortOrder(req.GetString("order", ""), v.SortOrder)
		v.Page = req.GetInt("page", 1)

		page, err := svc.List(v, courses.ListOptions{PageSize: pageSize, Sortable: true})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to search courses: %v", err)), nil
		}

		res := SearchResult{
			Courses:    make([]CourseResult, len(page.Items)),
			Page:       page.Number,
			TotalPages: page.TotalPages,
			Total:      page.TotalItems,
		}
		for i, c := range page.Items {
			res.Courses[i] = CourseResult{Name: c.Name, Date: c.Date, Category: c.Category}
		}
		return jsonResult(res), nil
	}
}

// Helper functions

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}
