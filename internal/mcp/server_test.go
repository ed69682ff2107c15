package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"coursedash/internal/courses"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `{"cursos":[
	{"nombre":"A","fecha":"2020-01-15","categoria":"X"},
	{"nombre":"B","fecha":"2020-06-01","categoria":"X"},
	{"nombre":"C","fecha":"2021-03-01","categoria":"Y"}
]}`

func newService(t *testing.T, data string) *courses.Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := courses.NewLoader(courses.BytesSource{Label: "test", Data: []byte(data), Format: "json"}, 0, log)
	l.Start(context.Background())
	_ = l.Wait(context.Background())
	return courses.NewService(l, courses.Defaults{})
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(newService(t, dataset), "test")
	tools := s.ListTools()
	for _, name := range []string{"get_metrics", "get_date_buckets", "get_category_buckets", "list_categories", "search_courses"} {
		assert.Contains(t, tools, name)
	}
}

func TestGetMetrics(t *testing.T) {
	res := call(t, handleGetMetrics(newService(t, dataset)), nil)
	require.False(t, res.IsError)

	var m courses.Metrics
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &m))
	assert.Equal(t, 3, m.TotalCourses)
	assert.Equal(t, "C", m.MostRecent)
}

func TestGetDateBuckets(t *testing.T) {
	h := handleGetDateBuckets(newService(t, dataset))

	var buckets []courses.DateBucket
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, h, nil))), &buckets))
	assert.Equal(t, []courses.DateBucket{{Label: "2020", Count: 2}, {Label: "2021", Count: 1}}, buckets)

	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, h, map[string]any{"granularity": "month-year"}))), &buckets))
	assert.Len(t, buckets, 3)

	res := call(t, h, map[string]any{"granularity": "week"})
	assert.True(t, res.IsError)
}

func TestGetCategoryBucketsAndList(t *testing.T) {
	svc := newService(t, dataset)

	var buckets []courses.CategoryBucket
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, handleGetCategoryBuckets(svc), nil))), &buckets))
	require.Len(t, buckets, 2)
	assert.Equal(t, "X", buckets[0].Category)

	var cats []string
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, handleListCategories(svc), nil))), &cats))
	assert.Equal(t, []string{"X", "Y"}, cats)
}

func TestSearchCourses(t *testing.T) {
	h := handleSearchCourses(newService(t, dataset))

	var res SearchResult
	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, h, map[string]any{
		"category":  "X",
		"sort":      "name",
		"order":     "desc",
		"page_size": float64(1),
		"page":      float64(2),
	}))), &res))
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []CourseResult{{Name: "A", Date: "2020-01-15", Category: "X"}}, res.Courses)

	require.NoError(t, json.Unmarshal([]byte(text(t, call(t, h, map[string]any{"query": "zzz", "page": float64(4)}))), &res))
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Courses)

	assert.True(t, call(t, h, map[string]any{"page_size": float64(0)}).IsError)
}

func TestToolsReportNotReady(t *testing.T) {
	svc := newService(t, "{")
	for name, h := range map[string]server.ToolHandlerFunc{
		"metrics":    handleGetMetrics(svc),
		"date":       handleGetDateBuckets(svc),
		"category":   handleGetCategoryBuckets(svc),
		"categories": handleListCategories(svc),
		"search":     handleSearchCourses(svc),
	} {
		res := call(t, h, nil)
		assert.True(t, res.IsError, name)
		assert.Contains(t, text(t, res), "dataset load failed", name)
	}
}
