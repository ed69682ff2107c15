package courses

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// InvalidDateLabel is the bucket label for courses whose date does not parse.
const InvalidDateLabel = "invalid"

// ParseDate accepts YYYY-MM-DD or RFC3339. RFC3339 values keep their own
// offset, so the calendar date is the one written in the record.
func ParseDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ComputeMetrics summarizes the dataset.
func ComputeMetrics(cs []Course) Metrics {
	m := Metrics{TotalCourses: len(cs)}

	categories := make(map[string]struct{})
	years := make(map[int]struct{})
	var latest time.Time
	for _, c := range cs {
		categories[c.Category] = struct{}{}

		t, ok := c.CompletedAt()
		if !ok {
			continue
		}
		y := t.Year()
		years[y] = struct{}{}
		if m.FirstYear == 0 || y < m.FirstYear {
			m.FirstYear = y
		}
		if y > m.LastYear {
			m.LastYear = y
		}
		if m.MostRecent == "" || t.After(latest) {
			latest = t
			m.MostRecent = c.Name
		}
	}
	m.TotalCategories = len(categories)
	m.ActiveYears = len(years)
	return m
}

// DateBucketLabel is the bucket key of a single course.
func DateBucketLabel(c Course, g Granularity) string {
	t, ok := c.CompletedAt()
	if !ok {
		return InvalidDateLabel
	}
	if g == ByMonthYear {
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}
	return fmt.Sprintf("%04d", t.Year())
}

// DateBuckets counts courses per year or year-month in ascending label order.
func DateBuckets(cs []Course, g Granularity) []DateBucket {
	counts := make(map[string]int)
	for _, c := range cs {
		counts[DateBucketLabel(c, g)]++
	}

	out := make([]DateBucket, 0, len(counts))
	for label, n := range counts {
		out = append(out, DateBucket{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b DateBucket) int {
		return strings.Compare(a.Label, b.Label)
	})
	return out
}

// CategoryBuckets counts courses per category, largest first. Ties keep the
// order in which the categories first appear in cs.
func CategoryBuckets(cs []Course, p *Palette) []CategoryBucket {
	index := make(map[string]int)
	var out []CategoryBucket
	for _, c := range cs {
		i, ok := index[c.Category]
		if !ok {
			i = len(out)
			index[c.Category] = i
			out = append(out, CategoryBucket{Category: c.Category, Color: p.Color(c.Category)})
		}
		out[i].Count++
	}

	for i := range out {
		out[i].Share = float64(out[i].Count) / float64(len(cs)) * 100
	}
	slices.SortStableFunc(out, func(a, b CategoryBucket) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// Categories lists the distinct categories alphabetically for filter dropdowns.
func Categories(cs []Course) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range cs {
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	collate.New(language.Spanish).SortStrings(out)
	return out
}

// Filter keeps the courses matching the category filter and the search text.
// Search is a case-insensitive substring match on name or category.
func Filter(cs []Course, v ViewState) []Course {
	fold := cases.Fold()
	needle := fold.String(v.Search)
	all := v.FilterAll()

	out := make([]Course, 0, len(cs))
	for _, c := range cs {
		if !all && c.Category != v.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(c.Name), needle) &&
			!strings.Contains(fold.String(c.Category), needle) {
			continue
		}
		out = append(out, c)
	}
	return out
}

type sortKey struct {
	course Course
	text   string
	at     time.Time
}

// Sort returns a sorted copy of cs. The sort is stable in both directions.
// Malformed dates sort as the zero time.
func Sort(cs []Course, field SortField, order SortOrder) []Course {
	fold := cases.Fold()
	keys := make([]sortKey, len(cs))
	for i, c := range cs {
		k := sortKey{course: c}
		switch field {
		case SortByName:
			k.text = fold.String(c.Name)
		case SortByCategory:
			k.text = fold.String(c.Category)
		default:
			k.at, _ = c.CompletedAt()
		}
		keys[i] = k
	}

	slices.SortStableFunc(keys, func(a, b sortKey) int {
		var r int
		if field == SortByName || field == SortByCategory {
			r = strings.Compare(a.text, b.text)
		} else {
			r = a.at.Compare(b.at)
		}
		if order == Desc {
			return -r
		}
		return r
	})

	out := make([]Course, len(keys))
	for i, k := range keys {
		out[i] = k.course
	}
	return out
}

// Page is one page of a list.
type Page[T any] struct {
	Items      []T
	Number     int // 1-based, clamped to [1, max(1, TotalPages)]
	Size       int
	TotalItems int
	TotalPages int // 0 when there are no items
	Start      int // 1-based position of the first item, 0 when empty
	End        int // 1-based position of the last item, 0 when empty
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Prev is the previous page number floored at 1.
func (p Page[T]) Prev() int { return max(p.Number-1, 1) }

// Next is the next page number capped at the last page.
func (p Page[T]) Next() int { return min(p.Number+1, max(p.TotalPages, 1)) }

// Paginate slices items into pages of size and returns the requested page.
// Out-of-range page numbers are clamped rather than yielding an empty page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = 1
	}
	total := len(items)
	pages := (total + size - 1) / size

	page = min(max(page, 1), max(pages, 1))

	start := (page - 1) * size
	end := min(start+size, total)
	p := Page[T]{
		Items:      items[start:end],
		Number:     page,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
	}
	if end > start {
		p.Start = start + 1
		p.End = end
	}
	return p
}

// Query runs filter, sort (when the presentation is sortable) and paginate.
// Both list presentations go through it.
func Query(cs []Course, v ViewState, opts ListOptions) Page[Course] {
	list := Filter(cs, v)
	if opts.Sortable {
		list = Sort(list, v.SortField, v.SortOrder)
	}
	return Paginate(list, v.Page, opts.PageSize)
}
