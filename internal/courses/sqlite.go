package courses

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteSource reads courses from a table with name, completion_date and
// category columns, in rowid order.
type SQLiteSource struct {
	Path  string
	Table string
}

func (s SQLiteSource) Name() string { return "sqlite:" + s.Path }

func (s SQLiteSource) Load(ctx context.Context) (*Document, error) {
	table := s.Table
	if table == "" {
		table = "courses"
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", s.Path, err)
	}
	defer db.Close()

	// table is configuration, never request input
	query := fmt.Sprintf(`SELECT name, completion_date, category FROM %q ORDER BY rowid`, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var list []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.Name, &c.Date, &c.Category); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return &Document{Courses: list}, nil
}
