package table

import (
	"fmt"
	"strings"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

// Filter is a local, case-insensitive substring match on one column.
type Filter struct {
	Column string
	Text   string
}

func (f Filter) Active() bool { return strings.TrimSpace(f.Text) != "" }

// Apply returns the rows whose column value contains the filter text.
// Unknown or non-filterable columns leave the rows untouched.
func (f Filter) Apply(rows []domain.Row, cols []domain.Column) []domain.Row {
	if !f.Active() {
		return rows
	}
	col, ok := findColumn(cols, f.Column)
	if !ok || !col.Filterable {
		return rows
	}
	needle := strings.ToLower(strings.TrimSpace(f.Text))
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(Cell(r, col)), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Cell renders the column value of a row as display text.
func Cell(r domain.Row, c domain.Column) string {
	path := c.Path
	if path == "" {
		path = c.Key
	}
	switch v := r.Lookup(path).(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

func findColumn(cols []domain.Column, key string) (domain.Column, bool) {
	for _, c := range cols {
		if c.Key == key {
			return c, true
		}
	}
	return domain.Column{}, false
}
