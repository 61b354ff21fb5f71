package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one backend entity as returned by the API. Shapes differ per
// resource so rows stay untyped until a form or a column reads them.
type Row map[string]any

// Lookup resolves a dot path ("description.content", "errors.0.message")
// inside the row. Numeric parts index into arrays.
func (r Row) Lookup(path string) any {
	cur := any(map[string]any(r))
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil
			}
			cur = v
		case Row:
			v, ok := node[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
	}
	return cur
}

// ID returns the row id under field, falling back to the other common key.
func (r Row) ID(field string) string {
	for _, k := range []string{field, "_id", "id"} {
		if k == "" {
			continue
		}
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		case int:
			return fmt.Sprintf("%d", v)
		case int64:
			return fmt.Sprintf("%d", v)
		}
	}
	return ""
}

type PageQuery struct {
	Parent  string
	Page    int
	Limit   int
	Deleted bool
}

type Page struct {
	Items      []Row `json:"items"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize clamps page and limit into their accepted ranges.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Parent = strings.TrimSpace(q.Parent)
	return q
}
