package app

import (
	"strconv"
	"strings"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

/********** alias registries (single source of truth) **********/

var envelopeAliases = map[string][]string{
	"items":      {"data.items", "data.data", "data.rows", "data", "items", "result", "results", "rows"},
	"item":       {"data", "result", "item"},
	"total":      {"pagination.total", "meta.total", "data.total", "data.pagination.total", "total", "totalItems", "count"},
	"totalPages": {"pagination.totalPages", "meta.totalPages", "data.totalPages", "data.pagination.totalPages", "totalPages"},
	"page":       {"pagination.page", "pagination.currentPage", "meta.page", "data.page", "page", "currentPage"},
}

/********** tiny helpers **********/

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m domain.Row, paths ...string) *int64 {
	for _, k := range paths {
		switch v := m.Lookup(k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstRows: the first alias path holding an array of objects.
func firstRows(m domain.Row, paths ...string) ([]domain.Row, bool) {
	for _, k := range paths {
		raw, ok := m.Lookup(k).([]any)
		if !ok {
			continue
		}
		out := make([]domain.Row, 0, len(raw))
		for _, it := range raw {
			if obj, ok := it.(map[string]any); ok {
				out = append(out, domain.Row(obj))
			}
		}
		return out, true
	}
	return nil, false
}

/********** envelope mappers **********/

// mapPage decodes a list envelope. Backends disagree on where rows and
// totals live, so every known alias is tried.
func mapPage(env any, q domain.PageQuery) domain.Page {
	out := domain.Page{Page: q.Page, Limit: q.Limit, Items: []domain.Row{}}

	var m domain.Row
	switch t := env.(type) {
	case map[string]any:
		m = domain.Row(t)
	case []any:
		m = domain.Row{"items": t}
	default:
		return out
	}

	if rows, ok := firstRows(m, envelopeAliases["items"]...); ok {
		out.Items = rows
	}
	if v := firstInt64Flexible(m, envelopeAliases["total"]...); v != nil {
		out.Total = *v
	} else {
		// no totals: treat the page as everything we know about
		out.Total = int64((q.Page-1)*q.Limit + len(out.Items))
	}
	if v := firstInt64Flexible(m, envelopeAliases["page"]...); v != nil && *v >= 1 {
		out.Page = int(*v)
	}
	if v := firstInt64Flexible(m, envelopeAliases["totalPages"]...); v != nil && *v >= 1 {
		out.TotalPages = int(*v)
	} else {
		out.TotalPages = totalPages(out.Total, out.Limit)
	}
	return out
}

// mapItem unwraps a single-entity envelope.
func mapItem(env any) domain.Row {
	m, ok := env.(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range envelopeAliases["item"] {
		if obj, ok := domain.Row(m).Lookup(k).(map[string]any); ok {
			return domain.Row(obj)
		}
	}
	return domain.Row(m)
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
