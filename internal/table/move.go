package table

import (
	"fmt"
	"strconv"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

const SortField = "sortOrder"

// Move returns a reordered copy of items with item from placed at index to,
// and sortOrder rewritten as the contiguous sequence 1..n. changed holds the
// rows whose sortOrder differs from what they carried before. items is not
// modified.
func Move(items []domain.Row, from, to int) (out []domain.Row, changed []domain.Row, err error) {
	return MoveAt(items, from, to, 1)
}

// MoveAt is Move for a page that does not start the list: sortOrder runs
// start..start+n-1.
func MoveAt(items []domain.Row, from, to, start int) (out []domain.Row, changed []domain.Row, err error) {
	if start < 1 {
		start = 1
	}
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, nil, fmt.Errorf("move %d -> %d out of range [0,%d)", from, to, n)
	}

	out = make([]domain.Row, 0, n)
	for i, it := range items {
		if i == from {
			continue
		}
		out = append(out, it)
	}
	// insert at to
	out = append(out, nil)
	copy(out[to+1:], out[to:])
	out[to] = items[from]

	for i, it := range out {
		prev, had := SortOrder(it)
		cp := make(domain.Row, len(it)+1)
		for k, v := range it {
			cp[k] = v
		}
		cp[SortField] = start + i
		out[i] = cp
		if !had || prev != start+i {
			changed = append(changed, cp)
		}
	}
	return out, changed, nil
}

// SortOrder reads a row's sortOrder whatever numeric form the backend used.
func SortOrder(r domain.Row) (int, bool) {
	switch v := r[SortField].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	}
	return 0, false
}
