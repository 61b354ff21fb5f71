package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/table"
)

// ReorderService persists drag-and-drop order with one batch call.
type ReorderService struct {
	m *MutationService
}

func NewReorderService(m *MutationService) *ReorderService {
	return &ReorderService{m: m}
}

type ReorderResult struct {
	Items      []domain.Row `json:"items"`
	Changed    int          `json:"changed"`
	RolledBack bool         `json:"rolledBack"`
}

type reorderItem struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}

// Move drags row from to position to on the page described by q. When the
// backend rejects the batch, Items is the untouched pre-drag order.
func (s *ReorderService) Move(ctx context.Context, res domain.Resource, q domain.PageQuery, from, to int) (ReorderResult, error) {
	if !res.Reorderable {
		return ReorderResult{}, fmt.Errorf("%w: %s is not reorderable", domain.ErrNotSupported, res.Name)
	}
	q = q.Normalize()
	q.Deleted = false
	page, err := s.m.coll.List(ctx, res, q)
	if err != nil {
		return ReorderResult{}, err
	}
	snapshot := page.Items

	start := (q.Page-1)*q.Limit + 1
	next, changed, err := table.MoveAt(snapshot, from, to, start)
	if err != nil {
		return ReorderResult{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(changed) == 0 {
		return ReorderResult{Items: next}, nil
	}

	items := make([]reorderItem, 0, len(changed))
	ids := make([]string, 0, len(changed))
	for _, r := range changed {
		so, _ := table.SortOrder(r)
		id := r.ID(res.IDField)
		items = append(items, reorderItem{ID: id, SortOrder: so})
		ids = append(ids, id)
	}
	body, err := domain.JSONBody(map[string]any{"items": items})
	if err != nil {
		return ReorderResult{}, err
	}

	err = s.m.backend.Do(ctx, http.MethodPatch, res.ReorderPath(), nil, body, nil)
	s.m.done(ctx, res, "reorder", ids, err)
	if err != nil {
		return ReorderResult{Items: snapshot, RolledBack: true}, fmt.Errorf("reorder %s: %w", res.Name, err)
	}
	return ReorderResult{Items: next, Changed: len(changed)}, nil
}
