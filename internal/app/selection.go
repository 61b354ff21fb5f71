package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/table"
)

// SelectionStore keeps each admin's table selection per resource list. The
// live table and the deleted-items table of a resource are separate lists.
type SelectionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewSelectionStore(c domain.Cache, ttl time.Duration) *SelectionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SelectionStore{cache: c, ttl: ttl}
}

type storedSelection struct {
	IDs []string `json:"ids"`
}

func selKey(session, resource, parent string, deleted bool) string {
	listing := "live"
	if deleted {
		listing = "deleted"
	}
	return fmt.Sprintf("sel:%s:%s:%s:%s", session, resource, parent, listing)
}

func (s *SelectionStore) Load(ctx context.Context, session, resource, parent string, deleted bool) (*table.Selection, error) {
	var st storedSelection
	if _, err := s.cache.Get(ctx, selKey(session, resource, parent, deleted), &st); err != nil {
		return nil, fmt.Errorf("load selection: %w", err)
	}
	return table.NewSelection(table.Multi, st.IDs...), nil
}

func (s *SelectionStore) Save(ctx context.Context, session, resource, parent string, deleted bool, sel *table.Selection) error {
	if sel.Len() == 0 {
		return s.Clear(ctx, session, resource, parent, deleted)
	}
	return s.cache.Set(ctx, selKey(session, resource, parent, deleted), storedSelection{IDs: sel.IDs()}, int(s.ttl.Seconds()))
}

func (s *SelectionStore) Clear(ctx context.Context, session, resource, parent string, deleted bool) error {
	return s.cache.Del(ctx, selKey(session, resource, parent, deleted))
}

type SelectionOp string

const (
	OpToggle   SelectionOp = "toggle"
	OpSelect   SelectionOp = "select"
	OpDeselect SelectionOp = "deselect"
	OpAll      SelectionOp = "all"
	OpClear    SelectionOp = "clear"
)

// Apply runs op against the stored selection and persists the result.
func (s *SelectionStore) Apply(ctx context.Context, session, resource, parent string, deleted bool, op SelectionOp, ids []string) (*table.Selection, error) {
	sel, err := s.Load(ctx, session, resource, parent, deleted)
	if err != nil {
		return nil, err
	}
	switch op {
	case OpToggle:
		for _, id := range ids {
			sel.Toggle(id)
		}
	case OpSelect, OpAll:
		sel.SelectAll(ids)
	case OpDeselect:
		for _, id := range ids {
			sel.Deselect(id)
		}
	case OpClear:
		sel.Clear()
	default:
		return nil, fmt.Errorf("%w: unknown selection op %q", domain.ErrValidation, op)
	}
	if err := s.Save(ctx, session, resource, parent, deleted, sel); err != nil {
		return nil, fmt.Errorf("save selection: %w", err)
	}
	return sel, nil
}
