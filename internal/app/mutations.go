package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/observability"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/reqctx"
)

type BulkAction string

const (
	BulkDelete  BulkAction = "bulk_delete"
	BulkRecover BulkAction = "bulk_recover"
)

// MutationService issues every write against the backend. A successful write
// invalidates the resource's cached pages; every write is recorded.
type MutationService struct {
	backend    domain.Backend
	coll       *CollectionService
	selections *SelectionStore
	activity   domain.ActivityRepository
}

func NewMutationService(b domain.Backend, coll *CollectionService, sel *SelectionStore, activity domain.ActivityRepository) *MutationService {
	if activity == nil {
		activity = NoopActivity{}
	}
	return &MutationService{backend: b, coll: coll, selections: sel, activity: activity}
}

func writable(res domain.Resource, action string) error {
	if res.ReadOnly && action != "delete" && action != string(BulkDelete) {
		return fmt.Errorf("%w: %s is read-only", domain.ErrNotSupported, res.Name)
	}
	return nil
}

func (s *MutationService) Create(ctx context.Context, res domain.Resource, parent string, body *domain.Body) (domain.Row, error) {
	if err := writable(res, "create"); err != nil {
		return nil, err
	}
	var env any
	err := s.backend.Do(ctx, http.MethodPost, res.CreatePath(parent), nil, body, &env)
	row := mapItem(env)
	s.done(ctx, res, "create", idsOf(row, res), err)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", res.Name, err)
	}
	return row, nil
}

func (s *MutationService) Update(ctx context.Context, res domain.Resource, id string, body *domain.Body) (domain.Row, error) {
	if err := writable(res, "update"); err != nil {
		return nil, err
	}
	var env any
	err := s.backend.Do(ctx, http.MethodPut, res.ItemPath(id), nil, body, &env)
	s.done(ctx, res, "update", []string{id}, err)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", res.Name, id, err)
	}
	return mapItem(env), nil
}

func (s *MutationService) Delete(ctx context.Context, res domain.Resource, id string) error {
	err := s.backend.Do(ctx, http.MethodDelete, res.ItemPath(id), nil, nil, nil)
	s.done(ctx, res, "delete", []string{id}, err)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", res.Name, id, err)
	}
	return nil
}

// SetStatus toggles isActive on moderated resources (review approval).
func (s *MutationService) SetStatus(ctx context.Context, res domain.Resource, id string, active bool) (domain.Row, error) {
	if !res.Moderated {
		return nil, fmt.Errorf("%w: %s has no status", domain.ErrNotSupported, res.Name)
	}
	body, err := domain.JSONBody(map[string]any{"isActive": active})
	if err != nil {
		return nil, err
	}
	var env any
	err = s.backend.Do(ctx, http.MethodPatch, res.ItemPath(id), nil, body, &env)
	s.done(ctx, res, "status", []string{id}, err)
	if err != nil {
		return nil, fmt.Errorf("status %s %s: %w", res.Name, id, err)
	}
	return mapItem(env), nil
}

// Bulk sends one backend call carrying every id. On success the admin's
// selection for that list is cleared and the resource invalidated once.
func (s *MutationService) Bulk(ctx context.Context, res domain.Resource, parent string, action BulkAction, ids []string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return domain.ErrEmptySelection
	}
	if res.Bulk == domain.BulkNone {
		return fmt.Errorf("%w: %s has no bulk endpoint", domain.ErrNotSupported, res.Name)
	}

	var method, path string
	switch action {
	case BulkDelete:
		method, path = http.MethodDelete, res.BulkDeletePath()
	case BulkRecover:
		if !res.SoftDelete {
			return fmt.Errorf("%w: %s has no recover", domain.ErrNotSupported, res.Name)
		}
		method, path = http.MethodPatch, res.BulkRecoverPath()
	default:
		return fmt.Errorf("%w: unknown bulk action %q", domain.ErrValidation, action)
	}

	body, err := domain.JSONBody(res.BulkPayload(ids))
	if err != nil {
		return err
	}
	err = s.backend.Do(ctx, method, path, nil, body, nil)
	s.done(ctx, res, string(action), ids, err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, res.Name, err)
	}

	if s.selections != nil {
		if cerr := s.selections.Clear(ctx, reqctx.Session(ctx), res.Name, parent, action == BulkRecover); cerr != nil {
			log.Warn().Err(cerr).Str("resource", res.Name).Msg("clear selection failed")
		}
	}
	return nil
}

// done invalidates on success and records the outcome either way.
func (s *MutationService) done(ctx context.Context, res domain.Resource, action string, ids []string, err error) {
	observability.ObserveMutation(res.Name, action, err)
	if err == nil {
		if ierr := s.coll.Invalidate(ctx, res); ierr != nil {
			log.Warn().Err(ierr).Str("resource", res.Name).Msg("invalidate failed")
		}
	}
	s.record(ctx, res.Name, action, ids, err)
}

func (s *MutationService) record(ctx context.Context, resource, action string, ids []string, err error) {
	a := domain.Activity{
		ID:        uuid.NewString(),
		Resource:  resource,
		Action:    action,
		TargetIDs: ids,
		Outcome:   "ok",
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		a.Outcome = "failed"
		a.Detail = err.Error()
	}
	if rid, ok := reqctx.RequestID(ctx); ok {
		a.RequestID = rid
	}
	// the audit row must survive a client disconnect
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if rerr := s.activity.Record(rctx, a); rerr != nil {
		log.Error().Err(rerr).Str("resource", resource).Str("action", action).Msg("record activity failed")
	}
}

func idsOf(row domain.Row, res domain.Resource) []string {
	if id := row.ID(res.IDField); id != "" {
		return []string{id}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
