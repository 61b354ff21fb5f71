package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/app"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

func gearPage(c call) (any, error) {
	return map[string]any{
		"data": []any{
			map[string]any{"_id": "g1", "title": "Tent"},
			map[string]any{"_id": "g2", "title": "Stove"},
		},
		"pagination": map[string]any{"total": 12, "page": 1, "totalPages": 2},
	}, nil
}

func TestCollection_CacheMissThenHit(t *testing.T) {
	be := &fakeBackend{respond: gearPage}
	svc := app.NewCollectionService(be, &memCache{}, 10*time.Minute)
	res := mustRes("gear")
	ctx := context.Background()

	p, err := svc.List(ctx, res, domain.PageQuery{Parent: "pkg-1", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(p.Items) != 2 || p.Total != 12 || p.TotalPages != 2 {
		t.Fatalf("unexpected page: %+v", p)
	}
	if be.count(http.MethodGet, "/gear/pkg-1") != 1 {
		t.Fatalf("expected one list call, got %+v", be.calls)
	}
	if q := be.calls[0].Query; q.Get("page") != "1" || q.Get("limit") != "2" {
		t.Fatalf("unexpected query %v", q)
	}

	// Hit
	p2, err := svc.List(ctx, res, domain.PageQuery{Parent: "pkg-1", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if be.total() != 1 {
		t.Fatalf("expected cache hit, backend called %d times", be.total())
	}
	if p2.Items[0].ID(res.IDField) != "g1" {
		t.Fatalf("unexpected cached page: %+v", p2)
	}

	// Invalidate -> refetch
	if err := svc.Invalidate(ctx, res); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := svc.List(ctx, res, domain.PageQuery{Parent: "pkg-1", Page: 1, Limit: 2}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if be.total() != 2 {
		t.Fatalf("expected refetch after invalidate, backend called %d times", be.total())
	}
}

func TestCollection_EnvelopeVariants(t *testing.T) {
	cases := []struct {
		name  string
		env   any
		items int
		total int64
		pages int
	}{
		{"nested items", map[string]any{"data": map[string]any{"items": []any{map[string]any{"id": "1"}}, "total": 31}}, 1, 31, 4},
		{"meta", map[string]any{"result": []any{map[string]any{"id": "1"}, map[string]any{"id": "2"}}, "meta": map[string]any{"total": "2"}}, 2, 2, 1},
		{"bare array", []any{map[string]any{"id": "1"}}, 1, 1, 1},
		{"empty", map[string]any{"data": []any{}}, 0, 0, 1},
	}
	for _, tc := range cases {
		be := &fakeBackend{respond: func(call) (any, error) { return tc.env, nil }}
		svc := app.NewCollectionService(be, &memCache{}, time.Minute)
		p, err := svc.List(context.Background(), mustRes("faq"), domain.PageQuery{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("%s: err: %v", tc.name, err)
		}
		if len(p.Items) != tc.items || p.Total != tc.total || p.TotalPages != tc.pages {
			t.Fatalf("%s: unexpected page %+v", tc.name, p)
		}
	}
}

func TestCollection_DeletedListing(t *testing.T) {
	be := &fakeBackend{respond: gearPage}
	svc := app.NewCollectionService(be, &memCache{}, time.Minute)

	if _, err := svc.List(context.Background(), mustRes("technology"), domain.PageQuery{Deleted: true}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if be.count(http.MethodGet, "/technology/deleted") != 1 {
		t.Fatalf("expected deleted listing call, got %+v", be.calls)
	}

	_, err := svc.List(context.Background(), mustRes("gear"), domain.PageQuery{Deleted: true})
	if !errors.Is(err, domain.ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestCollection_FetchErrorSurfaces(t *testing.T) {
	be := &fakeBackend{respond: func(call) (any, error) {
		return nil, &domain.RemoteError{Status: 502, Message: "upstream down"}
	}}
	svc := app.NewCollectionService(be, &memCache{}, time.Minute)
	_, err := svc.List(context.Background(), mustRes("blog"), domain.PageQuery{})
	if domain.UserMessage(err, "") != "upstream down" {
		t.Fatalf("expected remote error, got %v", err)
	}
}

func TestCollection_GetUnwrapsItem(t *testing.T) {
	be := &fakeBackend{respond: func(c call) (any, error) {
		return map[string]any{"data": map[string]any{"id": "b1", "title": "Hello"}}, nil
	}}
	svc := app.NewCollectionService(be, &memCache{}, time.Minute)
	row, err := svc.Get(context.Background(), mustRes("blog"), "b1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if row["title"] != "Hello" || be.count(http.MethodGet, "/blog/b1") != 1 {
		t.Fatalf("unexpected row %+v", row)
	}
}

// ctxBackend fails the way a real transport does when its context is done.
type ctxBackend struct {
	fakeBackend
	deadline bool
}

func (b *ctxBackend) Do(ctx context.Context, method, path string, query url.Values, body *domain.Body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, b.deadline = ctx.Deadline()
	return b.fakeBackend.Do(ctx, method, path, query, body, out)
}

func TestCollection_SharedFetchIgnoresCallerCancel(t *testing.T) {
	be := &ctxBackend{fakeBackend: fakeBackend{respond: gearPage}}
	svc := app.NewCollectionService(be, &memCache{}, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := svc.List(ctx, mustRes("gear"), domain.PageQuery{Parent: "pkg-1", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("a canceled first caller must not fail the shared fetch: %v", err)
	}
	if len(p.Items) != 2 {
		t.Fatalf("unexpected page: %+v", p)
	}
	if !be.deadline {
		t.Fatalf("shared fetch should run under its own timeout")
	}
}
