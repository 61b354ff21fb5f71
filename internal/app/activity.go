package app

import (
	"context"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

// NoopActivity is used when no audit database is configured.
type NoopActivity struct{}

var _ domain.ActivityRepository = NoopActivity{}

func (NoopActivity) Record(ctx context.Context, a domain.Activity) error { return nil }

func (NoopActivity) List(ctx context.Context, page, limit int) ([]domain.Activity, int64, error) {
	return []domain.Activity{}, 0, nil
}
