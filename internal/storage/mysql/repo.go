package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Repo is the MySQL-backed activity log.
type Repo struct{ db *sql.DB }

var _ domain.ActivityRepository = (*Repo)(nil)

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Record(ctx context.Context, a domain.Activity) error {
	ids := a.TargetIDs
	if ids == nil {
		ids = []string{}
	}
	targets, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, insertActivitySQL,
		a.ID,
		a.Resource,
		a.Action,
		string(targets),
		a.Outcome,
		valStr(a.Detail),
		valStr(a.RequestID),
		a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// List returns one page of the log, newest first, and the total row count.
func (r *Repo) List(ctx context.Context, page, limit int) ([]domain.Activity, int64, error) {
	q := domain.PageQuery{Page: page, Limit: limit}.Normalize()

	var total int64
	if err := r.db.QueryRowContext(ctx, countActivitySQL).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listActivitySQL, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []domain.Activity{}
	for rows.Next() {
		var (
			a         domain.Activity
			targets   sql.RawBytes
			detail    sql.NullString
			requestID sql.NullString
		)
		if err := rows.Scan(
			&a.ID,
			&a.Resource,
			&a.Action,
			&targets,
			&a.Outcome,
			&detail,
			&requestID,
			&a.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if len(targets) > 0 {
			_ = json.Unmarshal(targets, &a.TargetIDs)
		}
		if detail.Valid {
			a.Detail = detail.String
		}
		if requestID.Valid {
			a.RequestID = requestID.String
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
