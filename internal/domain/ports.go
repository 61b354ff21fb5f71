package domain

import (
	"context"
	"encoding/json"
	"net/url"
	"time"
)

// Backend is the external REST API that owns every entity.
type Backend interface {
	Do(ctx context.Context, method, path string, query url.Values, body *Body, out any) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

type ActivityRepository interface {
	Record(ctx context.Context, a Activity) error
	List(ctx context.Context, page, limit int) ([]Activity, int64, error)
}

// Body is an encoded request body ready to be sent to the backend.
type Body struct {
	ContentType string
	Data        []byte
}

func JSONBody(v any) (*Body, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Body{ContentType: "application/json", Data: b}, nil
}

type Activity struct {
	ID        string    `json:"id"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	TargetIDs []string  `json:"targetIds"`
	Outcome   string    `json:"outcome"` // ok|failed
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
