package app_test

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

// ---- fakes ----

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// fakeBackend answers with respond and records every call.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []call
	respond func(c call) (any, error)
}

func (f *fakeBackend) Do(ctx context.Context, method, path string, query url.Values, body *domain.Body, out any) error {
	c := call{Method: method, Path: path, Query: query}
	if body != nil && strings.HasPrefix(body.ContentType, "application/json") {
		_ = json.Unmarshal(body.Data, &c.Body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	var resp any
	if f.respond != nil {
		var err error
		if resp, err = f.respond(c); err != nil {
			return err
		}
	}
	if out == nil || resp == nil {
		return nil
	}
	b, _ := json.Marshal(resp)
	return json.Unmarshal(b, out)
}

func (f *fakeBackend) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// memCache stores JSON like the redis adapter does.
type memCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	var n int64
	if b, ok := c.store[key]; ok {
		_ = json.Unmarshal(b, &n)
	}
	n++
	c.store[key], _ = json.Marshal(n)
	return n, nil
}

type fakeActivity struct {
	mu   sync.Mutex
	rows []domain.Activity
}

func (f *fakeActivity) Record(ctx context.Context, a domain.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, a)
	return nil
}

func (f *fakeActivity) List(ctx context.Context, page, limit int) ([]domain.Activity, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, int64(len(f.rows)), nil
}

func mustRes(name string) domain.Resource {
	r, err := domain.LookupResource(name)
	if err != nil {
		panic(err)
	}
	return r
}
