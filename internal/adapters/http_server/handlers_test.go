package httpserver_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/backend"
	server "github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/http_server"
	redisad "github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/redis"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/app"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/forms"
)

// ---- fake platform backend ----

type backendCall struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        map[string]any
	// Parts holds multipart values and file names by form name.
	Parts map[string][]string
}

type fakePlatform struct {
	mu    sync.Mutex
	calls []backendCall
	// handle answers a call; nil answers 200 {}.
	handle func(c backendCall, w http.ResponseWriter)
}

func (f *fakePlatform) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := backendCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), ContentType: r.Header.Get("Content-Type")}
	switch {
	case strings.HasPrefix(c.ContentType, "application/json"):
		_ = json.NewDecoder(r.Body).Decode(&c.Body)
	case strings.HasPrefix(c.ContentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			c.Parts = map[string][]string{}
			for k, v := range r.MultipartForm.Value {
				c.Parts[k] = append(c.Parts[k], v...)
			}
			for k, fhs := range r.MultipartForm.File {
				for _, fh := range fhs {
					c.Parts[k] = append(c.Parts[k], fh.Filename)
				}
			}
		}
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.handle == nil {
		_, _ = io.WriteString(w, `{}`)
		return
	}
	f.handle(c, w)
}

func (f *fakePlatform) count(method, path string) int {
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

func (f *fakePlatform) find(method, path string) (backendCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			return c, true
		}
	}
	return backendCall{}, false
}

func (f *fakePlatform) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func writeBody(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ---- gateway under test ----

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newGateway(t *testing.T, fp *fakePlatform) *httptest.Server {
	t.Helper()
	platform := httptest.NewServer(fp)
	t.Cleanup(platform.Close)

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	be, err := backend.New(platform.URL, 1000, 2*time.Second)
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	coll := app.NewCollectionService(be, cache, time.Minute)
	sel := app.NewSelectionStore(cache, time.Hour)
	mut := app.NewMutationService(be, coll, sel, app.NoopActivity{})
	scopes := app.NewContextService(cache, time.Hour)

	srv := server.New([]string{"http://localhost:5173"})
	srv.MountHandlers(&server.Handlers{
		Coll:      coll,
		Mut:       mut,
		Reorder:   app.NewReorderService(mut),
		Sel:       sel,
		Analytics: app.NewAnalyticsService(be, 2),
		Scope:     scopes,
		Auth:      app.NewAuthService(be, scopes),
		Forms:     forms.NewBuilder(nil),
		Activity:  app.NoopActivity{},
		Now:       func() time.Time { return testNow },
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func do(t *testing.T, ts *httptest.Server, method, path, tok string, body any, hdr map[string]string) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decode(t *testing.T, res *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func gearList(c backendCall, w http.ResponseWriter) {
	switch {
	case c.Method == http.MethodGet && c.Path == "/gear/pkg-1":
		writeBody(w, 200, map[string]any{
			"data":       []map[string]any{{"_id": "g1", "title": "Tent"}, {"_id": "g2", "title": "Stove"}},
			"pagination": map[string]any{"total": 2, "totalPages": 1, "page": 1},
		})
	default:
		writeBody(w, 200, map[string]any{"ok": true})
	}
}

// ---- tests ----

func TestSession_RequiresValidToken(t *testing.T) {
	fp := &fakePlatform{handle: gearList}
	ts := newGateway(t, fp)

	res := do(t, ts, http.MethodGet, "/v1/resources/gear/items?parent=pkg-1", "", nil, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem content type, got %q", ct)
	}

	expired := token(t, testNow.Add(-time.Minute))
	res = do(t, ts, http.MethodGet, "/v1/resources/gear/items?parent=pkg-1", expired, nil, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", res.StatusCode)
	}
	if fp.total() != 0 {
		t.Fatalf("backend must not be called without a valid session, got %d calls", fp.total())
	}

	// the cookie form is accepted too
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/resources/gear/items?parent=pkg-1", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token(t, testNow.Add(time.Hour))})
	cres, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("cookie request: %v", err)
	}
	defer cres.Body.Close()
	if cres.StatusCode != http.StatusOK {
		t.Fatalf("cookie token: expected 200, got %d", cres.StatusCode)
	}
}

func TestCreate_CrossFieldViolationsNeverReachBackend(t *testing.T) {
	fp := &fakePlatform{}
	ts := newGateway(t, fp)
	tok := token(t, testNow.Add(time.Hour))

	cases := []struct {
		resource string
		body     map[string]any
		field    string
	}{
		{"pax", map[string]any{"min": 5, "max": 2, "discount": 10}, "max"},
		{"fixed-date", map[string]any{
			"startDate": "2026-05-10", "endDate": "2026-05-01",
			"status": "Open", "numberOfPerson": 2, "pricePerPerson": 900,
		}, "endDate"},
	}
	for _, tc := range cases {
		res := do(t, ts, http.MethodPost, "/v1/resources/"+tc.resource+"/items?parent=pkg-1", tok, tc.body, nil)
		if res.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", tc.resource, res.StatusCode)
		}
		var p struct {
			Errors map[string]string `json:"errors"`
		}
		decode(t, res, &p)
		if _, ok := p.Errors[tc.field]; !ok {
			t.Fatalf("%s: expected error on %q, got %+v", tc.resource, tc.field, p.Errors)
		}
	}
	if fp.total() != 0 {
		t.Fatalf("invalid forms must not be sent, got %d backend calls", fp.total())
	}
}

func TestCreate_ValidFormIsSentScoped(t *testing.T) {
	fp := &fakePlatform{handle: func(c backendCall, w http.ResponseWriter) {
		writeBody(w, 201, map[string]any{"data": map[string]any{"_id": "p9", "min": 1, "max": 4}})
	}}
	ts := newGateway(t, fp)

	res := do(t, ts, http.MethodPost, "/v1/resources/pax/items?parent=pkg-1", token(t, testNow.Add(time.Hour)),
		map[string]any{"min": 1, "max": 4, "discount": 5}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	c, ok := fp.find(http.MethodPost, "/pax/pkg-1")
	if !ok {
		t.Fatalf("expected POST /pax/pkg-1, got %+v", fp.calls)
	}
	if c.Body["packageId"] != "pkg-1" {
		t.Fatalf("parent not carried into payload: %+v", c.Body)
	}
	var row map[string]any
	decode(t, res, &row)
	if row["_id"] != "p9" {
		t.Fatalf("unexpected created row: %+v", row)
	}
}

func TestBulkDelete_SelectionOneCallOneRefetch(t *testing.T) {
	fp := &fakePlatform{handle: gearList}
	ts := newGateway(t, fp)
	tok := token(t, testNow.Add(time.Hour))

	res := do(t, ts, http.MethodPost, "/v1/resources/gear/selection?parent=pkg-1", tok,
		map[string]any{"op": "select", "ids": []string{"g1", "g2", "g3"}}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", res.StatusCode)
	}

	res = do(t, ts, http.MethodPost, "/v1/resources/gear/bulk/delete?parent=pkg-1", tok,
		map[string]any{"confirm": true}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("bulk delete: expected 200, got %d", res.StatusCode)
	}
	var out struct {
		Affected int `json:"affected"`
		View     struct {
			Rows    []map[string]any `json:"rows"`
			BulkBar struct {
				Visible bool `json:"visible"`
			} `json:"bulkBar"`
		} `json:"view"`
	}
	decode(t, res, &out)

	if n := fp.count(http.MethodDelete, "/gear/bulk"); n != 1 {
		t.Fatalf("expected exactly one bulk call, got %d", n)
	}
	c, _ := fp.find(http.MethodDelete, "/gear/bulk")
	ids, _ := c.Body["ids"].([]any)
	if len(ids) != 3 {
		t.Fatalf("expected all three ids in one payload, got %+v", c.Body)
	}
	if n := fp.count(http.MethodGet, "/gear/pkg-1"); n != 1 {
		t.Fatalf("expected exactly one refetch, got %d", n)
	}
	if out.Affected != 3 || len(out.View.Rows) != 2 || out.View.BulkBar.Visible {
		t.Fatalf("unexpected bulk response: %+v", out)
	}

	res = do(t, ts, http.MethodGet, "/v1/resources/gear/selection?parent=pkg-1", tok, nil, nil)
	var sel struct {
		Count int `json:"count"`
	}
	decode(t, res, &sel)
	if sel.Count != 0 {
		t.Fatalf("selection should be cleared, got %d", sel.Count)
	}
}

func TestBulkDelete_RequiresConfirmAndIDs(t *testing.T) {
	fp := &fakePlatform{handle: gearList}
	ts := newGateway(t, fp)
	tok := token(t, testNow.Add(time.Hour))

	res := do(t, ts, http.MethodPost, "/v1/resources/gear/bulk/delete?parent=pkg-1", tok,
		map[string]any{"ids": []string{"g1"}}, nil)
	if res.StatusCode != http.StatusPreconditionRequired {
		t.Fatalf("expected 428 without confirm, got %d", res.StatusCode)
	}

	res = do(t, ts, http.MethodPost, "/v1/resources/gear/bulk/delete?parent=pkg-1", tok,
		map[string]any{"confirm": true}, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 on empty selection, got %d", res.StatusCode)
	}

	// gear is hard-delete only
	res = do(t, ts, http.MethodPost, "/v1/resources/gear/bulk/recover?parent=pkg-1", tok,
		map[string]any{"ids": []string{"g1"}}, nil)
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for recover on gear, got %d", res.StatusCode)
	}
	if fp.total() != 0 {
		t.Fatalf("rejected bulk actions must not reach the backend, got %d calls", fp.total())
	}
}

func TestList_ETagAndCache(t *testing.T) {
	fp := &fakePlatform{handle: gearList}
	ts := newGateway(t, fp)
	tok := token(t, testNow.Add(time.Hour))

	res := do(t, ts, http.MethodGet, "/v1/resources/gear/items?parent=pkg-1", tok, nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	etag := res.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	res = do(t, ts, http.MethodGet, "/v1/resources/gear/items?parent=pkg-1", tok, nil, map[string]string{"If-None-Match": etag})
	if res.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", res.StatusCode)
	}
	if n := fp.count(http.MethodGet, "/gear/pkg-1"); n != 1 {
		t.Fatalf("second read should come from cache, got %d backend reads", n)
	}
}

func TestList_UnknownResourceAndBadPage(t *testing.T) {
	ts := newGateway(t, &fakePlatform{})
	tok := token(t, testNow.Add(time.Hour))

	if res := do(t, ts, http.MethodGet, "/v1/resources/orders/items", tok, nil, nil); res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown resource, got %d", res.StatusCode)
	}
	if res := do(t, ts, http.MethodGet, "/v1/resources/blog/items?page=abc", tok, nil, nil); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad page, got %d", res.StatusCode)
	}
}

func TestReorder_FailureReturnsRollback(t *testing.T) {
	fp := &fakePlatform{handle: func(c backendCall, w http.ResponseWriter) {
		switch c.Method {
		case http.MethodGet:
			writeBody(w, 200, map[string]any{
				"data": []map[string]any{
					{"id": "t1", "title": "Go", "sortOrder": 1},
					{"id": "t2", "title": "Rust", "sortOrder": 2},
					{"id": "t3", "title": "Zig", "sortOrder": 3},
				},
				"total": 3,
			})
		default:
			writeBody(w, 500, map[string]any{"message": "db down"})
		}
	}}
	ts := newGateway(t, fp)

	res := do(t, ts, http.MethodPost, "/v1/resources/technology/reorder", token(t, testNow.Add(time.Hour)),
		map[string]any{"from": 2, "to": 0}, nil)
	if res.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.StatusCode)
	}
	var p struct {
		Detail   string           `json:"detail"`
		Rollback []map[string]any `json:"rollback"`
	}
	decode(t, res, &p)
	if len(p.Rollback) != 3 || p.Rollback[0]["id"] != "t1" || p.Rollback[2]["id"] != "t3" {
		t.Fatalf("expected pre-drag order, got %+v", p.Rollback)
	}
	if p.Detail != "db down" {
		t.Fatalf("expected backend message, got %q", p.Detail)
	}
	if n := fp.count(http.MethodPatch, "/technology/reorder"); n != 1 {
		t.Fatalf("expected one batch call, got %d", n)
	}
}

func TestYouTubeAndPreview(t *testing.T) {
	ts := newGateway(t, &fakePlatform{})
	tok := token(t, testNow.Add(time.Hour))

	res := do(t, ts, http.MethodGet, "/v1/media/youtube?url=https://youtu.be/dQw4w9WgXcQ", tok, nil, nil)
	var yt map[string]string
	decode(t, res, &yt)
	if res.StatusCode != http.StatusOK || yt["id"] != "dQw4w9WgXcQ" {
		t.Fatalf("unexpected youtube answer %d %+v", res.StatusCode, yt)
	}
	if res := do(t, ts, http.MethodGet, "/v1/media/youtube?url=https://vimeo.com/1", tok, nil, nil); res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for non-youtube link, got %d", res.StatusCode)
	}

	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		img.Set(x, 50, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "cover.png")
	_ = png.Encode(fw, img)
	_ = mw.Close()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/media/preview?width=50", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	pres, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	defer pres.Body.Close()
	if pres.StatusCode != http.StatusOK || pres.Header.Get("Content-Type") != "image/jpeg" {
		t.Fatalf("unexpected preview response %d %q", pres.StatusCode, pres.Header.Get("Content-Type"))
	}
	if pres.Header.Get("X-Image-Width") != "50" || pres.Header.Get("X-Image-Height") != "25" {
		t.Fatalf("unexpected size %sx%s", pres.Header.Get("X-Image-Width"), pres.Header.Get("X-Image-Height"))
	}
}

func TestContext_SwitchBrandAndLogout(t *testing.T) {
	fp := &fakePlatform{}
	ts := newGateway(t, fp)
	tok := token(t, testNow.Add(time.Hour))

	do(t, ts, http.MethodPut, "/v1/context", tok, map[string]string{"brandId": "b1", "categoryId": "c1"}, nil)
	res := do(t, ts, http.MethodPut, "/v1/context", tok, map[string]string{"brandId": "b2"}, nil)
	var sc map[string]string
	decode(t, res, &sc)
	if sc["brandId"] != "b2" || sc["categoryId"] != "" {
		t.Fatalf("switching brand should drop the category, got %+v", sc)
	}

	res = do(t, ts, http.MethodDelete, "/v1/auth/logout", tok, nil, nil)
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", res.StatusCode)
	}
	res = do(t, ts, http.MethodGet, "/v1/context", tok, nil, nil)
	sc = map[string]string{}
	decode(t, res, &sc)
	if sc["brandId"] != "" {
		t.Fatalf("logout should clear the context, got %+v", sc)
	}
}

func subcategoryWithCover(c backendCall, w http.ResponseWriter) {
	switch {
	case c.Method == http.MethodGet && c.Path == "/subcategory/s1":
		writeBody(w, 200, map[string]any{"data": map[string]any{
			"id": "s1", "title": "Tents", "categoryId": "c1", "coverImage": "https://cdn.example.com/tents.jpg",
		}})
	default:
		writeBody(w, 200, map[string]any{"data": map[string]any{"id": "s1"}})
	}
}

func TestUpdate_ClearedCoverIsSignalled(t *testing.T) {
	fp := &fakePlatform{handle: subcategoryWithCover}
	ts := newGateway(t, fp)
	tok := token(t, testNow.Add(time.Hour))

	res := do(t, ts, http.MethodPut, "/v1/resources/subcategory/items/s1", tok, map[string]any{
		"title": "Tents", "categoryId": "c1", "coverImage": "https://cdn.example.com/tents.jpg",
		"remove": []string{"coverImage"},
	}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", res.StatusCode)
	}
	c, ok := fp.find(http.MethodPut, "/subcategory/s1")
	if !ok {
		t.Fatalf("expected PUT /subcategory/s1, got %+v", fp.calls)
	}
	urls, _ := c.Body["removeUrls"].([]any)
	if len(urls) != 1 || urls[0] != "https://cdn.example.com/tents.jpg" {
		t.Fatalf("cleared cover not sent for removal: %+v", c.Body)
	}
	if _, ok := c.Body["coverImage"]; ok {
		t.Fatalf("cleared cover must not be sent back: %+v", c.Body)
	}
	if _, ok := c.Body["removedMediaIds"]; ok {
		t.Fatalf("subcategory has no media ids: %+v", c.Body)
	}
}

func TestUpdate_ReplacedCoverSendsOnlyTheFile(t *testing.T) {
	fp := &fakePlatform{handle: subcategoryWithCover}
	ts := newGateway(t, fp)
	tok := token(t, testNow.Add(time.Hour))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("data", `{"title":"Tents","categoryId":"c1"}`)
	_ = mw.WriteField("remove", "coverImage")
	fw, _ := mw.CreateFormFile("coverImage", "new.jpg")
	_, _ = fw.Write([]byte("jpeg"))
	_ = mw.Close()

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/v1/resources/subcategory/items/s1", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", res.StatusCode)
	}

	c, ok := fp.find(http.MethodPut, "/subcategory/s1")
	if !ok {
		t.Fatalf("expected PUT /subcategory/s1, got %+v", fp.calls)
	}
	if !strings.HasPrefix(c.ContentType, "multipart/form-data") {
		t.Fatalf("expected multipart upload, got %q", c.ContentType)
	}
	if got := c.Parts["coverImage"]; len(got) != 1 || got[0] != "new.jpg" {
		t.Fatalf("replacement file not forwarded: %+v", c.Parts)
	}
	for _, k := range []string{"removeUrls", "removeUrls[]"} {
		if _, ok := c.Parts[k]; ok {
			t.Fatalf("a replaced cover must not be removed: %+v", c.Parts)
		}
	}
}

func TestList_PastLastPageShowsLastPage(t *testing.T) {
	fp := &fakePlatform{handle: func(c backendCall, w http.ResponseWriter) {
		if c.Query.Get("page") != "2" {
			writeBody(w, 200, map[string]any{"data": []any{}, "pagination": map[string]any{"totalPages": 2}})
			return
		}
		writeBody(w, 200, map[string]any{
			"data":       []map[string]any{{"_id": "g11", "title": "Lamp"}},
			"pagination": map[string]any{"totalPages": 2, "page": 2},
		})
	}}
	ts := newGateway(t, fp)

	res := do(t, ts, http.MethodGet, "/v1/resources/gear/items?parent=pkg-1&page=9&limit=10", token(t, testNow.Add(time.Hour)), nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var v struct {
		Rows       []map[string]any `json:"rows"`
		Pagination struct {
			Page       int  `json:"page"`
			TotalPages int  `json:"totalPages"`
			HasNext    bool `json:"hasNext"`
		} `json:"pagination"`
	}
	decode(t, res, &v)
	if len(v.Rows) != 1 || v.Pagination.Page != 2 || v.Pagination.TotalPages != 2 || v.Pagination.HasNext {
		t.Fatalf("expected the last page with its rows, got %+v", v)
	}
	if n := fp.count(http.MethodGet, "/gear/pkg-1"); n != 2 {
		t.Fatalf("expected the out-of-range read and one refetch, got %d", n)
	}
}

func TestSelection_DeletedListingHasItsOwn(t *testing.T) {
	ts := newGateway(t, &fakePlatform{})
	tok := token(t, testNow.Add(time.Hour))

	res := do(t, ts, http.MethodPost, "/v1/resources/faq/selection", tok,
		map[string]any{"op": "select", "ids": []string{"f1", "f2"}}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("select: expected 200, got %d", res.StatusCode)
	}

	var sel struct {
		Count int `json:"count"`
	}
	decode(t, do(t, ts, http.MethodGet, "/v1/resources/faq/selection?deleted=true", tok, nil, nil), &sel)
	if sel.Count != 0 {
		t.Fatalf("deleted listing must not see the live selection, got %d", sel.Count)
	}
	decode(t, do(t, ts, http.MethodGet, "/v1/resources/faq/selection", tok, nil, nil), &sel)
	if sel.Count != 2 {
		t.Fatalf("live selection lost, got %d", sel.Count)
	}
}
