package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/sleuth/pkg/casestore"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
	"github.com/codeGROOVE-dev/sleuth/pkg/scanner"
)

type fakeScanner struct {
	err    error
	query  string
	filter *result.Filter
}

func (f *fakeScanner) Scan(_ context.Context, query string, filter *result.Filter) ([]*result.SearchResult, error) {
	f.query, f.filter = query, filter
	if f.err != nil {
		return nil, f.err
	}
	if strings.TrimSpace(query) == "" {
		return nil, scanner.ErrEmptyQuery
	}
	r := result.New("https://github.com/" + query)
	r.Title = query
	return []*result.SearchResult{r}, nil
}

type memStore struct {
	mu    sync.Mutex
	cases map[string]*result.SearchCase
}

func (m *memStore) Save(_ context.Context, c *result.SearchCase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cases == nil {
		m.cases = map[string]*result.SearchCase{}
	}
	m.cases[c.ID] = c
	return nil
}

func (m *memStore) Load(_ context.Context, id string) (*result.SearchCase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cases[id]
	if !ok {
		return nil, casestore.ErrNotFound
	}
	return c, nil
}

func (m *memStore) List(context.Context) ([]casestore.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []casestore.Summary{}
	for _, c := range m.cases {
		out = append(out, casestore.Summary{ID: c.ID, Name: c.Name, Query: c.Query, ResultCount: len(c.Results)})
	}
	return out, nil
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, NewHandler(&fakeScanner{}).Router(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("GET /health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestScan(t *testing.T) {
	s := &fakeScanner{}
	h := NewHandler(s).Router()

	rec := do(t, h, http.MethodPost, "/scan", `{"query":"jonsmith","filter":{"hide_adult":true,"min_confidence":0.5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /scan = %d: %s", rec.Code, rec.Body.String())
	}
	var resp ScanResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].URL != "https://github.com/jonsmith" {
		t.Errorf("results = %+v", resp.Results)
	}
	want := &result.Filter{HideAdult: true, MinConfidence: 0.5}
	if diff := cmp.Diff(want, s.filter); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		body string
		want int
	}{
		{"bad json", nil, `{`, http.StatusBadRequest},
		{"empty query", nil, `{"query":"  "}`, http.StatusBadRequest},
		{"scanner failure", errors.New("boom"), `{"query":"jon"}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, NewHandler(&fakeScanner{err: tt.err}).Router(), http.MethodPost, "/scan", tt.body)
			if rec.Code != tt.want {
				t.Errorf("POST /scan = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCases(t *testing.T) {
	store := &memStore{}
	h := NewHandler(&fakeScanner{}, WithStore(store)).Router()

	rec := do(t, h, http.MethodPost, "/cases", `{"name":"probe","query":"jonsmith"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /cases = %d: %s", rec.Code, rec.Body.String())
	}
	var created result.SearchCase
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode case: %v", err)
	}
	if created.Name != "probe" || len(created.Results) != 1 {
		t.Errorf("created case = %+v", created)
	}

	rec = do(t, h, http.MethodGet, "/cases/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /cases/{id} = %d", rec.Code)
	}
	var loaded result.SearchCase
	if err := json.NewDecoder(rec.Body).Decode(&loaded); err != nil {
		t.Fatalf("decode case: %v", err)
	}
	if loaded.ID != created.ID || loaded.Query != "jonsmith" {
		t.Errorf("loaded case = %+v", loaded)
	}

	rec = do(t, h, http.MethodGet, "/cases", "")
	var list []casestore.Summary
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || list[0].ResultCount != 1 {
		t.Errorf("GET /cases = %+v", list)
	}

	if rec := do(t, h, http.MethodGet, "/cases/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET /cases/missing = %d, want 404", rec.Code)
	}
}

func TestCasesWithoutStore(t *testing.T) {
	h := NewHandler(&fakeScanner{}).Router()
	for _, path := range []string{"/cases", "/cases/abc"} {
		if rec := do(t, h, http.MethodGet, path, ""); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s = %d, want 503", path, rec.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/scan", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	NewHandler(&fakeScanner{}).Router().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
