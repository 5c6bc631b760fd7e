package httpcache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func unlimited() Option { return WithRateLimit(rate.Inf, 1) }

func TestKey(t *testing.T) {
	a, b := Key("https://example.com/a", false), Key("https://example.com/b", false)
	if a == b {
		t.Error("Key produced the same key for different URLs")
	}
	if len(a) != 64 {
		t.Errorf("len(Key) = %d, want 64", len(a))
	}
	if Key("https://example.com/a", true) == a {
		t.Error("authenticated and anonymous fetches share a key")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			fmt.Fprintf(w, "ua=%s", r.Header.Get("User-Agent"))
		case "/created":
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, "made")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(unlimited())
	ctx := context.Background()

	body, err := f.Fetch(ctx, srv.URL+"/ok")
	if err != nil {
		t.Fatalf("Fetch(/ok) error = %v", err)
	}
	if got, want := string(body), "ua="+UserAgent; got != want {
		t.Errorf("Fetch(/ok) = %q, want %q", got, want)
	}

	if body, err := f.Fetch(ctx, srv.URL+"/created"); err != nil || string(body) != "made" {
		t.Errorf("Fetch(/created) = %q, %v; want made, nil", body, err)
	}

	_, err = f.Fetch(ctx, srv.URL+"/missing")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("Fetch(/missing) error = %v, want *HTTPError 404", err)
	}

	if _, err := f.Fetch(ctx, "ftp://example.com/file"); err == nil {
		t.Error("Fetch(ftp) succeeded, want error")
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := NewFetcher(unlimited(), WithTimeout(50*time.Millisecond))
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch() succeeded, want timeout error")
	}
}

func TestFetchCachesSuccessOnly(t *testing.T) {
	var hits atomic.Int32
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "page")
	}))
	defer srv.Close()

	cache, err := NewWithPath(time.Hour, t.TempDir())
	if err != nil {
		t.Fatalf("NewWithPath() error = %v", err)
	}
	f := NewFetcher(unlimited(), WithHTTPCache(cache))
	ctx := context.Background()

	for range 2 {
		body, err := f.Fetch(ctx, srv.URL+"/cached")
		if err != nil || string(body) != "page" {
			t.Fatalf("Fetch() = %q, %v; want page, nil", body, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits after cached fetches = %d, want 1", got)
	}

	fail.Store(true)
	for range 2 {
		if _, err := f.Fetch(ctx, srv.URL+"/broken"); err == nil {
			t.Fatal("Fetch(/broken) succeeded, want error")
		}
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hits after failing fetches = %d, want 3", got)
	}
}

func TestFetchSendsCookies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, c.Value)
	}))
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: "abc"}})

	f := NewFetcher(unlimited(), WithCookieJar(jar))
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil || string(body) != "abc" {
		t.Errorf("Fetch() = %q, %v; want abc, nil", body, err)
	}
}

func TestHostLimiter(t *testing.T) {
	h := newHostLimiter(rate.Every(time.Hour), 1)
	ctx := context.Background()
	if err := h.Wait(ctx, "a.example"); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}
	if err := h.Wait(ctx, "b.example"); err != nil {
		t.Fatalf("Wait() on another host error = %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := h.Wait(ctx, "a.example"); err == nil {
		t.Error("second Wait() on the same host succeeded, want error")
	}
}

func TestStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "12345")
	}))
	defer srv.Close()

	cache, err := NewWithPath(time.Hour, t.TempDir())
	if err != nil {
		t.Fatalf("NewWithPath() error = %v", err)
	}
	f := NewFetcher(unlimited(), WithHTTPCache(cache))
	ctx := context.Background()

	ResetStats()
	for range 3 {
		f.Fetch(ctx, srv.URL+"/page") //nolint:errcheck,gosec // counted below
	}
	f.Fetch(ctx, srv.URL+"/gone") //nolint:errcheck,gosec // counted below

	want := Stats{Hits: 2, Misses: 2, Errors: 1, Bytes: 5}
	if got := CacheStats(); got != want {
		t.Errorf("CacheStats() = %+v, want %+v", got, want)
	}
}

func TestNullCacheKeepsNothingOnDisk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "page")
	}))
	defer srv.Close()

	c := NewNull()
	if c.TTL() != 0 {
		t.Errorf("TTL() = %v, want 0", c.TTL())
	}
	body, err := NewFetcher(unlimited(), WithHTTPCache(c)).Fetch(context.Background(), srv.URL)
	if err != nil || string(body) != "page" {
		t.Errorf("Fetch() = %q, %v; want page, nil", body, err)
	}
}
