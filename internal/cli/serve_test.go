package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crator-sh/crator/pkg/cache"
	"github.com/crator-sh/crator/pkg/crates"
	"github.com/crator-sh/crator/pkg/errors"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	return New(io.Discard, LogInfo)
}

func TestHealthz(t *testing.T) {
	c := newTestCLI(t)
	handler := c.routes(cache.NewNullCache())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestServeCachedRecord(t *testing.T) {
	c := newTestCLI(t)

	// Pre-seed the cache so the handler never reaches the registry.
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	want := crates.Record{
		Name:           "serde",
		Latest:         "1.0.193",
		Downloads:      "298.5m",
		TotalDownloads: 298457123,
		Versions:       3,
		CreatedAt:      "2014-11-05T21:44:27.022296+00:00",
		UpdatedAt:      "2023-12-26T01:56:20.914296+00:00",
		License:        "MIT OR Apache-2.0",
	}
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.Background(), cache.Key("crate", "serde"), data, time.Hour); err != nil {
		t.Fatal(err)
	}

	handler := c.routes(store)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/crates/serde", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("X-Cache header = %q, want hit", got)
	}

	var got crates.Record
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got != want {
		t.Errorf("record = %+v, want %+v", got, want)
	}
}

func TestServeInvalidName(t *testing.T) {
	c := newTestCLI(t)
	handler := c.routes(cache.NewNullCache())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/crates/bad..name", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body apiError
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != string(errors.ErrCodeInvalidCrate) {
		t.Errorf("code = %q, want %q", body.Code, errors.ErrCodeInvalidCrate)
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid crate", errors.New(errors.ErrCodeInvalidCrate, "bad name"), http.StatusBadRequest},
		{"invalid input", errors.New(errors.ErrCodeInvalidInput, "bad input"), http.StatusBadRequest},
		{"registry 404", errors.Wrap(errors.ErrCodeHTTP, &errors.StatusError{Status: 404}, "not found"), http.StatusNotFound},
		{"registry 500", errors.Wrap(errors.ErrCodeHTTP, &errors.StatusError{Status: 500}, "upstream down"), http.StatusBadGateway},
		{"connection", errors.New(errors.ErrCodeConnection, "refused"), http.StatusBadGateway},
		{"parse", errors.New(errors.ErrCodeParse, "malformed"), http.StatusBadGateway},
		{"path not found", errors.New(errors.ErrCodePathNotFound, "missing field"), http.StatusBadGateway},
		{"format", errors.New(errors.ErrCodeFormat, "wrong kind"), http.StatusBadGateway},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestLookupSetsCacheAfterMiss(t *testing.T) {
	// A cached record round-trips through lookup without any retrieval.
	c := newTestCLI(t)
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	want := &crates.Record{Name: "tokio", Latest: "1.38.0", Versions: 250}
	data, _ := json.Marshal(want)
	if err := store.Set(context.Background(), cache.Key("crate", "tokio"), data, time.Hour); err != nil {
		t.Fatal(err)
	}

	rec, cached, err := c.lookup(context.Background(), store, c.newClient(), "tokio", false)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !cached {
		t.Error("cached = false, want true")
	}
	if rec.Latest != want.Latest {
		t.Errorf("Latest = %q, want %q", rec.Latest, want.Latest)
	}
}

func TestLookupInvalidName(t *testing.T) {
	c := newTestCLI(t)
	_, _, err := c.lookup(context.Background(), cache.NewNullCache(), c.newClient(), "../x", false)
	if !errors.Is(err, errors.ErrCodeInvalidCrate) {
		t.Errorf("error = %v, want %q", err, errors.ErrCodeInvalidCrate)
	}
}
