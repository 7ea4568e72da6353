package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "crates": [
    {"name": "serde", "description": "A generic serialization/deserialization framework",
     "max_version": "1.0.210", "downloads": 400000000, "repository": "https://github.com/serde-rs/serde",
     "documentation": "https://docs.rs/serde", "updated_at": "2024-09-06T20:00:00.000000+00:00"},
    {"name": "serde_json", "description": null, "max_version": "", "newest_version": "1.0.128",
     "downloads": 300000000, "repository": null, "documentation": null,
     "updated_at": "2024-09-01T10:00:00.000000+00:00"}
  ],
  "meta": {"total": 2478}
}`

func TestSearch_DecodesCrates(t *testing.T) {
	var gotQuery, gotPerPage, gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotPerPage = r.URL.Query().Get("per_page")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "cargo-manager-test")
	crates, total, err := c.Search(context.Background(), "serde", 64)
	require.NoError(t, err)

	assert.Equal(t, SearchPath, gotPath)
	assert.Equal(t, "serde", gotQuery)
	assert.Equal(t, "64", gotPerPage)
	assert.Equal(t, "cargo-manager-test", gotUA)

	require.Len(t, crates, 2)
	assert.Equal(t, 2478, total)
	assert.Equal(t, "serde", crates[0].Name)
	assert.Equal(t, "1.0.210", crates[0].MaxVersion)
	assert.Equal(t, "https://docs.rs/serde", crates[0].Documentation)
	assert.Equal(t, int64(400000000), crates[0].Downloads)
	assert.Equal(t, 2024, crates[0].UpdatedAt.Year())

	assert.Equal(t, "", crates[1].Description)
	assert.Equal(t, "1.0.128", crates[1].MaxVersion, "falls back to newest_version")
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"crates": [], "meta": {"total": 0}}`))
	}))
	defer srv.Close()

	crates, total, err := NewClient(srv.URL, "").Search(context.Background(), "zzzz-no-such-crate", 10)
	require.NoError(t, err)
	require.NotNil(t, crates)
	assert.Empty(t, crates)
	assert.Zero(t, total)
}

func TestSearch_EmptyQueryIsForwarded(t *testing.T) {
	seen := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = r.URL.Query()["q"]
		_, _ = w.Write([]byte(`{"crates": [], "meta": {"total": 0}}`))
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, "").Search(context.Background(), "", 10)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSearch_RegistryErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":[{"detail":"We require that all requests include a User-Agent header."}]}`))
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, "").Search(context.Background(), "serde", 10)
	require.Error(t, err)

	var regErr *Error
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, http.StatusForbidden, regErr.StatusCode)
	assert.Contains(t, regErr.Detail, "User-Agent")
	assert.False(t, regErr.Temporary())
}

func TestSearch_PlainTextErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, "").Search(context.Background(), "serde", 10)

	var regErr *Error
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, "upstream unavailable", regErr.Detail)
	assert.True(t, regErr.Temporary())
	assert.Contains(t, regErr.Error(), "502")
}

func TestNewError_LongPlainBodyKeepsWholeRunes(t *testing.T) {
	body := []byte(strings.Repeat("ж", MaxDetailRunes+50))

	e := newError(http.StatusBadGateway, body)
	require.True(t, utf8.ValidString(e.Detail))
	assert.Equal(t, strings.Repeat("ж", MaxDetailRunes)+"...", e.Detail)

	short := newError(http.StatusBadGateway, []byte("  bad gateway  "))
	assert.Equal(t, "bad gateway", short.Detail)
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"crates": [`))
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, "").Search(context.Background(), "serde", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode search response")
}

func TestSearch_HonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := NewClient(srv.URL, "").Search(ctx, "serde", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 1, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-5))
	assert.Equal(t, 64, ClampLimit(64))
	assert.Equal(t, MaxPageSize, ClampLimit(1000))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	c = NewClient("https://example.com/", "ua", WithTimeout(time.Second))
	assert.Equal(t, "https://example.com", c.BaseURL())
	assert.Equal(t, time.Second, c.httpClient.Timeout)
}
