package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/cargo-manager/internal/config"
	"github.com/ytget/cargo-manager/internal/model"
)

const cratesBody = `{
  "crates": [
    {"name": "serde_json", "description": "A JSON serialization file format", "max_version": "1.0.128", "downloads": 300},
    {"name": "serde", "description": "A generic serialization/deserialization framework", "max_version": "1.0.210", "downloads": 400}
  ],
  "meta": {"total": 120}
}`

// newRegistry starts a fake registry and writes a config file pointing at it
func newRegistry(t *testing.T, body string, status int) (configPath string, queries *[]string) {
	t.Helper()
	seen := []string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Query().Get("q")+"|"+r.URL.Query().Get("per_page"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	configPath = filepath.Join(t.TempDir(), "config.toml")
	content := fmt.Sprintf("[registry]\nurl = %q\nuser_agent = \"cargo-manager-test\"\n", srv.URL)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath, &seen
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommandPrintsTable(t *testing.T) {
	cfgPath, queries := newRegistry(t, cratesBody, http.StatusOK)

	out, err := execute(t, "search", "serde", "--config", cfgPath, "--sort", "name", "--limit", "10")
	require.NoError(t, err)

	assert.Equal(t, []string{"serde|10"}, *queries)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasPrefix(lines[1], "serde "), "exact match sorts first: %q", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "serde_json"))
	assert.Contains(t, lines[1], "1.0.210")
	assert.Contains(t, out, "Showing 2 of 120 crates")
}

func TestSearchCommandJoinsArgs(t *testing.T) {
	cfgPath, queries := newRegistry(t, `{"crates": [], "meta": {"total": 0}}`, http.StatusOK)

	out, err := execute(t, "search", "async", "runtime", "--config", cfgPath)
	require.NoError(t, err)

	require.Len(t, *queries, 1)
	assert.True(t, strings.HasPrefix((*queries)[0], "async runtime|"))
	assert.Contains(t, out, `No crates found for "async runtime"`)
}

func TestSearchCommandRegistryError(t *testing.T) {
	cfgPath, _ := newRegistry(t, `{"errors":[{"detail":"rate limited"}]}`, http.StatusTooManyRequests)

	_, err := execute(t, "search", "serde", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestSearchCommandRejectsUnknownSort(t *testing.T) {
	_, err := execute(t, "search", "serde", "--sort", "stars")
	require.Error(t, err)
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	_, err := execute(t, "search")
	require.Error(t, err)
}

type blockingSearcher struct{}

func (blockingSearcher) Search(ctx context.Context, _ string, _ int) ([]model.Crate, int, error) {
	<-ctx.Done()
	return nil, 0, ctx.Err()
}

func TestSearchOnceHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := searchOnce(ctx, blockingSearcher{}, "serde", config.Default().Search)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate(strings.Repeat("é", 20), 10))
}
