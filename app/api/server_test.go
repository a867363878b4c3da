package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, writeFiles bool) http.Handler {
	t.Helper()

	dir := t.TempDir()
	feedPath := filepath.Join(dir, "feed.xml")
	indexPath := filepath.Join(dir, "index.html")

	if writeFiles {
		require.NoError(t, os.WriteFile(feedPath, []byte(`<rss version="2.0"></rss>`), 0o644))
		require.NoError(t, os.WriteFile(indexPath, []byte(`<html>index</html>`), 0o644))
	}

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_runs_total", Help: "Runs."})
	registry.MustRegister(counter)
	counter.Inc()

	return NewServer(NewHandler(feedPath, indexPath, "test", registry))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(w, req)
	return w
}

func TestServerServesArtifacts(t *testing.T) {
	h := newTestServer(t, true)

	w := get(t, h, "/feed.xml")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `<rss version="2.0"></rss>`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Last-Modified"))

	for _, path := range []string{"/", "/index.html"} {
		w = get(t, h, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `<html>index</html>`, w.Body.String())
	}
}

func TestServerMissingArtifacts(t *testing.T) {
	h := newTestServer(t, false)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/feed.xml").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/health").Code)
}

func TestServerHealth(t *testing.T) {
	h := newTestServer(t, true)

	w := get(t, h, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test", body["version"])
	assert.Contains(t, body, "feed_updated_at")
	assert.EqualValues(t, 25, body["feed_bytes"])
}

func TestServerMetrics(t *testing.T) {
	h := newTestServer(t, true)

	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "feed_runs_total 1")
}

func TestServerFavicon(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, get(t, newTestServer(t, false), "/favicon.ico").Code)
}
