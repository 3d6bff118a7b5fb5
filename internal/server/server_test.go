package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/msalah0e/skillgraph/internal/catalog"
	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/metrics"
	"github.com/msalah0e/skillgraph/internal/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	src, err := catalog.New(catalog.Document{
		Management:   []catalog.Entry{{Name: "Alpha", Projects: []string{"p1"}}, {Name: "Beta"}},
		DevTech:      []catalog.Entry{{Name: "Gamma"}},
		Project:      []catalog.Entry{{ID: "p1", Name: "Project One"}},
		Relationship: []catalog.Relationship{{Source: "alpha", Target: "gamma"}},
	})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Render.Width, cfg.Render.Height = 400, 300
	cfg.Render.Ticks = 30
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(graph.NewBuilder(src), cfg, nil, metrics.New())
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	w := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGraphEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	var base struct {
		Nodes    []graph.Node `json:"nodes"`
		Extended bool         `json:"extended"`
	}
	w := get(t, s, "/api/graph")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &base))
	assert.False(t, base.Extended)

	var ext struct {
		Nodes    []graph.Node `json:"nodes"`
		Extended bool         `json:"extended"`
	}
	w = get(t, s, "/api/graph?extended=true")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ext))
	assert.True(t, ext.Extended)
	assert.Greater(t, len(ext.Nodes), len(base.Nodes))
}

func TestNodeEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(t, s, "/api/nodes/alpha")
	require.Equal(t, http.StatusOK, w.Code)
	var d panel.Details
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "Alpha", d.Name)
	require.NotEmpty(t, d.Connections)
	assert.Equal(t, panel.SectionProjects, d.Connections[0].Title)

	w = get(t, s, "/api/nodes/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown node")

	// Portfolio nodes only exist in the extended dataset.
	w = get(t, s, "/api/nodes/p1?extended=false")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "only in the extended dataset")
}

func TestSearchEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(t, s, "/api/search?q=gamma")
	require.Equal(t, http.StatusOK, w.Code)
	var hits []graph.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, "gamma", hits[0].Node.ID)

	w = get(t, s, "/api/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshots(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(t, s, "/graph.svg?selected=alpha&labels=false&zoom=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(w.Body.String()), "<?xml"))
	assert.Contains(t, w.Body.String(), "Alpha")

	w = get(t, s, "/graph.png?extended=true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String()[:4])
}

func TestSnapshotRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Serve.RateLimit = 0.001
		c.Serve.Burst = 1
	})

	assert.Equal(t, http.StatusOK, get(t, s, "/graph.svg").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, s, "/graph.svg").Code)
	// JSON routes are not limited.
	assert.Equal(t, http.StatusOK, get(t, s, "/api/graph").Code)
}

func TestPage(t *testing.T) {
	s := newTestServer(t, nil)

	w := get(t, s, "/?extended=true")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Skill Graph")
	assert.Contains(t, body, "Project One")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	get(t, s, "/healthz")
	get(t, s, "/api/nodes/nope")

	w := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `skillgraph_http_requests_total{code="200",route="/healthz"} 1`)
	assert.Contains(t, body, `skillgraph_http_requests_total{code="404",route="/api/nodes/:id"} 1`)
}

func TestClampZoomSteps(t *testing.T) {
	tests := map[string]struct {
		in, want int
	}{
		"none":     {in: 0, want: 0},
		"in":       {in: 3, want: 3},
		"out":      {in: -2, want: -2},
		"huge in":  {in: 30000000, want: 9},
		"huge out": {in: -30000000, want: -4},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, clampZoomSteps(tc.in))
		})
	}
}

func TestPageHugeZoom(t *testing.T) {
	s := newTestServer(t, nil)

	start := time.Now()
	w := get(t, s, "/?zoom=30000000")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestPageRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Serve.RateLimit = 0.001
		c.Serve.Burst = 1
	})

	assert.Equal(t, http.StatusOK, get(t, s, "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, s, "/").Code)
}
