package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/seqsee/pkg/cache"
	"github.com/matzehuels/seqsee/pkg/observability"
	"github.com/matzehuels/seqsee/pkg/pipeline"
)

const validChart = `{
	"header": {"metadata": {"title": "E2"}},
	"nodes": {"a": {"x": 0, "y": 0}, "b": {"x": 1, "y": 1, "label": "h0"}},
	"edges": [{"source": "a", "target": "b"}]
}`

const danglingChart = `{"nodes": {"a": {"x": 0, "y": 0}}, "edges": [{"source": "a", "target": "zz"}]}`

const yamlChart = `
nodes:
  a: {x: 0, y: 0}
  b: {x: 1, y: 1}
edges:
  - {source: a, target: b}
`

func newTestServer(t *testing.T, cfg Config) (*Server, *miniredis.Miniredis) {
	t.Helper()
	t.Cleanup(observability.Reset)

	mr := miniredis.RunT(t)
	c := cache.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(c, nil, logger)
	t.Cleanup(func() { _ = runner.Close() })

	return New(cfg, runner, logger), mr
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := do(t, s, http.MethodGet, "/healthz", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Server"), "seqsee/"))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestRequestIDEchoed(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestRenderSVGCaches(t *testing.T) {
	s, mr := newTestServer(t, Config{})

	rec := do(t, s, http.MethodPost, "/v1/render?format=svg", "application/json", validChart)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get(HeaderCache))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "<title>h0</title>")
	assert.NotEmpty(t, mr.Keys(), "artifacts are stored in redis")

	again := do(t, s, http.MethodPost, "/v1/render?format=svg", "application/json", validChart)
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "hit", again.Header().Get(HeaderCache))
	assert.Equal(t, rec.Body.String(), again.Body.String())

	refreshed := do(t, s, http.MethodPost, "/v1/render?format=svg&refresh=true", "application/json", validChart)
	assert.Equal(t, "miss", refreshed.Header().Get(HeaderCache))
}

func TestRenderDefaultsToHTML(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/v1/render", "", validChart)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>E2</title>")
}

func TestRenderInputFormats(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	tests := []struct {
		name        string
		target      string
		contentType string
	}{
		{"content type", "/v1/render?format=json", "application/yaml"},
		{"content type with params", "/v1/render?format=json", "text/yaml; charset=utf-8"},
		{"query", "/v1/render?format=json&input=yaml", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.contentType, yamlChart)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), `"charts"`)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		target string
		body   string
		status int
		code   string
	}{
		{"bad format", Config{}, "/v1/render?format=png", validChart, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad input format", Config{}, "/v1/render?input=xml", validChart, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad bool", Config{}, "/v1/render?grid=maybe", validChart, http.StatusBadRequest, "INVALID_INPUT"},
		{"dangling", Config{}, "/v1/render", danglingChart, http.StatusUnprocessableEntity, "DANGLING_REFERENCE"},
		{"schema", Config{}, "/v1/render", `{"nodes": 3}`, http.StatusUnprocessableEntity, "SCHEMA_VIOLATION"},
		{"file reference", Config{}, "/v1/render", `{"charts": ["e3.json"]}`, http.StatusBadRequest, "UNSUPPORTED"},
		{"too large", Config{MaxBodyBytes: 16}, "/v1/render", validChart, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.cfg)
			rec := do(t, s, http.MethodPost, tt.target, "", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			e := decodeError(t, rec)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.Message)
			assert.Equal(t, rec.Header().Get(HeaderRequestID), e.RequestID)
		})
	}
}

func TestRenderPartialFailure(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	body := `{"charts": [` + validChart + `, ` + danglingChart + `]}`
	rec := do(t, s, http.MethodPost, "/v1/render?format=svg", "", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get(HeaderFailedCharts))
}

func TestLayout(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	body := `{"charts": [` + validChart + `, ` + danglingChart + `]}`
	rec := do(t, s, http.MethodPost, "/v1/layout", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Document struct {
			Charts []struct {
				Nodes []json.RawMessage `json:"nodes"`
			} `json:"charts"`
		} `json:"document"`
		Charts []chartStatus `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Document.Charts, 1)
	assert.Len(t, resp.Document.Charts[0].Nodes, 2)

	require.Len(t, resp.Charts, 2)
	assert.True(t, resp.Charts[0].OK)
	assert.Equal(t, "E2", resp.Charts[0].Name)
	assert.False(t, resp.Charts[1].OK)
	require.NotNil(t, resp.Charts[1].Error)
	assert.Equal(t, "DANGLING_REFERENCE", resp.Charts[1].Error.Code)
}

func TestLayoutKeepsUndecodableChart(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	body := `{"charts": [{"nodes": {"a": {}}}, ` + validChart + `]}`
	rec := do(t, s, http.MethodPost, "/v1/layout", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp layoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Charts, 2)
	assert.False(t, resp.Charts[0].OK)
	assert.Equal(t, 0, resp.Charts[0].Index)
	require.NotNil(t, resp.Charts[0].Error)
	assert.Equal(t, "SCHEMA_VIOLATION", resp.Charts[0].Error.Code)
	assert.True(t, resp.Charts[1].OK)
	assert.Equal(t, 1, resp.Charts[1].Index)
	assert.Equal(t, "E2", resp.Charts[1].Name)
}

func TestValidate(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	rec := do(t, s, http.MethodPost, "/v1/validate", "", validChart)
	require.Equal(t, http.StatusOK, rec.Code)
	var ok validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.True(t, ok.Valid)

	rec = do(t, s, http.MethodPost, "/v1/validate", "", `{"charts": [`+validChart+`, `+danglingChart+`]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var bad validateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bad))
	assert.False(t, bad.Valid)
	require.Len(t, bad.Charts, 2)
	assert.Equal(t, "chart 1", bad.Charts[1].Name)
	assert.Equal(t, "DANGLING_REFERENCE", bad.Charts[1].Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	do(t, s, http.MethodPost, "/v1/render?format=svg", "", validChart)
	do(t, s, http.MethodPost, "/v1/render?format=svg", "", danglingChart)

	rec := do(t, s, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `seqsee_http_requests_total{method="POST",route="/v1/render",status="200"} 1`)
	assert.Contains(t, body, `seqsee_http_errors_total{code="DANGLING_REFERENCE",route="/v1/render"} 1`)
	assert.Contains(t, body, `seqsee_prepare_total{result="ok"} 1`)
	assert.Contains(t, body, `seqsee_cache_events_total{event="miss",kind="layout"}`)
	assert.Contains(t, body, "go_goroutines")
}

func TestListenAndServeShutsDown(t *testing.T) {
	s, _ := newTestServer(t, Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
