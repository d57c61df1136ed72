package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/subconv/internal/api/handler"
	"github.com/creamcroissant/subconv/internal/cache"
	"github.com/creamcroissant/subconv/internal/config"
	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			MaxBodyBytes: 1 << 16,
			CORSOrigins:  []string{"*"},
		},
		RateLimit: config.RateLimitConfig{Enabled: true, Limit: 100, Window: time.Minute},
		Metrics:   config.MetricsConfig{Enabled: true, Namespace: "subconv"},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := cache.NewStore(cache.Options{DefaultTTL: time.Minute})
	reg := prometheus.NewRegistry()
	svc := service.NewConversionService(service.ConversionOptions{Cache: store, Logger: logger})
	return NewRouter(logger, Services{Conversion: svc, Cache: store, Metrics: reg}, cfg)
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestConvertEndpointPlainText(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(convert.SampleInput))
	req.Header.Set("Content-Type", "text/plain")
	rec := do(t, router, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))

	var resp handler.ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Outcomes, 4)
	assert.Equal(t, "example-vless", resp.Outcomes[1].Proxy.Name)
	assert.Equal(t, "Invalid VMess config: missing required fields (ps, add, port, id).", resp.Outcomes[3].Reason)
	assert.Contains(t, resp.Document, "proxies:")
}

func TestConvertEndpointJSONBody(t *testing.T) {
	router := newTestRouter(t, testConfig())
	body, _ := json.Marshal(map[string]string{"text": "ftp://nope\n\n"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := do(t, router, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "all_failed", resp.Status)
	assert.Equal(t, "No valid configurations found. Check the log for details.", resp.Message)
	assert.Empty(t, resp.Document)
}

func TestConvertEndpointBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, newTestRouter(t, testConfig()), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertEndpointBodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.MaxBodyBytes = 16
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(strings.Repeat("x", 64)))
	rec := do(t, newTestRouter(t, cfg), req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestYAMLEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := do(t, router, httptest.NewRequest(http.MethodPost, "/api/v1/convert/yaml", strings.NewReader(convert.SampleInput)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/yaml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `"`+service.ReportKey(convert.SampleInput)+`"`, rec.Header().Get("ETag"))
	assert.Equal(t, "3", rec.Header().Get("X-Subconv-Succeeded"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "proxies:\n"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert/yaml", strings.NewReader(convert.SampleInput))
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	rec = do(t, router, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestYAMLEndpointProfile(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), httptest.NewRequest(http.MethodPost, "/api/v1/convert/yaml?profile=1", strings.NewReader(convert.SampleInput)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "proxy-groups:")
	assert.Contains(t, rec.Body.String(), "MATCH,Proxy")
	assert.True(t, strings.HasSuffix(rec.Header().Get("ETag"), `-profile"`))
}

func TestYAMLEndpointRejectsEmptyAndFailed(t *testing.T) {
	router := newTestRouter(t, testConfig())
	tests := []struct {
		body    string
		message string
	}{
		{"  \n ", "Input cannot be empty."},
		{"ftp://nope", "No valid configurations found. Check the log for details."},
	}
	for _, tt := range tests {
		rec := do(t, router, httptest.NewRequest(http.MethodPost, "/api/v1/convert/yaml", strings.NewReader(tt.body)))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tt.message, resp["error"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Token = "s3cret"
	router := newTestRouter(t, cfg)

	do(t, router, httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader("ftp://nope")))

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = do(t, router, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `subconv_http_requests_total{method="POST",route="/api/v1/convert",status="200"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	rec := do(t, newTestRouter(t, cfg), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Limit = 2
	router := newTestRouter(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader("ftp://nope"))
		codes = append(codes, do(t, router, req).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	assert.Equal(t, http.StatusOK, do(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/convert", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := do(t, newTestRouter(t, testConfig()), req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestNotFound(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
