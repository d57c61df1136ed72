// 文件路径: internal/api/router.go
// 模块说明: HTTP 路由与中间件装配。
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/creamcroissant/subconv/internal/api/handler"
	"github.com/creamcroissant/subconv/internal/api/middleware"
	"github.com/creamcroissant/subconv/internal/cache"
	"github.com/creamcroissant/subconv/internal/config"
	"github.com/creamcroissant/subconv/internal/service"
)

// Services are the dependencies the routes call into.
type Services struct {
	Conversion service.ConversionService
	// Cache backs the rate limiter; required when rate limiting is on.
	Cache cache.Store
	// Metrics is the registry /metrics exposes and HTTP collectors
	// register on. Nil disables metrics regardless of config.
	Metrics *prometheus.Registry
}

var skipObservability = []string{"/healthz", "/metrics"}

// NewRouter wires the API endpoints and middleware.
func NewRouter(logger *slog.Logger, services Services, cfg *config.Config) http.Handler {
	if services.Conversion == nil {
		panic("router requires ConversionService")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
	)

	metricsEnabled := cfg.Metrics.Enabled && services.Metrics != nil
	if metricsEnabled {
		httpMetrics := middleware.NewMetrics(services.Metrics, middleware.MetricsConfig{
			Namespace: cfg.Metrics.Namespace,
			SkipPaths: skipObservability,
		})
		r.Use(httpMetrics.Middleware())
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.HTTP.CORSOrigins
	middlewares := []func(http.Handler) http.Handler{
		middleware.CORS(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodyBytes),
	}
	if cfg.RateLimit.Enabled && services.Cache != nil {
		middlewares = append(middlewares, middleware.RateLimit(services.Cache.Namespace("ratelimit"), middleware.RateLimitConfig{
			Limit:     cfg.RateLimit.Limit,
			Window:    cfg.RateLimit.Window,
			SkipPaths: skipObservability,
			Logger:    logger,
		}))
	}
	middlewares = append(middlewares,
		middleware.StructuredLogger(middleware.LoggingConfig{
			Logger:        logger,
			SlowThreshold: 500 * time.Millisecond,
			SkipPaths:     skipObservability,
		}),
		chiMiddleware.Recoverer,
		chiMiddleware.Compress(5),
	)
	r.Use(middlewares...)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	if metricsEnabled {
		metricsHandler := promhttp.HandlerFor(services.Metrics, promhttp.HandlerOpts{})
		if cfg.Metrics.Token != "" {
			r.With(middleware.MetricsGuard(cfg.Metrics.Token)).Handle("/metrics", metricsHandler)
		} else {
			r.Handle("/metrics", metricsHandler)
		}
	}

	convertHandler := handler.NewConvertHandler(services.Conversion)
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Post("/convert", convertHandler.Convert)
		v1.Post("/convert/yaml", convertHandler.YAML)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	return r
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
