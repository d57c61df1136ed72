// 文件路径: internal/api/middleware/logging.go
// 模块说明: 请求日志中间件，带请求 ID，慢请求记为 WARN。
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingConfig 日志中间件配置
type LoggingConfig struct {
	Logger        *slog.Logger
	SlowThreshold time.Duration // 慢请求阈值
	SkipPaths     []string      // 跳过日志的路径（如健康检查）
}

// StructuredLogger logs one line per request. Request bodies are never
// logged since they carry credentials.
func StructuredLogger(config LoggingConfig) func(http.Handler) http.Handler {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.SlowThreshold <= 0 {
		config.SlowThreshold = 500 * time.Millisecond
	}
	skipPaths := toSet(config.SkipPaths)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestID := chiMiddleware.GetReqID(r.Context())
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			if requestID != "" {
				ww.Header().Set("X-Request-ID", requestID)
			}

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []slog.Attr{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Int64("request_bytes", r.ContentLength),
			}

			level, msg := slog.LevelInfo, "request completed"
			switch {
			case status >= 500:
				level, msg = slog.LevelError, "request failed"
			case status >= 400:
				level, msg = slog.LevelWarn, "request error"
			case duration > config.SlowThreshold:
				level, msg = slog.LevelWarn, "slow request"
			}
			config.Logger.LogAttrs(r.Context(), level, msg, attrs...)
		})
	}
}
