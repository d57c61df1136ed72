// 文件路径: internal/service/conversion.go
// 模块说明: 转换服务，在纯转换流程外面包一层缓存、指标与日志，供 HTTP、TUI 与命令行共用。
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/creamcroissant/subconv/internal/cache"
	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/document"
	"github.com/creamcroissant/subconv/internal/metrics"
	"github.com/creamcroissant/subconv/internal/protocol"
)

// ErrNoProxies is returned by Profile when the batch has no successful line.
var ErrNoProxies = errors.New("service: no valid configurations / 没有可用节点")

// keyNamespace 用于生成确定性的缓存键（UUIDv5）。
var keyNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("subconv.report"))

// ConversionService converts share-link batches for every front end.
type ConversionService interface {
	// Convert runs the batch through the converter. Per-line failures are
	// part of the result, never the error.
	Convert(ctx context.Context, text string) (*ConversionResult, error)
	// Profile converts text and renders the successful lines as a full
	// Clash profile.
	Profile(ctx context.Context, text string) (*ProfileResult, error)
	// RenderProfile renders an already converted report as a profile.
	RenderProfile(report *convert.Report) (string, error)
}

// ConversionResult is one converted batch.
type ConversionResult struct {
	Report *convert.Report
	// Key is a deterministic digest of the input, usable as an ETag.
	Key    string
	Cached bool
}

// ProfileResult is a rendered profile together with its source report.
type ProfileResult struct {
	ConversionResult
	Profile string
}

// ConversionOptions wires the service dependencies. Every field is
// optional.
type ConversionOptions struct {
	Parallelism int
	Registry    *protocol.Registry
	// Cache stores reports by input digest; nil disables caching.
	Cache    cache.Store
	CacheTTL time.Duration
	Metrics  *metrics.ConvertMetrics
	Logger   *slog.Logger
	Profile  document.ProfileOptions
}

type conversionService struct {
	converter *convert.Converter
	cache     cache.Store
	cacheTTL  time.Duration
	metrics   *metrics.ConvertMetrics
	logger    *slog.Logger
	profile   document.ProfileOptions
}

// NewConversionService 组装转换服务。
func NewConversionService(opts ConversionOptions) ConversionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := opts.Cache
	if store != nil {
		store = store.Namespace("report")
	}
	return &conversionService{
		converter: convert.New(convert.Options{Registry: opts.Registry, Parallelism: opts.Parallelism}),
		cache:     store,
		cacheTTL:  opts.CacheTTL,
		metrics:   opts.Metrics,
		logger:    logger,
		profile:   opts.Profile,
	}
}

// ReportKey returns the deterministic key of an input batch.
func ReportKey(text string) string {
	return uuid.NewSHA1(keyNamespace, []byte(text)).String()
}

func (s *conversionService) Convert(ctx context.Context, text string) (*ConversionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := ReportKey(text)
	if s.cache != nil {
		if raw, ok := s.cache.Get(key); ok {
			report, ok := raw.(*convert.Report)
			if ok && report != nil {
				s.logger.DebugContext(ctx, "conversion cache hit", "key", key)
				return &ConversionResult{Report: report, Key: key, Cached: true}, nil
			}
			s.cache.Delete(key)
		}
	}

	start := time.Now()
	report, err := s.converter.Convert(text)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.ErrorContext(ctx, "conversion failed", "key", key, "error", err)
		return nil, fmt.Errorf("convert batch: %w", err)
	}
	s.metrics.Observe(report, elapsed)
	s.logReport(ctx, key, report, elapsed)

	if s.cache != nil {
		s.cache.Set(key, report, s.cacheTTL)
	}
	return &ConversionResult{Report: report, Key: key}, nil
}

func (s *conversionService) Profile(ctx context.Context, text string) (*ProfileResult, error) {
	res, err := s.Convert(ctx, text)
	if err != nil {
		return nil, err
	}
	profile, err := s.RenderProfile(res.Report)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{ConversionResult: *res, Profile: profile}, nil
}

func (s *conversionService) RenderProfile(report *convert.Report) (string, error) {
	proxies := report.Proxies()
	if len(proxies) == 0 {
		return "", ErrNoProxies
	}
	profile, err := document.RenderProfile(proxies, s.profile)
	if err != nil {
		return "", fmt.Errorf("render profile: %w", err)
	}
	return profile, nil
}

func (s *conversionService) logReport(ctx context.Context, key string, report *convert.Report, elapsed time.Duration) {
	s.logger.InfoContext(ctx, "conversion finished",
		slog.String("key", key),
		slog.String("status", report.Status().String()),
		slog.Int("lines", len(report.Outcomes)),
		slog.Int("succeeded", report.Succeeded()),
		slog.Int("failed", report.Failed()),
		slog.Duration("duration", elapsed),
	)
	if !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	// 原始链接含密码/UUID，只记录行号与原因
	for i, o := range report.Outcomes {
		if o.Success() {
			continue
		}
		s.logger.DebugContext(ctx, "line rejected", "key", key, "line", i+1, "reason", o.Reason())
	}
}
