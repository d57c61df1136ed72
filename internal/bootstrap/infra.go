// 文件路径: internal/bootstrap/infra.go
// 模块说明: 按配置组装日志、缓存、指标与转换服务，供各个子命令共用。
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/creamcroissant/subconv/internal/cache"
	"github.com/creamcroissant/subconv/internal/config"
	"github.com/creamcroissant/subconv/internal/document"
	"github.com/creamcroissant/subconv/internal/metrics"
	"github.com/creamcroissant/subconv/internal/service"
	"github.com/creamcroissant/subconv/internal/support/logging"
)

// Infrastructure bundles the shared runtime pieces built from config.
type Infrastructure struct {
	Config     *config.Config
	Logger     *slog.Logger
	Cache      cache.Store // nil when caching is disabled
	Registry   *prometheus.Registry
	Conversion service.ConversionService
}

// BuildInfrastructure wires default implementations. Logs go to logOutput,
// stderr when nil.
func BuildInfrastructure(cfg *config.Config, logOutput io.Writer) (*Infrastructure, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required / 配置不能为空")
	}
	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Output:    logOutput,
	})

	infra := &Infrastructure{Config: cfg, Logger: logger}
	if cfg.Cache.Enabled {
		infra.Cache = cache.NewStore(cache.Options{
			DefaultTTL:      cfg.Cache.TTL,
			CleanupInterval: cfg.Cache.CleanupInterval,
			Prefix:          "subconv",
		})
	}

	var convertMetrics *metrics.ConvertMetrics
	if cfg.Metrics.Enabled {
		infra.Registry = prometheus.NewRegistry()
		infra.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		convertMetrics = metrics.NewConvertMetrics(infra.Registry, cfg.Metrics.Namespace)
	}

	infra.Conversion = service.NewConversionService(service.ConversionOptions{
		Parallelism: cfg.Convert.Parallelism,
		Cache:       infra.Cache,
		CacheTTL:    cfg.Cache.TTL,
		Metrics:     convertMetrics,
		Logger:      logger,
		Profile: document.ProfileOptions{
			Name:         cfg.Convert.ProfileName,
			TemplatePath: cfg.Convert.TemplatePath,
		},
	})
	return infra, nil
}
