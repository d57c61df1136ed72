// Package metrics exposes prometheus collectors for conversions.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/creamcroissant/subconv/internal/convert"
	"github.com/creamcroissant/subconv/internal/protocol"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
	unknownProto  = "unknown"
)

// ConvertMetrics counts converted lines and times conversion batches.
// A nil *ConvertMetrics is valid and records nothing.
type ConvertMetrics struct {
	lines    *prometheus.CounterVec
	duration prometheus.Histogram
	batches  *prometheus.CounterVec
}

// NewConvertMetrics registers the collectors on reg.
func NewConvertMetrics(reg prometheus.Registerer, namespace string) *ConvertMetrics {
	if namespace == "" {
		namespace = "subconv"
	}
	factory := promauto.With(reg)
	return &ConvertMetrics{
		lines: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "lines_total",
			Help:      "Share links processed, by protocol and result.",
		}, []string{"protocol", "result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "duration_seconds",
			Help:      "Time spent converting one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "batches_total",
			Help:      "Conversion batches, by status.",
		}, []string{"status"}),
	}
}

// Observe records one finished batch.
func (m *ConvertMetrics) Observe(report *convert.Report, elapsed time.Duration) {
	if m == nil || report == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	m.batches.WithLabelValues(report.Status().String()).Inc()
	for _, o := range report.Outcomes {
		if o.Success() {
			m.lines.WithLabelValues(o.Proxy.Type.String(), resultSuccess).Inc()
			continue
		}
		m.lines.WithLabelValues(failedProtocol(o.Err), resultFailure).Inc()
	}
}

func failedProtocol(err error) string {
	var pe *protocol.ParseError
	if errors.As(err, &pe) && pe.Protocol != "" {
		return pe.Protocol.String()
	}
	return unknownProto
}
