package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creamcroissant/subconv/internal/convert"
)

// counterValue reads one labelled sample from the registry.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return float64(m.GetHistogram().GetSampleCount())
		}
	}
	return 0
}

func TestConvertMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConvertMetrics(reg, "")

	report, err := convert.Convert(convert.SampleInput + "\nftp://nope")
	require.NoError(t, err)
	m.Observe(report, 3*time.Millisecond)

	lines := "subconv_convert_lines_total"
	assert.Equal(t, 1.0, counterValue(t, reg, lines, map[string]string{"protocol": "vmess", "result": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, lines, map[string]string{"protocol": "vmess", "result": "failure"}))
	assert.Equal(t, 1.0, counterValue(t, reg, lines, map[string]string{"protocol": "trojan", "result": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, lines, map[string]string{"protocol": "unknown", "result": "failure"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "subconv_convert_batches_total", map[string]string{"status": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "subconv_convert_duration_seconds", nil))
}

func TestNilConvertMetrics(t *testing.T) {
	var m *ConvertMetrics
	report, err := convert.Convert("")
	require.NoError(t, err)
	assert.NotPanics(t, func() { m.Observe(report, time.Second) })
}
