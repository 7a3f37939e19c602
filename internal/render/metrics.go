package render

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK          = "ok"
	outcomeDiagnostics = "diagnostics"
	outcomeInvalid     = "invalid"
	outcomeError       = "error"
)

// Metrics holds the renderer's prometheus instruments.
type Metrics struct {
	renders  *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates and registers the render metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vellum_renders_total",
				Help: "Total number of render calls by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "vellum_render_duration_seconds",
				Help: "Duration of completed renders",
			},
		),
	}
	reg.MustRegister(m.renders, m.duration)
	return m
}
