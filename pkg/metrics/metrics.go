package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var HistogramBuckets = []float64{
	// --- Fast responses (0 - 500ms) ---
	25, 50, 75, 100, 150, 200, 300, 400, 500,

	// --- Medium responses around 700ms (500ms - 2s) ---
	750, 1000, 1250, 1500, 1750, 2000,

	// --- Slow responses (2s - 15s) ---
	2500, 3000, 4000, 5000, 7500, 10000, 15000,

	// --- Extended range: covers 60000ms+ (15s - 75s) ---
	20000,  // 20s
	30000,  // 30s
	45000,  // 45s
	60000,  // 60s
	75000,  // 75s
	90000,  // 90s
	120000, // 120s
}

// Metric is a definition for the name, description, type, ID, and
// prometheus.Collector type (i.e. CounterVec, Summary, etc) of each metric
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric associates prometheus.Collector based on Metric.Type
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	var metric prometheus.Collector
	switch m.Type {
	case "counter_vec":
		metric = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "counter":
		metric = prometheus.NewCounter(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	case "gauge_vec":
		metric = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "gauge":
		metric = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	case "histogram_vec":
		metric = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "histogram":
		metric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
				Buckets:   HistogramBuckets,
			},
		)
	case "summary_vec":
		metric = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "summary":
		metric = prometheus.NewSummary(
			prometheus.SummaryOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	}
	return metric
}

var MetricsExports = &Metric{
	ID:          "exports",
	Name:        "exports_total",
	Description: "Profile exports, partitioned by format.",
	Type:        "counter_vec",
	Args:        []string{"format"},
}

var MetricsEvents = &Metric{
	ID:          "events",
	Name:        "events_total",
	Description: "Tracked profile analytics events, partitioned by type.",
	Type:        "counter_vec",
	Args:        []string{"type"},
}

var MetricsRenderFallbacks = &Metric{
	ID:          "renderFallbacks",
	Name:        "render_fallbacks_total",
	Description: "Profile pages served with the fallback card, partitioned by template.",
	Type:        "counter_vec",
	Args:        []string{"template"},
}

// DomainMetrics are registered alongside the HTTP metrics.
var DomainMetrics = []*Metric{MetricsExports, MetricsEvents, MetricsRenderFallbacks}

func incCounter(m *Metric, label string) {
	if cv, ok := m.MetricCollector.(*prometheus.CounterVec); ok {
		cv.WithLabelValues(label).Inc()
	}
}

// IncExport counts an export; a no-op until metrics are registered.
func IncExport(format string) { incCounter(MetricsExports, format) }

func IncEvent(eventType string) { incCounter(MetricsEvents, eventType) }

func IncRenderFallback(template string) { incCounter(MetricsRenderFallbacks, template) }

func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

const (
	RefererKey = "X-Referer"
)
