package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var reqCnt = &Metric{
	ID:          "reqCnt",
	Name:        "req_total",
	Description: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	Type:        "counter_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

var reqDur = &Metric{
	ID:          "reqDur",
	Name:        "req_dur_ms",
	Description: "The HTTP request latencies in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

var resSz = &Metric{
	ID:          "resSz",
	Name:        "resp_sz_bytes",
	Description: "The HTTP response sizes in bytes.",
	Type:        "summary_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

var standardMetrics = []*Metric{reqCnt, reqDur, resSz}

const defaultMetricPath = "/metrics"

// Logger is satisfied by *zap.SugaredLogger.
type Logger interface {
	Errorf(template string, args ...interface{})
}

// URLLabelFn maps a request to its "url" label. Use the route template to keep
// per-profile paths such as /p/:id in one series.
type URLLabelFn func(c *gin.Context) string

// RouteTemplate labels requests by gin route, falling back to the raw path.
func RouteTemplate(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return "unmatched"
}

// Prometheus is a gin middleware collecting HTTP metrics, plus the domain counters.
type Prometheus struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec
	resSz  *prometheus.SummaryVec

	registry    prometheus.Registerer
	gatherer    prometheus.Gatherer
	metricsList []*Metric
	metricsPath string
	urlLabel    URLLabelFn
	logger      Logger
}

type NewPrometheusOptions struct {
	Subsystem   string
	MetricsList []*Metric
	MetricsPath string
	URLLabelFn  URLLabelFn
	Logger      Logger
	// Registry defaults to a fresh registry, so repeated construction in tests
	// never collides on the global one.
	Registry *prometheus.Registry
}

func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	reg := options.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	p := &Prometheus{
		registry:    reg,
		gatherer:    reg,
		metricsList: append(append([]*Metric{}, options.MetricsList...), standardMetrics...),
		metricsPath: options.MetricsPath,
		urlLabel:    options.URLLabelFn,
		logger:      options.Logger,
	}
	if p.metricsPath == "" {
		p.metricsPath = defaultMetricPath
	}
	if p.urlLabel == nil {
		p.urlLabel = RouteTemplate
	}
	p.registerMetrics(options.Subsystem)
	return p
}

func (p *Prometheus) registerMetrics(subsystem string) {
	for _, def := range p.metricsList {
		metric := NewMetric(def, subsystem)
		if err := p.registry.Register(metric); err != nil {
			if p.logger != nil {
				p.logger.Errorf("%s could not be registered in Prometheus, err=%v", def.Name, err)
			}
			continue
		}
		switch def {
		case reqCnt:
			p.reqCnt = metric.(*prometheus.CounterVec)
		case reqDur:
			p.reqDur = metric.(*prometheus.HistogramVec)
		case resSz:
			p.resSz = metric.(*prometheus.SummaryVec)
		}
		def.MetricCollector = metric
	}
}

// Handler serves the registry in the text exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

// Use installs the middleware and serves metrics on the same engine.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	e.GET(p.metricsPath, gin.WrapH(p.Handler()))
}

// HandlerFunc records count, latency and response size for every request.
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.metricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.urlLabel(c)
		ref := c.Request.Header.Get(RefererKey)

		if p.reqDur != nil {
			p.reqDur.WithLabelValues(status, c.Request.Method, url, ref).Observe(MillisecondsSince(start))
		}
		if p.reqCnt != nil {
			p.reqCnt.WithLabelValues(status, c.Request.Method, url, ref).Inc()
		}
		if p.resSz != nil {
			p.resSz.WithLabelValues(status, c.Request.Method, url, ref).Observe(float64(c.Writer.Size()))
		}
	}
}
