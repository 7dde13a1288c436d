package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	p := NewPrometheus(NewPrometheusOptions{Subsystem: "vcard", MetricsList: DomainMetrics, Registry: reg})

	r := gin.New()
	p.Use(r)
	r.GET("/p/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, 2.0, testutil.ToFloat64(p.reqCnt.WithLabelValues("200", "GET", "/p/:id", "")))

	IncExport("vcf")
	IncEvent("view")
	IncEvent("view")
	require.Equal(t, 1.0, testutil.ToFloat64(MetricsExports.MetricCollector.(*prometheus.CounterVec).WithLabelValues("vcf")))
	require.Equal(t, 2.0, testutil.ToFloat64(MetricsEvents.MetricCollector.(*prometheus.CounterVec).WithLabelValues("view")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "vcard_exports_total")
	require.Contains(t, w.Body.String(), "vcard_req_total")
}
