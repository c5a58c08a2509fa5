package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	resumeOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_operations_total",
		Help: "Resume lifecycle operations by operation and outcome.",
	}, []string{"op", "outcome"})

	fileCleanups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_file_cleanup_total",
		Help: "Best-effort file reclamation attempts by outcome.",
	}, []string{"outcome"})

	uploadBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resume_upload_bytes",
		Help:    "Size of stored resume uploads.",
		Buckets: prometheus.ExponentialBuckets(16<<10, 4, 6),
	}, []string{"slot"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	Registry.MustRegister(
		resumeOps,
		fileCleanups,
		uploadBytes,
		httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveResumeOp counts one lifecycle operation. err == nil counts as success.
func ObserveResumeOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	resumeOps.WithLabelValues(op, outcome).Inc()
}

// IncFileCleanup counts one reclamation outcome.
func IncFileCleanup(outcome string) {
	fileCleanups.WithLabelValues(outcome).Inc()
}

// ObserveUploadBytes records the size of a stored upload.
func ObserveUploadBytes(slot string, size int64) {
	if size < 0 {
		return
	}
	uploadBytes.WithLabelValues(slot).Observe(float64(size))
}

// Instrument records request latency per matched route.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
