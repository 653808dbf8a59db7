package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ports "wine-model-service/internal/core/ports/output"
)

const namespace = "wine_model"

// Recorder exposes scoring, artifact-loading and HTTP metrics on its own
// registry.
type Recorder struct {
	registry     *prometheus.Registry
	predictions  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	loads        *prometheus.CounterVec
	loadLatency  prometheus.Histogram
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

var _ ports.Recorder = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Scoring calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Scoring latency by operation.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_loads_total",
			Help:      "Artifact load attempts by result.",
		}, []string{"result"}),
		loadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_load_duration_seconds",
			Help:      "Time spent reading and decoding artifacts.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.predictions, r.latency, r.loads, r.loadLatency, r.httpRequests, r.httpLatency,
	)
	return r
}

func (r *Recorder) ObservePrediction(op string, outcome string, latency time.Duration) {
	r.predictions.WithLabelValues(op, outcome).Inc()
	r.latency.WithLabelValues(op).Observe(latency.Seconds())
}

func (r *Recorder) ObserveArtifactLoad(success bool, latency time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	r.loads.WithLabelValues(result).Inc()
	r.loadLatency.Observe(latency.Seconds())
}

// ObserveRequest records one HTTP exchange. route is the matched pattern, not
// the raw path.
func (r *Recorder) ObserveRequest(method, route string, status int, latency time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
