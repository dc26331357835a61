package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

// ingestOutcome tracks which pipeline attempt completed a document:
// real, minimal (degraded mode), or failed.
var ingestOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ingest_pipeline_outcome_total",
	Help: "Ingestion runs by terminal pipeline mode",
}, []string{"mode"})

// retrievalTier tracks which fallback tier produced the passages.
var retrievalTier = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "retrieval_tier_total",
	Help: "Retrieval calls by the tier that answered: vector, relational, static",
}, []string{"tier"})

var embeddingDegraded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "embedding_degraded_total",
	Help: "Embedding calls answered with a non-semantic fallback vector",
})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

var streamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "chat_stream_duration_seconds",
	Help:    "Wall time of a chat generation stream.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60},
}, []string{"status"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *HttpStatusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func CaptureIngestOutcome(mode string) {
	ingestOutcome.WithLabelValues(mode).Inc()
}

func CaptureRetrievalTier(tier string) {
	retrievalTier.WithLabelValues(tier).Inc()
}

func CaptureEmbeddingDegraded() {
	embeddingDegraded.Inc()
}

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureStreamMetrics(status string, timeElapsed time.Duration) {
	streamDuration.WithLabelValues(status).Observe(timeElapsed.Seconds())
}
