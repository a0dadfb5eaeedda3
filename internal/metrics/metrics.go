// Package metrics provides Prometheus metrics collection for the prediction service.
// It defines the prediction, artifact acquisition and HTTP metrics exposed via
// the /metrics endpoint for monitoring and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Prediction metrics
	Predictions       prometheus.Counter   // Total number of successful predictions
	PredictionErrors  prometheus.Counter   // Total number of failed predictions
	PredictionLatency prometheus.Histogram // End-to-end pipeline latency in seconds
	PredictionScores  prometheus.Histogram // Distribution of transit probabilities
	FallbackUse       prometheus.Counter   // Predictions served by the fallback classifier

	// Artifact metrics
	FallbackActive   prometheus.Gauge     // 1 when the fallback classifier is loaded
	ArtifactFetch    prometheus.Histogram // Artifact fetch duration in seconds
	ArtifactFailures prometheus.Counter   // Failed artifact acquisitions

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec // Requests by route and status code
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		Predictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "exo_predictions_total",
			Help: "Total number of successful predictions",
		}),
		PredictionErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "exo_prediction_errors_total",
			Help: "Total number of failed predictions",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "exo_prediction_latency_seconds",
			Help:    "Prediction pipeline latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		PredictionScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "exo_prediction_scores",
			Help:    "Distribution of transit probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		FallbackUse: factory.NewCounter(prometheus.CounterOpts{
			Name: "exo_fallback_use_total",
			Help: "Total number of predictions served by the fallback classifier",
		}),
		FallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "exo_fallback_active",
			Help: "1 when the fallback classifier is serving predictions",
		}),
		ArtifactFetch: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "exo_artifact_fetch_duration_seconds",
			Help:    "Artifact fetch duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		ArtifactFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "exo_artifact_failures_total",
			Help: "Total number of failed artifact acquisitions",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "exo_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"path", "code"}),
	}
}
