package metrics

import "strconv"

// MetricsWrapper adapts Metrics to the narrow interfaces the ml, artifact and
// server packages depend on, which keeps them free of Prometheus imports.
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

func (w *MetricsWrapper) PredictionsInc() {
	w.m.Predictions.Inc()
}

func (w *MetricsWrapper) PredictionErrorsInc() {
	w.m.PredictionErrors.Inc()
}

func (w *MetricsWrapper) PredictionLatencyObserve(v float64) {
	w.m.PredictionLatency.Observe(v)
}

func (w *MetricsWrapper) PredictionScoresObserve(v float64) {
	w.m.PredictionScores.Observe(v)
}

func (w *MetricsWrapper) FallbackUseInc() {
	w.m.FallbackUse.Inc()
}

func (w *MetricsWrapper) ArtifactFetchObserve(v float64) {
	w.m.ArtifactFetch.Observe(v)
}

func (w *MetricsWrapper) ArtifactFailuresInc() {
	w.m.ArtifactFailures.Inc()
}

func (w *MetricsWrapper) FallbackActiveSet(active bool) {
	if active {
		w.m.FallbackActive.Set(1)
		return
	}
	w.m.FallbackActive.Set(0)
}

func (w *MetricsWrapper) HTTPRequestInc(path string, code int) {
	w.m.HTTPRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}
