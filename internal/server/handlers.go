package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"exoplanet-detector/internal/common"
	"exoplanet-detector/internal/ml"
	"exoplanet-detector/internal/storage"

	"github.com/rs/zerolog/log"
)

const defaultPredictionsLimit = 20

// RootResponse is the body of GET /.
type RootResponse struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Fallback    bool   `json:"fallback"`
}

// PredictRequest is the body of POST /predict and of each WebSocket frame.
type PredictRequest struct {
	Features []float64 `json:"features"`
}

// ErrorResponse carries every failure returned by the service.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ModelInfo is the body of GET /model/info.
type ModelInfo struct {
	ModelLoaded bool             `json:"model_loaded"`
	Fallback    bool             `json:"fallback"`
	LoadedAt    time.Time        `json:"loaded_at"`
	Classifier  *ml.ArtifactMeta `json:"classifier,omitempty"`
	Scaler      *ml.ArtifactMeta `json:"scaler,omitempty"`
}

var errMissingFeatures = errors.New("field required: features")

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{
		Message:     common.APIMessage,
		Status:      common.StatusRunning,
		ModelLoaded: s.engine.ModelLoaded(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	models := s.engine.Models()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      common.StatusHealthy,
		ModelLoaded: s.engine.ModelLoaded(),
		Fallback:    models != nil && models.Fallback,
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxRequestBodyBytes)

	var req PredictRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&req)

	status, body := s.predict(r.Context(), req, decodeErr)
	writeJSON(w, status, body)
}

// predict runs one request through the engine and maps the outcome onto the
// HTTP contract. A decode failure is only reported once the model is known to
// be loaded.
func (s *Server) predict(ctx context.Context, req PredictRequest, decodeErr error) (int, any) {
	if !s.engine.ModelLoaded() {
		return http.StatusInternalServerError, ErrorResponse{Detail: common.DetailNotLoaded}
	}
	if decodeErr != nil {
		return http.StatusInternalServerError, ErrorResponse{Detail: (&ml.InferenceError{Err: decodeErr}).Error()}
	}
	if req.Features == nil {
		return http.StatusInternalServerError, ErrorResponse{Detail: (&ml.InferenceError{Err: errMissingFeatures}).Error()}
	}

	res, err := s.engine.Predict(ctx, req.Features)
	if err != nil {
		if errors.Is(err, ml.ErrModelNotLoaded) {
			return http.StatusInternalServerError, ErrorResponse{Detail: common.DetailNotLoaded}
		}
		log.Warn().Err(err).Int("features", len(req.Features)).Msg("prediction failed")
		return http.StatusInternalServerError, ErrorResponse{Detail: err.Error()}
	}

	s.logPrediction(req.Features, res)
	return http.StatusOK, res
}

func (s *Server) logPrediction(features []float64, res ml.Result) {
	if s.store == nil {
		return
	}
	models := s.engine.Models()
	record := storage.PredictionRecord{
		Features:           append([]float64(nil), features...),
		TransitProbability: res.TransitProbability,
		Prediction:         res.Prediction,
		Confidence:         res.Confidence,
		Fallback:           models != nil && models.Fallback,
	}
	if err := s.store.StorePrediction(record); err != nil {
		log.Error().Err(err).Msg("failed to persist prediction")
	}
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	info := ModelInfo{ModelLoaded: s.engine.ModelLoaded()}
	if models := s.engine.Models(); models != nil {
		meta := models.ClassifierMeta
		info.Fallback = models.Fallback
		info.LoadedAt = models.LoadedAt
		info.Classifier = &meta
		info.Scaler = models.ScalerMeta
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	limit := defaultPredictionsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > common.MaxPredictionsLimit {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Detail: fmt.Sprintf("limit must be an integer between 1 and %d", common.MaxPredictionsLimit),
			})
			return
		}
		limit = n
	}

	records := []storage.PredictionRecord{}
	if s.store != nil {
		recent, err := s.store.GetRecentPredictions(limit)
		if err != nil {
			log.Error().Err(err).Msg("failed to read prediction log")
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "failed to read prediction log"})
			return
		}
		records = append(records, recent...)
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
