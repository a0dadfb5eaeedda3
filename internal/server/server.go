// Package server exposes the transit prediction pipeline over HTTP and
// WebSocket.
//
// The server holds no model state of its own. It is constructed with an
// *ml.Engine that was built once at startup, so every handler reads the same
// immutable classifier and scaler.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"exoplanet-detector/internal/ml"
	"exoplanet-detector/internal/storage"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// PredictionLog persists served predictions. *storage.Store implements it.
type PredictionLog interface {
	StorePrediction(record storage.PredictionRecord) error
	GetRecentPredictions(limit int) ([]storage.PredictionRecord, error)
}

// HTTPMetrics counts handled requests by route template and status code.
type HTTPMetrics interface {
	HTTPRequestInc(path string, code int)
}

// Options configures a Server. Only Engine is required.
type Options struct {
	Port     int
	Engine   *ml.Engine
	Store    PredictionLog       // optional prediction log
	Metrics  HTTPMetrics         // optional request counter
	Gatherer prometheus.Gatherer // enables GET /metrics when set
}

// Server is the HTTP surface of the inference service.
type Server struct {
	engine   *ml.Engine
	store    PredictionLog
	metrics  HTTPMetrics
	router   *mux.Router
	server   *http.Server
	upgrader websocket.Upgrader

	connsMu sync.Mutex
	conns   map[*websocket.Conn]struct{}
}

// New wires routes and middleware. The listener is not opened until Start.
func New(opts Options) *Server {
	s := &Server{
		engine:   opts.Engine,
		store:    opts.Store,
		metrics:  opts.Metrics,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		conns:    make(map[*websocket.Conn]struct{}),
	}

	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog, s.recoverPanic)

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/model/info", s.handleModelInfo).Methods(http.MethodGet)
	r.HandleFunc("/predictions", s.handlePredictions).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	s.router = r

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler returns the routed handler, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start serves until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Bool("model_loaded", s.engine.ModelLoaded()).Msg("starting inference server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, closes open WebSocket sessions and waits
// for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.connsMu.Lock()
	for conn := range s.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
	s.conns = make(map[*websocket.Conn]struct{})
	s.connsMu.Unlock()

	return s.server.Shutdown(ctx)
}
