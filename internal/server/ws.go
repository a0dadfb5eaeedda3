package server

import (
	"encoding/json"
	"net/http"
	"time"

	"exoplanet-detector/internal/common"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsWriteTimeout = 10 * time.Second

// handleWebSocket streams predictions: every text frame is a PredictRequest
// and gets exactly one reply, either a Result or an ErrorResponse.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	requestID := RequestIDFrom(r.Context())

	// Upgrade writes its own handshake response, so headers set by middleware are lost
	conn, err := s.upgrader.Upgrade(w, r, http.Header{RequestIDHeader: []string{requestID}})
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(common.MaxRequestBodyBytes)

	s.connsMu.Lock()
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()

	defer func() {
		s.connsMu.Lock()
		delete(s.conns, conn)
		s.connsMu.Unlock()
		conn.Close()
	}()

	log.Debug().Str("request_id", requestID).Msg("websocket session opened")

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("request_id", requestID).Msg("websocket read failed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var req PredictRequest
		decodeErr := json.Unmarshal(data, &req)
		_, reply := s.predict(r.Context(), req, decodeErr)

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn().Err(err).Str("request_id", requestID).Msg("websocket write failed")
			return
		}
	}
}
